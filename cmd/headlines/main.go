// cmd/headlines/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/law-makers/headlines/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	// HEADLINES_* settings may live in a local .env file
	godotenv.Load()

	// First interrupt cancels the running scrape, a second one exits immediately
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Interrupt received, shutting down gracefully...")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	cli.Execute(ctx)
	cancel()
}
