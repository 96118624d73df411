// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/law-makers/headlines/internal/app"
	"github.com/law-makers/headlines/internal/config"
	"github.com/law-makers/headlines/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Scrape headlines from news sites into CSV and friends",
	Long: `Headlines fetches a list of news sites, extracts headline titles and links
with CSS or XPath selectors, and saves everything collected to CSV (or JSON,
Markdown, an HTML chart, or MongoDB).

Site groups ship built in (news, tech, demo) and can be replaced or extended
in headlines.yaml.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
// This is called by main.main(). Command errors are printed, not turned
// into an exit status.
func Execute(ctx context.Context) {
	execute(ctx, os.Stderr)
}

func execute(ctx context.Context, errOut io.Writer) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "%s %v\n", ui.Error("Error:"), err)
	}
}

func init() {
	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if cfg.ConfigFile != "" {
			a.Logger.Debug().Str("file", cfg.ConfigFile).Msg("Configuration loaded")
		}

		if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
			ui.Plain = true
		}

		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTPTimeout)
		defer cancel()
		return a.Close(ctx)
	}
}

func init() {
	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for Headlines")
	rootCmd.Flags().Bool("version", false, "Version for Headlines")

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set custom help function
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
}
