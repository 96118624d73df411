// Package reqctx tags a scrape run with an ID that follows it through the logs.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const runKey key = 0

// RunContext identifies one scrape batch
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRun attaches a fresh RunContext to ctx unless one is already present
func WithRun(ctx context.Context) context.Context {
	if _, ok := ctx.Value(runKey).(*RunContext); ok {
		return ctx
	}
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		StartTime: time.Now(),
	})
}

// GetRun returns the RunContext attached to ctx, or a placeholder
func GetRun(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns the global logger tagged with the run ID
func Logger(ctx context.Context) zerolog.Logger {
	return log.With().Str("run_id", GetRun(ctx).RunID).Logger()
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
