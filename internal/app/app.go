// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/law-makers/headlines/internal/collection"
	"github.com/law-makers/headlines/internal/config"
	"github.com/law-makers/headlines/internal/engine/dynamic"
	"github.com/law-makers/headlines/internal/engine/static"
	"github.com/law-makers/headlines/internal/export"
	"github.com/law-makers/headlines/internal/pipeline"
	"github.com/law-makers/headlines/internal/proxy"
	"github.com/law-makers/headlines/internal/ratelimit"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands. The HTTP
// client and the collection live as long as the Application; use Close() to
// release them.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	HTTPClient  *http.Client
	Proxies     *proxy.Pool
	RateLimiter ratelimit.RateLimiter
	Renderer    *dynamic.Renderer
	Collection  *collection.Collection
	Exporter    *export.Exporter

	mongoMu   sync.Mutex
	mongo     *export.MongoSink
	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the proxy pool and the per-host rate limiter
//   - Initializes the shared HTTP client with proper timeouts
//   - Creates the headless renderer when rendering is enabled (the browser
//     itself starts on first use)
//   - Creates the collection and the exporter writing into the output dir
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := setupLogger(cfg, os.Stderr)

	proxies := proxy.NewPool(cfg.Proxies)
	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Int("proxies", proxies.Len()).
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			Proxy:               proxy.TransportProxy,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
		},
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Msg("HTTP client initialized")

	var renderer *dynamic.Renderer
	if cfg.Render {
		var browserProxy string
		if proxies.Len() > 0 {
			browserProxy = proxies.Next()
		}
		renderer = dynamic.New(dynamic.Options{
			UserAgent:  cfg.UserAgent,
			Headers:    cfg.Headers,
			Timeout:    cfg.RenderTimeout,
			Wait:       cfg.RenderWait,
			Proxy:      browserProxy,
			ChromePath: cfg.ChromePath,
			Headless:   cfg.BrowserHeadless,
		})
		logger.Debug().Bool("headless", cfg.BrowserHeadless).Msg("Renderer configured")
	}

	coll := collection.New()

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		HTTPClient:  httpClient,
		Proxies:     proxies,
		RateLimiter: rateLimiter,
		Renderer:    renderer,
		Collection:  coll,
		Exporter:    export.New(cfg.OutputDir, coll),
		startTime:   time.Now(),
	}

	logger.Info().Msg("Application initialized successfully")
	return app, nil
}

// setupLogger points the global zerolog logger at w, honouring the
// configured level and format.
func setupLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	logWriter := w
	if !cfg.JSONLog {
		logWriter = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	log.Logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return log.Logger
}

// NewScraper builds a pipeline over the shared client and collection. delay
// is the pause after every fetch; onSite may be nil.
func (a *Application) NewScraper(delay time.Duration, onSite func(models.SiteSpec, int, error)) *pipeline.Scraper {
	fetcher := static.New(a.HTTPClient, static.Options{
		UserAgent:   a.Config.UserAgent,
		Headers:     a.Config.Headers,
		Delay:       delay,
		MaxBodySize: a.Config.MaxBodySize,
		Proxies:     a.Proxies,
	})

	opts := pipeline.Options{
		MaxPerSite:  a.Config.MaxPerSite,
		Concurrency: a.Config.Concurrency,
		Limiter:     a.RateLimiter,
		OnSite:      onSite,
	}

	if a.Renderer != nil {
		opts.Renderer = a.Renderer
	}
	return pipeline.New(fetcher, a.Collection, opts)
}

// Save writes records (the whole collection when nil) in every configured
// format and returns the written locations. It stops at the first failure.
func (a *Application) Save(ctx context.Context, prefix string, records []models.Record) ([]string, error) {
	var written []string
	for _, format := range a.Config.Formats {
		var (
			path string
			err  error
		)
		switch format {
		case "csv":
			path, err = a.Exporter.ExportCSV(prefix, records)
		case "json":
			path, err = a.Exporter.ExportJSON(prefix, records)
		case "md":
			path, err = a.Exporter.ExportMarkdown(prefix, records)
		case "chart":
			path, err = a.Exporter.RenderChart(prefix, records)
		case "mongo":
			path, err = a.storeMongo(ctx, records)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (a *Application) storeMongo(ctx context.Context, records []models.Record) (string, error) {
	a.mongoMu.Lock()
	defer a.mongoMu.Unlock()

	if a.mongo == nil {
		sink, err := export.NewMongoSink(ctx, a.Config.MongoURI, a.Config.MongoDatabase, a.Config.MongoCollection)
		if err != nil {
			return "", err
		}
		a.mongo = sink
	}
	if records == nil {
		records = a.Collection.Records()
	}
	n, err := a.mongo.Store(ctx, records)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("mongodb %s.%s (%d documents)", a.Config.MongoDatabase, a.Config.MongoCollection, n), nil
}

// Close gracefully shuts down the application and all its resources.
//
// It performs the following cleanup steps in order:
//   - Closes the headless browser, if one was started
//   - Disconnects from MongoDB, if connected
//   - Closes idle connections of the shared HTTP client
//
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down application")

	if a.Renderer != nil {
		if err := a.Renderer.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser")
		}
	}

	a.mongoMu.Lock()
	if a.mongo != nil {
		if err := a.mongo.Close(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("Error disconnecting from MongoDB")
		}
		a.mongo = nil
	}
	a.mongoMu.Unlock()

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Info().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
