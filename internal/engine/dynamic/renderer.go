// internal/engine/dynamic/renderer.go
package dynamic

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/headlines/internal/engine"
	"github.com/rs/zerolog/log"
)

// Options configures a Renderer
type Options struct {
	UserAgent  string
	Headers    map[string]string
	Timeout    time.Duration
	Wait       time.Duration // extra settle time after the DOM is ready
	Proxy      string
	ChromePath string
	Headless   bool
}

// Renderer implements engine.Fetcher with headless Chrome, for sites whose
// headlines only exist after client-side rendering. The browser is started
// on first use and shared by every later Fetch until Close.
type Renderer struct {
	opts Options

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// New creates a Renderer. No browser is launched until the first Fetch.
func New(opts Options) *Renderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Renderer{opts: opts}
}

// Name returns the name of this fetcher
func (r *Renderer) Name() string {
	return "ChromeRenderer"
}

func (r *Renderer) browser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx != nil {
		return r.browserCtx, nil
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
	}
	if r.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if r.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(r.opts.UserAgent))
	}
	if path := FindChrome(r.opts.ChromePath); path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if r.opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(r.opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Launch now so a missing binary surfaces here rather than mid-navigation
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	r.allocCancel = allocCancel
	r.browserCtx = browserCtx
	r.browserCancel = browserCancel

	log.Debug().Bool("headless", r.opts.Headless).Msg("Browser started")
	return browserCtx, nil
}

// Fetch navigates a fresh tab to url and parses the rendered DOM
func (r *Renderer) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	browserCtx, err := r.browser()
	if err != nil {
		return nil, engine.NewFetchError(url, 0, err)
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.opts.Timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var status atomic.Int64
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			status.CompareAndSwap(0, e.Response.Status)
		}
	})

	tasks := chromedp.Tasks{network.Enable()}
	if len(r.opts.Headers) > 0 {
		headers := network.Headers{}
		for k, v := range r.opts.Headers {
			headers[k] = v
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(headers))
	}

	var html string
	tasks = append(tasks,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.opts.Wait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return nil, engine.NewFetchError(url, int(status.Load()), fmt.Errorf("chromedp execution failed: %w", err))
	}

	if code := int(status.Load()); code != 0 && (code < 200 || code > 299) {
		return nil, engine.NewFetchError(url, code, fmt.Errorf("HTTP %d", code))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, engine.NewParseError(url, err)
	}

	log.Debug().
		Str("url", url).
		Int64("status", status.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("Render completed")

	return doc, nil
}

// Close shuts the browser down
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCancel != nil {
		r.browserCancel()
		r.allocCancel()
		r.browserCtx = nil
		r.browserCancel = nil
		r.allocCancel = nil
		log.Debug().Msg("Browser closed")
	}
	return nil
}
