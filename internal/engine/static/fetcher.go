// internal/engine/static/fetcher.go
package static

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/law-makers/headlines/internal/engine"
	"github.com/law-makers/headlines/internal/proxy"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is sent when Options.UserAgent is empty
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Options configures a Fetcher
type Options struct {
	UserAgent   string
	Headers     map[string]string
	Delay       time.Duration // fixed pause after every successful fetch
	MaxBodySize int64
	Proxies     *proxy.Pool
}

// Fetcher implements engine.Fetcher over plain HTTP and goquery.
// All requests share one http.Client so connections are reused between sites.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher around a shared client
func New(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Fetcher{
		client: client,
		opts:   opts,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch retrieves url and parses it into a goquery document
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, engine.NewParseError(url, err)
	}

	f.throttle(ctx)
	return doc, nil
}

// FetchBody retrieves url and returns its body decoded to UTF-8
func (f *Fetcher) FetchBody(ctx context.Context, url string) ([]byte, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	f.throttle(ctx)
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	log.Debug().
		Str("url", url).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	var usedProxy string
	if f.opts.Proxies.Len() > 0 {
		usedProxy = f.opts.Proxies.Next()
		ctx = proxy.WithProxy(ctx, usedProxy)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, engine.NewFetchError(url, 0, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ko;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if usedProxy != "" {
			f.opts.Proxies.MarkFailed(usedProxy)
			log.Warn().Str("proxy", usedProxy).Err(err).Msg("Proxy marked as failed")
		}
		return nil, engine.NewFetchError(url, 0, err)
	}
	defer resp.Body.Close()
	if usedProxy != "" {
		f.opts.Proxies.MarkHealthy(usedProxy)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, engine.NewFetchError(url, resp.StatusCode,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var reader io.Reader = resp.Body
	reader, err = decompressReader(resp.Header.Get("Content-Encoding"), reader)
	if err != nil {
		return nil, engine.NewParseError(url, err)
	}
	if f.opts.MaxBodySize > 0 {
		reader = io.LimitReader(reader, f.opts.MaxBodySize)
	}

	reader, err = charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, engine.NewParseError(url, fmt.Errorf("failed to decode charset: %w", err))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, engine.NewFetchError(url, resp.StatusCode, fmt.Errorf("failed to read body: %w", err))
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetch completed")

	return body, nil
}

// throttle blocks for the configured delay. A cancelled context cuts the
// pause short; the caller notices the cancellation before its next fetch.
func (f *Fetcher) throttle(ctx context.Context) {
	if f.opts.Delay <= 0 {
		return
	}
	timer := time.NewTimer(f.opts.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// decompressReader wraps r according to the Content-Encoding header
func decompressReader(encoding string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		return gzip.NewReader(r)
	case "deflate":
		return zlib.NewReader(r)
	case "br":
		return brotli.NewReader(r), nil
	default:
		return r, nil
	}
}
