// internal/pipeline/scraper.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/headlines/internal/collection"
	"github.com/law-makers/headlines/internal/engine"
	"github.com/law-makers/headlines/internal/engine/hybrid"
	"github.com/law-makers/headlines/internal/extract"
	"github.com/law-makers/headlines/internal/ratelimit"
	"github.com/law-makers/headlines/internal/reqctx"
	"github.com/law-makers/headlines/pkg/models"
)

// Options tunes a Scraper. The zero value scrapes sequentially with the
// default per-site cap and no render fallback.
type Options struct {
	// MaxPerSite caps the matches considered per site (extract.DefaultLimit when <= 0)
	MaxPerSite int

	// Concurrency is the number of sites fetched at once. 1 or less is sequential.
	Concurrency int

	// Limiter paces requests per host when Concurrency > 1
	Limiter ratelimit.RateLimiter

	// Renderer re-fetches script-driven pages whose static HTML had no matches
	Renderer engine.Fetcher

	// OnSite is called once per site after it finishes, successfully or not.
	// Calls are serialised.
	OnSite func(site models.SiteSpec, count int, err error)

	// Now stamps scraped_at (time.Now when nil)
	Now func() time.Time
}

// Scraper runs sites through fetch, extract and aggregate
type Scraper struct {
	fetcher    engine.Fetcher
	collection *collection.Collection
	opts       Options

	hookMu sync.Mutex
}

// New creates a Scraper that appends its results to coll
func New(fetcher engine.Fetcher, coll *collection.Collection, opts Options) *Scraper {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Concurrency > 1 && opts.Limiter == nil {
		opts.Limiter = ratelimit.NewDomainLimiter(1, 1)
	}
	if coll == nil {
		coll = collection.New()
	}
	return &Scraper{fetcher: fetcher, collection: coll, opts: opts}
}

// Collection returns the collection results are appended to
func (s *Scraper) Collection() *collection.Collection {
	return s.collection
}

// ScrapeHeadlines scrapes every site and returns the combined records in site
// order. A site that fails is logged and skipped; the rest still run. The
// records are also appended to the collection.
func (s *Scraper) ScrapeHeadlines(ctx context.Context, sites []models.SiteSpec) []models.Record {
	ctx = reqctx.WithRun(ctx)
	logger := reqctx.Logger(ctx)
	start := time.Now()

	var perSite [][]models.Record
	if s.opts.Concurrency > 1 && len(sites) > 1 {
		perSite = s.scrapeConcurrent(ctx, sites)
	} else {
		perSite = s.scrapeSequential(ctx, sites)
	}

	var all []models.Record
	for _, recs := range perSite {
		all = append(all, recs...)
	}
	s.collection.AddAll(all)

	logger.Info().
		Int("sites", len(sites)).
		Int("records", len(all)).
		Dur("elapsed", time.Since(start)).
		Msg("Headline scrape finished")
	return all
}

func (s *Scraper) scrapeSequential(ctx context.Context, sites []models.SiteSpec) [][]models.Record {
	out := make([][]models.Record, len(sites))
	for i, site := range sites {
		if ctx.Err() != nil {
			logger := reqctx.Logger(ctx)
			logger.Warn().Int("remaining", len(sites)-i).Msg("Scrape cancelled")
			break
		}
		out[i] = s.runSite(ctx, site)
	}
	return out
}

// scrapeConcurrent runs at most Concurrency sites at once. Results are stored
// by index so the output keeps input order.
func (s *Scraper) scrapeConcurrent(ctx context.Context, sites []models.SiteSpec) [][]models.Record {
	out := make([][]models.Record, len(sites))
	sem := make(chan struct{}, s.opts.Concurrency)
	var wg sync.WaitGroup

	for i, site := range sites {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int, site models.SiteSpec) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.opts.Limiter.Wait(ctx, site.URL); err != nil {
				s.report(ctx, site, nil, fmt.Errorf("rate limit wait: %w", err))
				return
			}
			out[i] = s.runSite(ctx, site)
		}(i, site)
	}

	wg.Wait()
	return out
}

// runSite is the per-site failure boundary
func (s *Scraper) runSite(ctx context.Context, site models.SiteSpec) []models.Record {
	logger := reqctx.Logger(ctx)
	logger.Info().Str("site", site.Name).Str("url", site.URL).Msg("Scraping site")

	records, err := s.ScrapeSite(ctx, site)
	s.report(ctx, site, records, err)
	if err != nil {
		return nil
	}
	return records
}

func (s *Scraper) report(ctx context.Context, site models.SiteSpec, records []models.Record, err error) {
	logger := reqctx.Logger(ctx)
	if err != nil {
		event := logger.Error()
		if !engine.IsSiteError(err) {
			event = logger.Warn()
		}
		event.Err(err).Str("site", site.Name).Msg("Site skipped")
	} else {
		logger.Debug().Str("site", site.Name).Int("count", len(records)).Msg("Site done")
	}

	if s.opts.OnSite != nil {
		s.hookMu.Lock()
		s.opts.OnSite(site, len(records), err)
		s.hookMu.Unlock()
	}
}

// ScrapeSite fetches and extracts a single site without touching the collection
func (s *Scraper) ScrapeSite(ctx context.Context, site models.SiteSpec) ([]models.Record, error) {
	if site.IsFeed() {
		return s.scrapeFeed(ctx, site)
	}

	doc, err := s.fetcher.Fetch(ctx, site.URL)
	if err != nil {
		return nil, err
	}

	records, err := extract.Headlines(doc, site, s.opts.Now(), s.opts.MaxPerSite)
	if err != nil || len(records) > 0 || !s.shouldRender(doc) {
		return records, err
	}

	logger := reqctx.Logger(ctx)
	logger.Info().
		Str("site", site.Name).
		Str("framework", hybrid.DetectFramework(doc)).
		Msg("No static matches on a script-driven page, rendering")

	rendered, err := s.opts.Renderer.Fetch(ctx, site.URL)
	if err != nil {
		return nil, err
	}
	return extract.Headlines(rendered, site, s.opts.Now(), s.opts.MaxPerSite)
}

func (s *Scraper) shouldRender(doc *goquery.Document) bool {
	return s.opts.Renderer != nil && hybrid.NeedsJavaScript(doc)
}

func (s *Scraper) scrapeFeed(ctx context.Context, site models.SiteSpec) ([]models.Record, error) {
	bf, ok := s.fetcher.(engine.BodyFetcher)
	if !ok {
		return nil, engine.NewFetchError(site.URL, 0, errors.New(s.fetcher.Name()+" cannot fetch raw feed bodies"))
	}
	body, err := bf.FetchBody(ctx, site.URL)
	if err != nil {
		return nil, err
	}
	return extract.FeedHeadlines(body, site, s.opts.Now(), s.opts.MaxPerSite)
}

// ScrapeGeneric extracts spec's fields from one page and appends the records
// to the collection. Fetch and parse failures are returned to the caller.
func (s *Scraper) ScrapeGeneric(ctx context.Context, spec models.GenericSpec) ([]models.Record, error) {
	ctx = reqctx.WithRun(ctx)
	logger := reqctx.Logger(ctx)

	if len(spec.Fields) == 0 {
		return nil, extract.ErrNoFields
	}

	doc, err := s.fetcher.Fetch(ctx, spec.URL)
	if err != nil {
		logger.Error().Err(err).Str("url", spec.URL).Msg("Generic scrape failed")
		return nil, err
	}

	records, err := extract.Generic(doc, spec, s.opts.Now())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 && s.shouldRender(doc) {
		logger.Info().Str("url", spec.URL).Msg("No static matches on a script-driven page, rendering")
		if doc, err = s.opts.Renderer.Fetch(ctx, spec.URL); err != nil {
			return nil, err
		}
		if records, err = extract.Generic(doc, spec, s.opts.Now()); err != nil {
			return nil, err
		}
	}

	s.collection.AddAll(records)
	logger.Info().Str("url", spec.URL).Int("records", len(records)).Msg("Generic scrape finished")
	return records, nil
}
