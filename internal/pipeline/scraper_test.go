package pipeline

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/headlines/internal/collection"
	"github.com/law-makers/headlines/internal/engine"
	"github.com/law-makers/headlines/internal/engine/static"
	"github.com/law-makers/headlines/internal/ratelimit"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func page(titles ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, title := range titles {
		fmt.Fprintf(&b, `<h2><a href="/story/%d">%s</a></h2>`, i, title)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/one", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("One A", "One B"))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/three", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("Three A"))
	})
	mux.HandleFunc("/many", func(w http.ResponseWriter, r *http.Request) {
		titles := make([]string, 25)
		for i := range titles {
			titles[i] = fmt.Sprintf("Story %d", i)
		}
		fmt.Fprint(w, page(titles...))
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>F</title>
<item><title>Feed story</title><link>https://feed.example/1</link></item></channel></rss>`)
	})
	mux.HandleFunc("/spa", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`)
	})
	mux.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ul><li class="item"><b>Alpha</b><a href="/a">x</a></li><li class="item"><b>Beta</b></li></ul>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newScraper(opts Options) *Scraper {
	opts.Now = func() time.Time { return fixedNow }
	return New(static.New(nil, static.Options{}), collection.New(), opts)
}

func titles(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r.Get(models.FieldTitle)
	}
	return out
}

// closedURL returns a URL on a port nothing listens on
func closedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr + "/"
}

func TestScrapeHeadlines_PartialFailure(t *testing.T) {
	server := newServer(t)

	type call struct {
		site  string
		count int
		err   error
	}
	var calls []call
	s := newScraper(Options{OnSite: func(site models.SiteSpec, count int, err error) {
		calls = append(calls, call{site.Name, count, err})
	}})

	sites := []models.SiteSpec{
		{Name: "One", URL: server.URL + "/one", Selector: "h2 a"},
		{Name: "Broken", URL: server.URL + "/broken", Selector: "h2 a"},
		{Name: "Unreachable", URL: closedURL(t), Selector: "h2 a"},
		{Name: "Three", URL: server.URL + "/three", Selector: "h2 a"},
	}
	records := s.ScrapeHeadlines(context.Background(), sites)

	assert.Equal(t, []string{"One A", "One B", "Three A"}, titles(records))
	assert.Equal(t, "One", records[0].Source)
	assert.Equal(t, "Three", records[2].Source)
	assert.Equal(t, 3, s.Collection().Len())

	require.Len(t, calls, 4)
	assert.Equal(t, 2, calls[0].count)
	assert.ErrorIs(t, calls[1].err, engine.ErrFetch)
	assert.ErrorIs(t, calls[2].err, engine.ErrFetch)
	assert.Equal(t, 0, calls[2].count)
	assert.NoError(t, calls[3].err)

	link, _ := records[0].Get(models.FieldLink)
	assert.Equal(t, server.URL+"/story/0", link)
}

func TestScrapeHeadlines_CapPerSite(t *testing.T) {
	server := newServer(t)
	s := newScraper(Options{})

	records := s.ScrapeHeadlines(context.Background(), []models.SiteSpec{
		{Name: "Many", URL: server.URL + "/many", Selector: "h2 a"},
	})
	assert.Len(t, records, 10)

	s = newScraper(Options{MaxPerSite: 3})
	records = s.ScrapeHeadlines(context.Background(), []models.SiteSpec{
		{Name: "Many", URL: server.URL + "/many", Selector: "h2 a"},
	})
	assert.Equal(t, []string{"Story 0", "Story 1", "Story 2"}, titles(records))
}

func TestScrapeHeadlines_AppendsAcrossCalls(t *testing.T) {
	server := newServer(t)
	s := newScraper(Options{})
	site := []models.SiteSpec{{Name: "Three", URL: server.URL + "/three", Selector: "h2 a"}}

	s.ScrapeHeadlines(context.Background(), site)
	s.ScrapeHeadlines(context.Background(), site)
	assert.Equal(t, 2, s.Collection().Len())
	assert.Equal(t, map[string]int{"Three": 2}, s.Collection().Summarize().Sources)
}

func TestScrapeHeadlines_ConcurrentKeepsOrder(t *testing.T) {
	var inFlight, peak atomic.Int32
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()
		// Earlier sites answer slower so completion order differs from input order
		idx := strings.TrimPrefix(r.URL.Path, "/")
		if idx == "0" {
			time.Sleep(100 * time.Millisecond)
		}
		fmt.Fprint(w, page("Site "+idx))
	}))
	defer server.Close()

	var sites []models.SiteSpec
	for i := 0; i < 6; i++ {
		sites = append(sites, models.SiteSpec{
			Name:     fmt.Sprintf("S%d", i),
			URL:      fmt.Sprintf("%s/%d", server.URL, i),
			Selector: "h2 a",
		})
	}

	s := newScraper(Options{Concurrency: 2, Limiter: ratelimit.NewDomainLimiter(1000, 10)})
	records := s.ScrapeHeadlines(context.Background(), sites)

	assert.Equal(t, []string{"Site 0", "Site 1", "Site 2", "Site 3", "Site 4", "Site 5"}, titles(records))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestScrapeHeadlines_CancelledContext(t *testing.T) {
	server := newServer(t)
	s := newScraper(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := s.ScrapeHeadlines(ctx, []models.SiteSpec{{Name: "One", URL: server.URL + "/one", Selector: "h2 a"}})
	assert.Empty(t, records)
	assert.Equal(t, 0, s.Collection().Len())
}

func TestScrapeHeadlines_Feed(t *testing.T) {
	server := newServer(t)
	s := newScraper(Options{})

	records := s.ScrapeHeadlines(context.Background(), []models.SiteSpec{
		{Name: "Feed", URL: server.URL + "/feed", Kind: models.KindFeed},
	})
	require.Len(t, records, 1)
	assert.Equal(t, "Feed story", titles(records)[0])
}

type stubRenderer struct {
	html  string
	calls int
}

func (r *stubRenderer) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	r.calls++
	return goquery.NewDocumentFromReader(strings.NewReader(r.html))
}

func (r *stubRenderer) Name() string { return "stub" }

func TestScrapeHeadlines_RenderFallback(t *testing.T) {
	server := newServer(t)
	renderer := &stubRenderer{html: page("Rendered")}
	s := newScraper(Options{Renderer: renderer})

	records := s.ScrapeHeadlines(context.Background(), []models.SiteSpec{
		{Name: "SPA", URL: server.URL + "/spa", Selector: "h2 a"},
		{Name: "Static", URL: server.URL + "/three", Selector: "h2 a"},
	})
	assert.Equal(t, []string{"Rendered", "Three A"}, titles(records))
	assert.Equal(t, 1, renderer.calls, "only the script-driven page should be rendered")
}

func TestScrapeHeadlines_NoRendererNoFallback(t *testing.T) {
	server := newServer(t)
	s := newScraper(Options{})

	records := s.ScrapeHeadlines(context.Background(), []models.SiteSpec{
		{Name: "SPA", URL: server.URL + "/spa", Selector: "h2 a"},
	})
	assert.Empty(t, records)
}

func TestScrapeGeneric(t *testing.T) {
	server := newServer(t)
	s := newScraper(Options{})

	records, err := s.ScrapeGeneric(context.Background(), models.GenericSpec{
		Name: "Catalog",
		URL:  server.URL + "/catalog",
		Fields: []models.FieldSelector{
			{Name: "row", Selector: "li.item"},
			{Name: "name", Selector: "b"},
			{Name: "url", Selector: "a[href]"},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, s.Collection().Len())

	u, _ := records[0].Get("url")
	assert.Equal(t, server.URL+"/a", u)
	_, ok := records[1].Get("url")
	assert.False(t, ok)
}

func TestScrapeGeneric_FetchError(t *testing.T) {
	server := newServer(t)
	s := newScraper(Options{})

	_, err := s.ScrapeGeneric(context.Background(), models.GenericSpec{
		URL:    server.URL + "/broken",
		Fields: []models.FieldSelector{{Name: "title", Selector: "h1"}},
	})
	assert.ErrorIs(t, err, engine.ErrFetch)
	assert.Equal(t, 0, s.Collection().Len())
}
