package engine

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves a page and returns its parsed document
type Fetcher interface {
	// Fetch retrieves url and parses it as HTML
	Fetch(ctx context.Context, url string) (*goquery.Document, error)

	// Name returns the name of the fetcher implementation
	Name() string
}

// BodyFetcher is implemented by fetchers that can hand back the raw,
// UTF-8 decoded response body (used for feeds).
type BodyFetcher interface {
	FetchBody(ctx context.Context, url string) ([]byte, error)
}
