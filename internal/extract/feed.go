// internal/extract/feed.go
package extract

import (
	"bytes"
	"strings"
	"time"

	"github.com/law-makers/headlines/internal/engine"
	urlutil "github.com/law-makers/headlines/internal/utils/url"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/mmcdole/gofeed"
)

// FeedHeadlines parses an RSS, Atom or JSON feed body into title/link
// records, applying the same cap and empty-title rule as Headlines.
func FeedHeadlines(body []byte, site models.SiteSpec, now time.Time, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, engine.NewParseError(site.URL, err)
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	records := make([]models.Record, 0, len(items))
	for _, item := range items {
		title := strings.Join(strings.Fields(item.Title), " ")
		if title == "" {
			continue
		}
		fields := []models.Field{{Name: models.FieldTitle, Value: models.String(title)}}
		if item.Link != "" {
			fields = append(fields, models.Field{
				Name:  models.FieldLink,
				Value: models.String(urlutil.ResolveURL(site.URL, item.Link)),
			})
		}
		records = append(records, models.Record{Fields: fields, Source: site.Name, ScrapedAt: now})
	}
	return records, nil
}
