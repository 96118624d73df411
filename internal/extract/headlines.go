// internal/extract/headlines.go
package extract

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/headlines/internal/engine"
	urlutil "github.com/law-makers/headlines/internal/utils/url"
	"github.com/law-makers/headlines/pkg/models"
)

// DefaultLimit is the number of matches considered per site
const DefaultLimit = 10

// Headlines turns the elements matched by site.Selector into title/link
// records. Only the first limit matches are considered, and matches with
// empty text are skipped after the cut, so a page can yield fewer than limit
// records even when more elements match. limit <= 0 means DefaultLimit.
func Headlines(doc *goquery.Document, site models.SiteSpec, now time.Time, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches, err := Select(doc.Selection, site.Selector)
	if err != nil {
		return nil, engine.NewParseError(site.URL, err)
	}
	if matches.Length() > limit {
		matches = matches.Slice(0, limit)
	}

	records := make([]models.Record, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		title := text(s)
		if title == "" {
			return
		}

		fields := []models.Field{{Name: models.FieldTitle, Value: models.String(title)}}
		if href := linkOf(s); href != "" {
			fields = append(fields, models.Field{
				Name:  models.FieldLink,
				Value: models.String(urlutil.ResolveURL(site.URL, href)),
			})
		}

		records = append(records, models.Record{
			Fields:    fields,
			Source:    site.Name,
			ScrapedAt: now,
		})
	})

	return records, nil
}

// linkOf returns the href carried by the matched element itself
func linkOf(s *goquery.Selection) string {
	href, ok := s.Attr("href")
	if !ok {
		return ""
	}
	return href
}
