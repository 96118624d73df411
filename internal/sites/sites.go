// Package sites holds the built-in scrape target groups.
package sites

import (
	"fmt"
	"sort"
	"strings"

	"github.com/law-makers/headlines/internal/extract"
	urlutil "github.com/law-makers/headlines/internal/utils/url"
	"github.com/law-makers/headlines/pkg/models"
)

// Group names shipped by default
const (
	GroupNews = "news"
	GroupTech = "tech"
	GroupDemo = "demo"
)

var hackerNews = models.SiteSpec{
	Name:     "Hacker News",
	URL:      "https://news.ycombinator.com/",
	Selector: ".storylink, .titleline > a",
}

var defaults = map[string][]models.SiteSpec{
	GroupNews: {
		hackerNews,
		{
			Name:     "BBC News",
			URL:      "https://www.bbc.com/news",
			Selector: `[data-testid="card-headline"] h3, .gs-c-promo-heading__title`,
		},
		{
			Name:     "Reuters",
			URL:      "https://www.reuters.com/",
			Selector: `[data-testid="Heading"] a, .story-title a`,
		},
		{
			Name:     "CNN",
			URL:      "https://www.cnn.com/",
			Selector: ".container__headline a, h3.cd__headline a",
		},
	},
	GroupTech: {
		hackerNews,
		{
			Name:     "TechCrunch",
			URL:      "https://techcrunch.com/",
			Selector: ".post-block__title__link",
		},
		{
			Name:     "The Verge",
			URL:      "https://www.theverge.com/",
			Selector: "h2 a, h3 a",
		},
	},
	GroupDemo: {
		{
			Name:     "Example News",
			URL:      "https://example.com",
			Selector: "h1, h2, h3",
		},
	},
}

// Groups maps a group name to its ordered site list
type Groups map[string][]models.SiteSpec

// Defaults returns a copy of the built-in groups
func Defaults() Groups {
	out := make(Groups, len(defaults))
	for name, list := range defaults {
		out[name] = append([]models.SiteSpec(nil), list...)
	}
	return out
}

// Merge returns g with every group in overrides replacing the group of the
// same name. Group names are case-insensitive.
func (g Groups) Merge(overrides map[string][]models.SiteSpec) Groups {
	out := make(Groups, len(g)+len(overrides))
	for name, list := range g {
		out[strings.ToLower(name)] = list
	}
	for name, list := range overrides {
		out[strings.ToLower(name)] = append([]models.SiteSpec(nil), list...)
	}
	return out
}

// Get returns the sites of a group
func (g Groups) Get(name string) ([]models.SiteSpec, error) {
	list, ok := g[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown site group %q (available: %s)", name, strings.Join(g.Names(), ", "))
	}
	return list, nil
}

// First returns at most n sites of a group
func (g Groups) First(name string, n int) ([]models.SiteSpec, error) {
	list, err := g.Get(name)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list, nil
}

// Names returns the group names in sorted order
func (g Groups) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every site: a name, an http(s) URL, a known kind, and a
// selector that compiles (feeds need none).
func (g Groups) Validate() error {
	for _, group := range g.Names() {
		if len(g[group]) == 0 {
			return fmt.Errorf("site group %q is empty", group)
		}
		for i, site := range g[group] {
			if err := ValidateSite(site); err != nil {
				return fmt.Errorf("site group %q entry %d: %w", group, i, err)
			}
		}
	}
	return nil
}

// ValidateSite checks a single site definition
func ValidateSite(site models.SiteSpec) error {
	if strings.TrimSpace(site.Name) == "" {
		return fmt.Errorf("site name is required")
	}
	if err := urlutil.ValidateURL(site.URL); err != nil {
		return fmt.Errorf("%s: %w", site.Name, err)
	}
	switch site.Kind {
	case "", models.KindHTML:
		if err := extract.Validate(site.Selector); err != nil {
			return fmt.Errorf("%s: %w", site.Name, err)
		}
	case models.KindFeed:
	default:
		return fmt.Errorf("%s: unknown kind %q", site.Name, site.Kind)
	}
	return nil
}

// ExportPrefix is the file prefix used when saving a group's results
func ExportPrefix(group string) string {
	switch strings.ToLower(group) {
	case GroupNews:
		return "news_headlines"
	case GroupTech:
		return "tech_news"
	default:
		return strings.ToLower(group) + "_headlines"
	}
}
