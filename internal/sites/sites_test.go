package sites

import (
	"testing"

	"github.com/law-makers/headlines/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	g := Defaults()
	require.NoError(t, g.Validate())
	assert.Equal(t, []string{"demo", "news", "tech"}, g.Names())

	news, err := g.Get("NEWS")
	require.NoError(t, err)
	require.Len(t, news, 4)
	assert.Equal(t, "Hacker News", news[0].Name)
	assert.Equal(t, "BBC News", news[1].Name)

	first, err := g.First("tech", 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "https://news.ycombinator.com/", first[0].URL)
}

func TestDefaults_ReturnsCopy(t *testing.T) {
	g := Defaults()
	g["news"][0].Name = "changed"
	assert.Equal(t, "Hacker News", Defaults()["news"][0].Name)
}

func TestMerge(t *testing.T) {
	g := Defaults().Merge(map[string][]models.SiteSpec{
		"Tech":  {{Name: "Lobsters", URL: "https://lobste.rs/", Selector: ".u-url"}},
		"feeds": {{Name: "Go Blog", URL: "https://go.dev/blog/feed.atom", Kind: models.KindFeed}},
	})
	require.NoError(t, g.Validate())

	tech, _ := g.Get("tech")
	require.Len(t, tech, 1)
	assert.Equal(t, "Lobsters", tech[0].Name)

	_, err := g.Get("feeds")
	assert.NoError(t, err)
	news, _ := g.Get("news")
	assert.Len(t, news, 4)
}

func TestGet_Unknown(t *testing.T) {
	_, err := Defaults().Get("sports")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo, news, tech")
}

func TestValidateSite(t *testing.T) {
	tests := []struct {
		name string
		site models.SiteSpec
		ok   bool
	}{
		{"valid", models.SiteSpec{Name: "A", URL: "https://a.com", Selector: "h1"}, true},
		{"feed without selector", models.SiteSpec{Name: "F", URL: "https://a.com/rss", Kind: models.KindFeed}, true},
		{"missing name", models.SiteSpec{URL: "https://a.com", Selector: "h1"}, false},
		{"bad url", models.SiteSpec{Name: "A", URL: "a.com", Selector: "h1"}, false},
		{"missing selector", models.SiteSpec{Name: "A", URL: "https://a.com"}, false},
		{"bad selector", models.SiteSpec{Name: "A", URL: "https://a.com", Selector: "h1[["}, false},
		{"unknown kind", models.SiteSpec{Name: "A", URL: "https://a.com", Selector: "h1", Kind: "json"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSite(tt.site)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExportPrefix(t *testing.T) {
	assert.Equal(t, "news_headlines", ExportPrefix("news"))
	assert.Equal(t, "tech_news", ExportPrefix("Tech"))
	assert.Equal(t, "demo_headlines", ExportPrefix("demo"))
}
