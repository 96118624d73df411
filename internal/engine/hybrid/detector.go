// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// frameworkMarkers are selectors that only appear on client-rendered pages
var frameworkMarkers = []struct {
	name     string
	selector string
}{
	{"Next.js", "script#__NEXT_DATA__"},
	{"Nuxt", "script#__NUXT_DATA__, div#__nuxt"},
	{"React", "[data-reactroot], div#root:empty"},
	{"Vue", "[data-v-app], div#app:empty"},
	{"Angular", "[ng-app], [ng-version], app-root"},
	{"Svelte", "[data-svelte-h]"},
}

// DetectFramework returns the name of the client-side framework the page is
// built with, or "Unknown".
func DetectFramework(doc *goquery.Document) string {
	if doc == nil {
		return "Unknown"
	}
	for _, m := range frameworkMarkers {
		if doc.Find(m.selector).Length() > 0 {
			return m.name
		}
	}
	return "Unknown"
}

// NeedsJavaScript determines if a page likely needs JS rendering before its
// headlines show up.
func NeedsJavaScript(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}

	if DetectFramework(doc) != "Unknown" {
		return true
	}

	scripts := doc.Find("script").Length()
	if scripts > 5 {
		return true
	}

	// Almost no markup but some scripts is the usual SPA shell
	text := strings.TrimSpace(doc.Find("body").Text())
	return scripts > 0 && doc.Find("body div").Length() < 3 && len(text) < 200
}
