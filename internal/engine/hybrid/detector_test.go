package hybrid

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestNeedsJavaScript(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "static article list",
			html: `<html><body><div><div><div><h2><a href="/a">Headline</a></h2></div></div></div></body></html>`,
			want: false,
		},
		{
			name: "react shell",
			html: `<html><body><div id="root"></div><script src="/bundle.js"></script></body></html>`,
			want: true,
		},
		{
			name: "next.js data",
			html: `<html><body><main>Lots of text</main><script id="__NEXT_DATA__" type="application/json">{}</script></body></html>`,
			want: true,
		},
		{
			name: "script heavy",
			html: `<html><body>` + strings.Repeat(`<script></script>`, 6) + `</body></html>`,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsJavaScript(mustDoc(t, tt.html)); got != tt.want {
				t.Errorf("NeedsJavaScript() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFramework(t *testing.T) {
	doc := mustDoc(t, `<html><body><app-root ng-version="17.0.0"></app-root></body></html>`)
	if got := DetectFramework(doc); got != "Angular" {
		t.Errorf("Expected Angular, got %s", got)
	}
	if got := DetectFramework(nil); got != "Unknown" {
		t.Errorf("Expected Unknown for nil doc, got %s", got)
	}
}
