// internal/extract/selector.go
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// XPathPrefix marks a selector as an XPath expression instead of CSS
const XPathPrefix = "xpath:"

// attributeSuffixes are selector endings that ask for an attribute value
// instead of element text.
var attributeSuffixes = []string{"href", "src"}

// Validate reports whether selector compiles, either as CSS or as XPath
func Validate(selector string) error {
	if strings.TrimSpace(selector) == "" {
		return fmt.Errorf("empty selector")
	}
	if expr, ok := strings.CutPrefix(selector, XPathPrefix); ok {
		if _, err := htmlquery.QueryAll(&html.Node{Type: html.DocumentNode}, expr); err != nil {
			return fmt.Errorf("invalid xpath %q: %w", expr, err)
		}
		return nil
	}
	if _, err := cascadia.ParseGroup(selector); err != nil {
		return fmt.Errorf("invalid css selector %q: %w", selector, err)
	}
	return nil
}

// Select returns the descendants of root matched by selector, in document
// order. Selectors prefixed with "xpath:" are evaluated with htmlquery against
// each node of root.
func Select(root *goquery.Selection, selector string) (*goquery.Selection, error) {
	expr, isXPath := strings.CutPrefix(selector, XPathPrefix)
	if !isXPath {
		if err := Validate(selector); err != nil {
			return root.Slice(0, 0), err
		}
		return root.Find(selector), nil
	}

	var nodes []*html.Node
	for _, n := range root.Nodes {
		found, err := htmlquery.QueryAll(n, expr)
		if err != nil {
			return root.Slice(0, 0), fmt.Errorf("invalid xpath %q: %w", expr, err)
		}
		nodes = append(nodes, found...)
	}
	return root.Slice(0, 0).AddNodes(nodes...), nil
}

// attributeFor returns the attribute a selector asks for ("href" for
// "a[href]"), or "" when the selector wants element text.
func attributeFor(selector string) string {
	for _, attr := range attributeSuffixes {
		if strings.HasSuffix(selector, "["+attr+"]") {
			return attr
		}
	}
	return ""
}

// text returns the text content of the first node in sel, trimmed
func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}
