// internal/export/markdown.go
package export

import (
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/law-makers/headlines/internal/collection"
	"github.com/law-makers/headlines/pkg/models"
)

// ExportMarkdown writes records as a GitHub-flavored Markdown table. Records
// are first rendered to an HTML table and then converted.
func (e *Exporter) ExportMarkdown(prefix string, records []models.Record) (string, error) {
	records, err := e.resolve(records)
	if err != nil {
		return "", err
	}

	content, err := ToMarkdown(records)
	if err != nil {
		return "", err
	}

	path := e.Path(prefix, "md")
	f, err := e.create(path)
	if err != nil {
		return "", err
	}
	_, werr := f.WriteString(content + "\n")
	return finish(f, path, len(records), werr)
}

// ToMarkdown renders records as a Markdown document with one table
func ToMarkdown(records []models.Record) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	doc, err := converter.ConvertString(toHTML(records))
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	return doc, nil
}

// toHTML builds an HTML table of records; link cells become anchors
func toHTML(records []models.Record) string {
	columns := models.Columns(records)
	summary := collection.Summarize(records)

	var b strings.Builder
	b.WriteString("<h1>Headlines</h1>")
	fmt.Fprintf(&b, "<p>%d items from %d sources</p>", summary.Total, len(summary.Sources))
	b.WriteString("<table><thead><tr>")
	for _, col := range columns {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(col))
	}
	b.WriteString("</tr></thead><tbody>")
	for _, r := range records {
		b.WriteString("<tr>")
		for _, col := range columns {
			v, _ := r.Get(col)
			if col == models.FieldLink && v != "" {
				fmt.Fprintf(&b, `<td><a href="%s">%s</a></td>`, html.EscapeString(v), html.EscapeString(v))
				continue
			}
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(strings.ReplaceAll(v, "|", "/")))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
