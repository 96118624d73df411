package ui

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table writes rows as an aligned text table. Widths are measured in terminal
// cells so CJK text lines up, and cells wider than maxCell are truncated
// with "…" (maxCell <= 0 disables truncation).
func Table(w io.Writer, header []string, rows [][]string, maxCell int) error {
	cols := len(header)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		s := strings.Join(strings.Fields(row[i]), " ")
		if maxCell > 0 && runewidth.StringWidth(s) > maxCell {
			s = runewidth.Truncate(s, maxCell, "…")
		}
		return s
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols; i++ {
			if n := runewidth.StringWidth(cell(row, i)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	line := func(row []string, bold bool) string {
		var sb strings.Builder
		for i := 0; i < cols; i++ {
			content := cell(row, i)
			if i == cols-1 {
				// no trailing padding on the last column
				writeCell(&sb, content, bold)
				break
			}
			writeCell(&sb, content, bold)
			sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(content)+2))
		}
		return strings.TrimRight(sb.String(), " ") + "\n"
	}

	var out strings.Builder
	if len(header) > 0 {
		out.WriteString(line(header, true))
		seps := make([]string, cols)
		for i, n := range widths {
			seps[i] = strings.Repeat("-", n)
		}
		out.WriteString(line(seps, false))
	}
	for _, row := range rows {
		out.WriteString(line(row, false))
	}

	_, err := io.WriteString(w, out.String())
	return err
}

func writeCell(sb *strings.Builder, content string, bold bool) {
	if bold {
		sb.WriteString(Bold(content))
		return
	}
	sb.WriteString(content)
}
