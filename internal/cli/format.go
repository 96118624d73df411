// internal/cli/format.go
package cli

import (
	"io"
	"sort"
	"strconv"

	"github.com/law-makers/headlines/internal/ui"
	"github.com/law-makers/headlines/pkg/models"
)

// sortByCount orders names by descending count, then by name
func sortByCount(names []string, counts map[string]int) {
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
}

// printRecords prints records as a table with one column per key
func printRecords(w io.Writer, records []models.Record) error {
	columns := models.Columns(records)
	header := append([]string{"#"}, columns...)

	rows := make([][]string, len(records))
	for i, r := range records {
		row := []string{strconv.Itoa(i + 1)}
		for _, col := range columns {
			v, _ := r.Get(col)
			row = append(row, v)
		}
		rows[i] = row
	}
	return ui.Table(w, header, rows, 60)
}
