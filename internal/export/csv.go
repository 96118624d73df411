// internal/export/csv.go
package export

import (
	"encoding/csv"
	"io"

	"github.com/law-makers/headlines/pkg/models"
)

// utf8BOM lets spreadsheet applications detect UTF-8 and keep non-ASCII text
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportCSV writes records (or the source's records when nil) to
// {prefix}_{timestamp}.csv. The header is the union of all record keys in
// first-seen order; null and missing values are empty cells.
func (e *Exporter) ExportCSV(prefix string, records []models.Record) (string, error) {
	records, err := e.resolve(records)
	if err != nil {
		return "", err
	}

	path := e.Path(prefix, "csv")
	f, err := e.create(path)
	if err != nil {
		return "", err
	}
	return finish(f, path, len(records), writeCSV(f, records))
}

func writeCSV(f io.Writer, records []models.Record) error {
	if _, err := f.Write(utf8BOM); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	columns := models.Columns(records)
	if err := w.Write(columns); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			v, _ := r.Get(col)
			row[i] = v
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
