// internal/export/json.go
package export

import (
	"encoding/json"

	"github.com/law-makers/headlines/pkg/models"
)

// ExportJSON writes records as an indented JSON array of column objects.
// Null fields are emitted as JSON null.
func (e *Exporter) ExportJSON(prefix string, records []models.Record) (string, error) {
	records, err := e.resolve(records)
	if err != nil {
		return "", err
	}

	rows := make([]map[string]any, len(records))
	for i, r := range records {
		rows[i] = r.Map()
	}
	content, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}

	path := e.Path(prefix, "json")
	f, err := e.create(path)
	if err != nil {
		return "", err
	}
	_, werr := f.Write(append(content, '\n'))
	return finish(f, path, len(records), werr)
}
