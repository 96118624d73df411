// internal/export/exporter.go
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/law-makers/headlines/internal/engine"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/rs/zerolog/log"
)

// FilenameLayout is the timestamp layout appended to export prefixes
const FilenameLayout = "20060102_150405"

// Source supplies the records exported when the caller passes none
type Source interface {
	Records() []models.Record
}

// Exporter writes record sets to files under a directory. Filenames are
// {prefix}_{YYYYMMDD_HHMMSS}.{ext}, stamped from the Exporter's clock.
type Exporter struct {
	dir    string
	source Source
	now    func() time.Time
}

// New creates an Exporter writing into dir ("" means the working directory).
// source may be nil, in which case every export must pass records explicitly.
func New(dir string, source Source) *Exporter {
	return &Exporter{dir: dir, source: source, now: time.Now}
}

// WithClock replaces the clock used to stamp filenames
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// Dir returns the output directory
func (e *Exporter) Dir() string {
	return e.dir
}

// Path returns the file path an export with prefix and ext would use right now
func (e *Exporter) Path(prefix, ext string) string {
	if prefix == "" {
		prefix = "scraped_data"
	}
	name := fmt.Sprintf("%s_%s.%s", prefix, e.now().Format(FilenameLayout), strings.TrimPrefix(ext, "."))
	return filepath.Join(e.dir, name)
}

// resolve picks the explicit records or falls back to the source. An empty
// result is an ExportError and nothing is written.
func (e *Exporter) resolve(records []models.Record) ([]models.Record, error) {
	if records == nil && e.source != nil {
		records = e.source.Records()
	}
	if len(records) == 0 {
		return nil, engine.NewExportError("", engine.ErrNoData)
	}
	return records, nil
}

// create opens path for writing, creating the output directory if needed
func (e *Exporter) create(path string) (*os.File, error) {
	if e.dir != "" {
		if err := os.MkdirAll(e.dir, 0755); err != nil {
			return nil, engine.NewExportError(path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, engine.NewExportError(path, err)
	}
	return f, nil
}

// finish closes f and removes the partial file when writing failed
func finish(f *os.File, path string, count int, writeErr error) (string, error) {
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(path)
		return "", engine.NewExportError(path, writeErr)
	}
	log.Info().Str("path", path).Int("records", count).Msg("Export written")
	return path, nil
}
