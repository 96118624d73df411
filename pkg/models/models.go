package models

import "time"

// Implicit record columns present on every extracted record.
const (
	FieldSource    = "source"
	FieldScrapedAt = "scraped_at"
	FieldTitle     = "title"
	FieldLink      = "link"
)

// TimestampLayout is the ISO-8601 layout used for scraped_at values
const TimestampLayout = time.RFC3339

// SiteKind tells the pipeline how to read a site
type SiteKind string

const (
	KindHTML SiteKind = "html"
	KindFeed SiteKind = "feed"
)

// SiteSpec describes one scrape target
type SiteSpec struct {
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	URL      string   `json:"url" yaml:"url" mapstructure:"url"`
	Selector string   `json:"selector" yaml:"selector,omitempty" mapstructure:"selector"`
	Kind     SiteKind `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
}

// IsFeed reports whether the site is an RSS/Atom feed rather than an HTML page
func (s SiteSpec) IsFeed() bool {
	return s.Kind == KindFeed
}

// FieldSelector maps an output column to a selector for generic extraction
type FieldSelector struct {
	Name     string
	Selector string
}

// GenericSpec describes a generic multi-field extraction. The first field's
// selector picks the row elements; the rest are resolved inside each row.
type GenericSpec struct {
	Name   string
	URL    string
	Fields []FieldSelector
}

// Field is one named value in a Record. A nil Value means the selector
// matched nothing.
type Field struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

// Record is one extracted row with provenance
type Record struct {
	Fields    []Field   `json:"fields"`
	Source    string    `json:"source"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// IsReserved reports whether name is one of the implicit columns
func IsReserved(name string) bool {
	return name == FieldSource || name == FieldScrapedAt
}

// String returns a pointer to s, for building nullable field values
func String(s string) *string {
	return &s
}

// Get returns the value of the named column. The second result is false when
// the column is absent or null.
func (r Record) Get(name string) (string, bool) {
	switch name {
	case FieldSource:
		return r.Source, true
	case FieldScrapedAt:
		return r.Timestamp(), true
	}
	for _, f := range r.Fields {
		if f.Name == name {
			if f.Value == nil {
				return "", false
			}
			return *f.Value, true
		}
	}
	return "", false
}

// Has reports whether the record carries the named column, null or not
func (r Record) Has(name string) bool {
	if name == FieldSource || name == FieldScrapedAt {
		return true
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Keys returns the record's columns in order: extracted fields first, then
// source and scraped_at.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields)+2)
	for _, f := range r.Fields {
		keys = append(keys, f.Name)
	}
	return append(keys, FieldSource, FieldScrapedAt)
}

// Timestamp returns scraped_at formatted as ISO-8601
func (r Record) Timestamp() string {
	return r.ScrapedAt.Format(TimestampLayout)
}

// Map flattens the record into a column map; null fields map to nil
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields)+2)
	for _, f := range r.Fields {
		if f.Value == nil {
			m[f.Name] = nil
		} else {
			m[f.Name] = *f.Value
		}
	}
	m[FieldSource] = r.Source
	m[FieldScrapedAt] = r.Timestamp()
	return m
}

// Summary is a read-only view over a collection of records
type Summary struct {
	Total   int            `json:"total_items"`
	Sources map[string]int `json:"sources"`
	Latest  *time.Time     `json:"latest_scrape"`
	Columns []string       `json:"columns"`
}

// Columns returns the union of record keys in first-seen order
func Columns(records []Record) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, r := range records {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	return columns
}
