// internal/extract/generic.go
package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/headlines/internal/engine"
	urlutil "github.com/law-makers/headlines/internal/utils/url"
	"github.com/law-makers/headlines/pkg/models"
)

// ErrNoFields is returned when a GenericSpec carries no field selectors
var ErrNoFields = errors.New("at least one field selector is required")

// ErrReservedField is returned for a field named like a column every record
// already carries
var ErrReservedField = errors.New("field name is reserved")

// CheckFieldName rejects names that would collide with source or scraped_at
func CheckFieldName(name string) error {
	if models.IsReserved(name) {
		return fmt.Errorf("%w: %q is set on every record", ErrReservedField, name)
	}
	return nil
}

// Generic extracts one record per element matched by the first field's
// selector. The first field takes that element's text; every other field is
// looked up inside the element's subtree, and a miss yields a null value.
// Fields after the first whose selector ends in [href] or [src] take that attribute, resolved
// against spec.URL.
func Generic(doc *goquery.Document, spec models.GenericSpec, now time.Time) ([]models.Record, error) {
	if len(spec.Fields) == 0 {
		return nil, ErrNoFields
	}
	for _, f := range spec.Fields {
		if err := CheckFieldName(f.Name); err != nil {
			return nil, err
		}
	}

	source := spec.Name
	if source == "" {
		source = urlutil.Host(spec.URL)
	}

	rows, err := Select(doc.Selection, spec.Fields[0].Selector)
	if err != nil {
		return nil, engine.NewParseError(spec.URL, err)
	}
	for _, f := range spec.Fields[1:] {
		if err := Validate(f.Selector); err != nil {
			return nil, engine.NewParseError(spec.URL, err)
		}
	}

	records := make([]models.Record, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		fields := make([]models.Field, 0, len(spec.Fields))
		fields = append(fields, models.Field{
			Name:  spec.Fields[0].Name,
			Value: models.String(text(row)),
		})

		for _, f := range spec.Fields[1:] {
			var value *string
			if sub, _ := Select(row, f.Selector); sub.Length() > 0 {
				value = fieldValue(sub.First(), f.Selector, spec.URL)
			}
			fields = append(fields, models.Field{Name: f.Name, Value: value})
		}

		records = append(records, models.Record{
			Fields:    fields,
			Source:    source,
			ScrapedAt: now,
		})
	})

	return records, nil
}

// fieldValue reads either the requested attribute or the text of s
func fieldValue(s *goquery.Selection, selector, base string) *string {
	attr := attributeFor(selector)
	if attr == "" {
		return models.String(text(s))
	}
	v, ok := s.Attr(attr)
	if !ok {
		return nil
	}
	return models.String(urlutil.ResolveURL(base, v))
}
