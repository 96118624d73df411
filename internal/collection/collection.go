// internal/collection/collection.go
package collection

import (
	"sync"

	"github.com/law-makers/headlines/pkg/models"
)

// Collection is the in-memory, append-only store of everything scraped during
// a session. It is safe for concurrent use.
type Collection struct {
	mu      sync.RWMutex
	records []models.Record
}

// New returns an empty Collection
func New() *Collection {
	return &Collection{}
}

// AddAll appends records in order. Duplicates are kept.
func (c *Collection) AddAll(records []models.Record) {
	if len(records) == 0 {
		return
	}
	c.mu.Lock()
	c.records = append(c.records, records...)
	c.mu.Unlock()
}

// Clear empties the collection. Clearing an empty collection is a no-op.
func (c *Collection) Clear() {
	c.mu.Lock()
	c.records = nil
	c.mu.Unlock()
}

// Len returns the number of records held
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Records returns a snapshot copy of the held records
func (c *Collection) Records() []models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Summarize computes totals, per-source counts, the newest scraped_at and the
// column union over the current contents.
func (c *Collection) Summarize() models.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Summarize(c.records)
}

// Summarize computes a Summary over an arbitrary record slice
func Summarize(records []models.Record) models.Summary {
	s := models.Summary{
		Total:   len(records),
		Sources: make(map[string]int),
	}
	for i := range records {
		r := &records[i]
		if r.Source != "" {
			s.Sources[r.Source]++
		}
		if s.Latest == nil || r.ScrapedAt.After(*s.Latest) {
			ts := r.ScrapedAt
			s.Latest = &ts
		}
	}
	s.Columns = models.Columns(records)
	return s
}
