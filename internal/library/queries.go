package library

import (
	"time"

	"github.com/mmcdole/cineverse/internal/domain"
)

// Cached returns the raw catalog from the last successful fetch without
// blocking. ok is false if no fetch has succeeded yet.
func (r *Repository) Cached() (records []domain.Record, fetchedAt time.Time, ok bool) {
	c, _ := r.cache.Value()
	if !c.fetched {
		return nil, time.Time{}, false
	}
	records = make([]domain.Record, len(c.records))
	for i, rec := range c.records {
		records[i] = rec.Clone()
	}
	return records, c.fetchedAt, true
}

// CachedCount returns the number of cached movies.
func (r *Repository) CachedCount() int {
	c, _ := r.cache.Value()
	return len(c.records)
}
