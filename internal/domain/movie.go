package domain

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Record is a raw catalog entry as delivered by a CatalogSource.
// It carries no user state.
type Record struct {
	ID          string   `json:"id"`          // Stable unique identifier
	Title       string   `json:"title"`       // Display title
	PosterURL   string   `json:"posterUrl"`   // Poster image URL
	BackdropURL string   `json:"backdropUrl"` // Background art URL
	Rating      float64  `json:"rating"`      // 0-10 scale
	ReleaseDate string   `json:"releaseDate"` // ISO date (YYYY-MM-DD)
	Duration    string   `json:"duration"`    // Human readable runtime, e.g. "2h 16m"
	Synopsis    string   `json:"synopsis"`    // Plot summary
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
	Genres      []string `json:"genres"`
}

// Validate reports whether the record can be shown at all.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrRecordNoID
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrRecordNoTitle
	}
	return nil
}

// Year returns the release year, or 0 if the release date is missing or malformed.
func (r Record) Year() int {
	if len(r.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(r.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	r.Cast = slices.Clone(r.Cast)
	r.Genres = slices.Clone(r.Genres)
	return r
}

// Movie is a catalog record annotated with the user's favorite status.
// IsFavorite is derived on every merge and never persisted with the record.
type Movie struct {
	Record
	IsFavorite bool
}

// Clone returns a deep copy of the movie.
func (m Movie) Clone() Movie {
	m.Record = m.Record.Clone()
	return m
}

// Equal compares two movies field by field.
func (m Movie) Equal(o Movie) bool {
	return m.ID == o.ID &&
		m.Title == o.Title &&
		m.PosterURL == o.PosterURL &&
		m.BackdropURL == o.BackdropURL &&
		m.Rating == o.Rating &&
		m.ReleaseDate == o.ReleaseDate &&
		m.Duration == o.Duration &&
		m.Synopsis == o.Synopsis &&
		m.Director == o.Director &&
		slices.Equal(m.Cast, o.Cast) &&
		slices.Equal(m.Genres, o.Genres) &&
		m.IsFavorite == o.IsFavorite
}

// IDSet is a set of movie identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has is safe on a nil set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int { return len(s) }

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
