package library

import (
	"fmt"
	"strings"

	"github.com/mmcdole/cineverse/internal/domain"
)

// DuplicatePolicy decides which record wins when the catalog repeats an id.
type DuplicatePolicy string

const (
	// KeepFirst keeps the first record seen for an id and drops later ones.
	KeepFirst DuplicatePolicy = "first"

	// KeepLast takes the fields of the last record seen for an id but keeps
	// the position of the first occurrence.
	KeepLast DuplicatePolicy = "last"
)

// ParseDuplicatePolicy accepts "first" or "last" (case-insensitive).
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case KeepFirst:
		return KeepFirst, nil
	case KeepLast, "":
		return KeepLast, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// dedupe returns a new slice with exactly one record per id, and the number
// of records dropped.
func dedupe(records []domain.Record, policy DuplicatePolicy) ([]domain.Record, int) {
	out := make([]domain.Record, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		if i, ok := index[rec.ID]; ok {
			if policy == KeepLast {
				out[i] = rec
			}
			continue
		}
		index[rec.ID] = len(out)
		out = append(out, rec)
	}
	return out, len(records) - len(out)
}

// annotate builds fresh movies from the raw cache and the favorite set.
func annotate(records []domain.Record, ids domain.IDSet) []domain.Movie {
	movies := make([]domain.Movie, len(records))
	for i, rec := range records {
		movies[i] = domain.Movie{Record: rec.Clone(), IsFavorite: ids.Has(rec.ID)}
	}
	return movies
}

func onlyFavorites(movies []domain.Movie) []domain.Movie {
	favs := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if m.IsFavorite {
			favs = append(favs, m)
		}
	}
	return favs
}

func find(movies []domain.Movie, id string) *domain.Movie {
	for i := range movies {
		if movies[i].ID == id {
			m := movies[i]
			return &m
		}
	}
	return nil
}
