package search

import (
	"fmt"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/cineverse/internal/config"
	"github.com/mmcdole/cineverse/internal/domain"
)

// Matcher selects the movies matching a non-blank, trimmed query.
type Matcher interface {
	Match(query string, movies []domain.Movie) []domain.Movie
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(query string, movies []domain.Movie) []domain.Movie

func (f MatcherFunc) Match(query string, movies []domain.Movie) []domain.Movie {
	return f(query, movies)
}

// NewMatcher returns the matcher for a search mode. Empty selects substring.
func NewMatcher(mode string) (Matcher, error) {
	switch mode {
	case "", config.SearchSubstring:
		return SubstringMatcher(), nil
	case config.SearchSubsequence:
		return SubsequenceMatcher(), nil
	case config.SearchRanked:
		return RankedMatcher(), nil
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
}

// SubstringMatcher keeps movies whose title contains the query, ignoring case.
// Order is preserved.
func SubstringMatcher() Matcher {
	return MatcherFunc(func(query string, movies []domain.Movie) []domain.Movie {
		q := strings.ToLower(query)
		return keep(movies, func(m domain.Movie) bool {
			return strings.Contains(strings.ToLower(m.Title), q)
		})
	})
}

// SubsequenceMatcher keeps movies whose title contains the query characters in
// order ("mtrx" matches "The Matrix"). Case and diacritics are ignored and
// order is preserved.
func SubsequenceMatcher() Matcher {
	return MatcherFunc(func(query string, movies []domain.Movie) []domain.Movie {
		return keep(movies, func(m domain.Movie) bool {
			return lfuzzy.MatchNormalizedFold(query, m.Title)
		})
	})
}

// RankedMatcher orders matching movies by fuzzy match score, best first.
func RankedMatcher() Matcher {
	return MatcherFunc(func(query string, movies []domain.Movie) []domain.Movie {
		idx := newTitleIndex(movies)
		matches := fuzzy.FindFrom(strings.ToLower(query), idx)

		out := make([]domain.Movie, len(matches))
		for i, match := range matches {
			out[i] = movies[match.Index]
		}
		return out
	})
}

// titleIndex implements sahilm/fuzzy.Source over precomputed lowercase titles.
type titleIndex struct {
	lowerTitles []string
}

func newTitleIndex(movies []domain.Movie) *titleIndex {
	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = strings.ToLower(m.Title)
	}
	return &titleIndex{lowerTitles: titles}
}

func (idx *titleIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx *titleIndex) Len() int            { return len(idx.lowerTitles) }

func keep(movies []domain.Movie, pred func(domain.Movie) bool) []domain.Movie {
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}
