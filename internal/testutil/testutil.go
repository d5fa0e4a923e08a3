// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/mmcdole/cineverse/internal/domain"
)

// Timeout bounds every blocking helper.
const Timeout = 2 * time.Second

// Recv returns the next value from ch or fails the test.
func Recv[T any](t testing.TB, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(Timeout):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

// RecvUntil drains ch until match reports true and returns that value.
// Intermediate values are discarded; useful with conflating streams.
func RecvUntil[T any](t testing.TB, ch <-chan T, match func(T) bool) T {
	t.Helper()
	deadline := time.After(Timeout)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatal("channel closed")
			}
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching value")
			var zero T
			return zero
		}
	}
}

// AssertQuiet fails if ch delivers a value within d.
func AssertQuiet[T any](t testing.TB, ch <-chan T, d time.Duration) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value %v", v)
		}
	case <-time.After(d):
	}
}

// AssertClosed drains ch and fails if it is not closed within Timeout.
func AssertClosed[T any](t testing.TB, ch <-chan T) {
	t.Helper()
	deadline := time.After(Timeout)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed")
		}
	}
}

// Records returns the catalog used across tests.
func Records() []domain.Record {
	return []domain.Record{
		{
			ID:          "1",
			Title:       "The Matrix",
			PosterURL:   "https://example.com/matrix.jpg",
			BackdropURL: "https://example.com/matrix_backdrop.jpg",
			Rating:      8.7,
			ReleaseDate: "1999-03-31",
			Duration:    "2h 16m",
			Synopsis:    "A computer hacker learns about the true nature of reality.",
			Director:    "The Wachowskis",
			Cast:        []string{"Keanu Reeves", "Laurence Fishburne"},
			Genres:      []string{"Sci-Fi", "Action"},
		},
		{
			ID:          "2",
			Title:       "Inception",
			PosterURL:   "https://example.com/inception.jpg",
			BackdropURL: "https://example.com/inception_backdrop.jpg",
			Rating:      8.8,
			ReleaseDate: "2010-07-16",
			Duration:    "2h 28m",
			Synopsis:    "A thief who steals corporate secrets through dream-sharing.",
			Director:    "Christopher Nolan",
			Cast:        []string{"Leonardo DiCaprio", "Ellen Page"},
			Genres:      []string{"Sci-Fi", "Thriller"},
		},
		{
			ID:          "3",
			Title:       "Interstellar",
			PosterURL:   "https://example.com/interstellar.jpg",
			BackdropURL: "https://example.com/interstellar_backdrop.jpg",
			Rating:      8.6,
			ReleaseDate: "2014-11-07",
			Duration:    "2h 49m",
			Synopsis:    "A team of explorers travel through a wormhole in space.",
			Director:    "Christopher Nolan",
			Cast:        []string{"Matthew McConaughey", "Anne Hathaway"},
			Genres:      []string{"Sci-Fi", "Drama"},
		},
	}
}

// Numbered returns n minimal movies with ids "m00".."m{n-1}".
func Numbered(n int) []domain.Movie {
	movies := make([]domain.Movie, n)
	for i := range movies {
		movies[i] = domain.Movie{Record: domain.Record{
			ID:    fmt.Sprintf("m%02d", i),
			Title: fmt.Sprintf("Movie %02d", i),
		}}
	}
	return movies
}

// IDs returns the ids of movies in order.
func IDs(movies []domain.Movie) []string {
	ids := make([]string, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}
