package library

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/live"
	"github.com/mmcdole/cineverse/internal/logging"
	"github.com/mmcdole/cineverse/internal/testutil"
)

type fakeSource struct {
	mu      sync.Mutex
	records []domain.Record
	err     error
	calls   int
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeSource) Describe() string { return "fake" }

func (f *fakeSource) set(records []domain.Record, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records, f.err = records, err
}

// fakeFavorites applies toggles to its stream only when apply is set, so
// tests can check the repository never edits favorite state itself.
type fakeFavorites struct {
	ids     *live.Subject[domain.IDSet]
	apply   bool
	mu      sync.Mutex
	toggled []string
}

func newFakeFavorites(apply bool, ids ...string) *fakeFavorites {
	return &fakeFavorites{ids: live.NewSubjectWith(domain.NewIDSet(ids...)), apply: apply}
}

func (f *fakeFavorites) IDs() live.Stream[domain.IDSet] { return f.ids }

func (f *fakeFavorites) Toggle(ctx context.Context, id string) error {
	f.mu.Lock()
	f.toggled = append(f.toggled, id)
	f.mu.Unlock()
	if f.apply {
		f.ids.Update(func(cur domain.IDSet) domain.IDSet {
			next := cur.Clone()
			if next.Has(id) {
				delete(next, id)
			} else {
				next[id] = struct{}{}
			}
			return next
		})
	}
	return nil
}

func (f *fakeFavorites) Close() error { f.ids.Close(); return nil }

func newTestRepo(t *testing.T, favs *fakeFavorites) (*Repository, *fakeSource) {
	t.Helper()
	src := &fakeSource{records: testutil.Records()}
	repo := NewRepository(src, favs, KeepLast, logging.NullLogger())
	t.Cleanup(repo.Close)
	return repo, src
}

func favoriteFlags(movies []domain.Movie) map[string]bool {
	flags := make(map[string]bool, len(movies))
	for _, m := range movies {
		flags[m.ID] = m.IsFavorite
	}
	return flags
}

func TestObserveMovies_EmptyBeforeFetch(t *testing.T) {
	repo, _ := newTestRepo(t, newFakeFavorites(true))
	movies := testutil.Recv(t, repo.ObserveMovies().Subscribe(t.Context()))
	assert.Empty(t, movies)
}

func TestObserveMovies_WaitsForFavorites(t *testing.T) {
	favs := &fakeFavorites{ids: live.NewSubject[domain.IDSet]()}
	repo, _ := newTestRepo(t, favs)
	require.NoError(t, repo.FetchMovies(t.Context()))

	ch := repo.ObserveMovies().Subscribe(t.Context())
	testutil.AssertQuiet(t, ch, 50*time.Millisecond)

	favs.ids.Set(domain.NewIDSet("3"))
	movies := testutil.Recv(t, ch)
	assert.Equal(t, map[string]bool{"1": false, "2": false, "3": true}, favoriteFlags(movies))
}

func TestObserveMovies_MergeCorrectness(t *testing.T) {
	tests := []struct {
		name string
		favs []string
		want map[string]bool
	}{
		{"no favorites", nil, map[string]bool{"1": false, "2": false, "3": false}},
		{"one favorite", []string{"1"}, map[string]bool{"1": true, "2": false, "3": false}},
		{"all favorites", []string{"1", "2", "3"}, map[string]bool{"1": true, "2": true, "3": true}},
		{"unknown id ignored", []string{"2", "999"}, map[string]bool{"1": false, "2": true, "3": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestRepo(t, newFakeFavorites(true, tt.favs...))
			require.NoError(t, repo.FetchMovies(t.Context()))

			movies := testutil.RecvUntil(t, repo.ObserveMovies().Subscribe(t.Context()),
				func(m []domain.Movie) bool { return len(m) > 0 })
			assert.Equal(t, tt.want, favoriteFlags(movies))
			assert.Equal(t, []string{"1", "2", "3"}, testutil.IDs(movies))

			favorites := testutil.RecvUntil(t, repo.ObserveFavorites().Subscribe(t.Context()),
				func(m []domain.Movie) bool { return true })
			for _, m := range favorites {
				assert.True(t, tt.want[m.ID])
				assert.True(t, m.IsFavorite)
			}
			wantCount := 0
			for _, fav := range tt.want {
				if fav {
					wantCount++
				}
			}
			assert.Len(t, favorites, wantCount)
		})
	}
}

func TestToggleFavorite_IsObservedThroughStore(t *testing.T) {
	repo, _ := newTestRepo(t, newFakeFavorites(true))
	require.NoError(t, repo.FetchMovies(t.Context()))

	ch := repo.ObserveMovies().Subscribe(t.Context())
	first := testutil.Recv(t, ch)
	assert.False(t, favoriteFlags(first)["1"])

	require.NoError(t, repo.ToggleFavorite(t.Context(), "1"))
	next := testutil.Recv(t, ch)
	assert.True(t, favoriteFlags(next)["1"])
}

func TestToggleFavorite_DoesNotEditListDirectly(t *testing.T) {
	favs := newFakeFavorites(false)
	repo, src := newTestRepo(t, favs)
	require.NoError(t, repo.FetchMovies(t.Context()))

	ch := repo.ObserveMovies().Subscribe(t.Context())
	testutil.Recv(t, ch)

	require.NoError(t, repo.ToggleFavorite(t.Context(), "2"))
	testutil.AssertQuiet(t, ch, 50*time.Millisecond)
	assert.Equal(t, []string{"2"}, favs.toggled)
	assert.Equal(t, 1, src.calls, "toggle must not refetch")
}

func TestFetchMovies_Idempotent(t *testing.T) {
	repo, src := newTestRepo(t, newFakeFavorites(true, "2"))
	ch := repo.ObserveMovies().Subscribe(t.Context())
	testutil.Recv(t, ch)

	require.NoError(t, repo.FetchMovies(t.Context()))
	a := testutil.RecvUntil(t, ch, func(m []domain.Movie) bool { return len(m) == 3 })

	require.NoError(t, repo.FetchMovies(t.Context()))
	b := testutil.Recv(t, ch)

	assert.Equal(t, a, b)
	assert.Equal(t, 2, src.calls)
}

func TestFetchMovies_FailureKeepsCache(t *testing.T) {
	repo, src := newTestRepo(t, newFakeFavorites(true))
	require.NoError(t, repo.FetchMovies(t.Context()))

	cause := errors.New("connection refused")
	src.set(nil, cause)

	err := repo.FetchMovies(t.Context())
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "fake", fetchErr.Source)
	assert.ErrorIs(t, err, cause)

	movies := testutil.Recv(t, repo.ObserveMovies().Subscribe(t.Context()))
	assert.Len(t, movies, 3)

	records, _, ok := repo.Cached()
	require.True(t, ok)
	assert.Len(t, records, 3)
}

func TestFetchMovies_FailureBeforeAnyFetchStaysEmpty(t *testing.T) {
	repo, src := newTestRepo(t, newFakeFavorites(true))
	src.set(nil, domain.ErrCatalogUnavailable)

	err := repo.FetchMovies(t.Context())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	movies := testutil.Recv(t, repo.ObserveMovies().Subscribe(t.Context()))
	assert.Empty(t, movies)

	_, _, ok := repo.Cached()
	assert.False(t, ok)
}

func TestObserveMovie(t *testing.T) {
	repo, _ := newTestRepo(t, newFakeFavorites(true, "2"))
	require.NoError(t, repo.FetchMovies(t.Context()))

	t.Run("present", func(t *testing.T) {
		m := testutil.Recv(t, repo.ObserveMovie("2").Subscribe(t.Context()))
		require.NotNil(t, m)
		assert.Equal(t, "Inception", m.Title)
		assert.True(t, m.IsFavorite)
	})

	t.Run("absent", func(t *testing.T) {
		m := testutil.Recv(t, repo.ObserveMovie("missing-id").Subscribe(t.Context()))
		assert.Nil(t, m)
	})

	t.Run("unrelated toggle is suppressed", func(t *testing.T) {
		ch := repo.ObserveMovie("1").Subscribe(t.Context())
		m := testutil.Recv(t, ch)
		require.NotNil(t, m)
		assert.False(t, m.IsFavorite)

		require.NoError(t, repo.ToggleFavorite(t.Context(), "3"))
		testutil.AssertQuiet(t, ch, 50*time.Millisecond)

		require.NoError(t, repo.ToggleFavorite(t.Context(), "1"))
		m = testutil.Recv(t, ch)
		require.NotNil(t, m)
		assert.True(t, m.IsFavorite)
	})
}

func TestObserve_CancelIsolatesSubscribers(t *testing.T) {
	repo, _ := newTestRepo(t, newFakeFavorites(true))
	require.NoError(t, repo.FetchMovies(t.Context()))

	ctxA, cancelA := context.WithCancel(t.Context())
	a := repo.ObserveMovies().Subscribe(ctxA)
	b := repo.ObserveMovies().Subscribe(t.Context())
	testutil.Recv(t, a)
	testutil.Recv(t, b)

	cancelA()
	testutil.AssertClosed(t, a)

	require.NoError(t, repo.ToggleFavorite(t.Context(), "3"))
	movies := testutil.Recv(t, b)
	assert.True(t, favoriteFlags(movies)["3"])
}

func TestMoviesAreIndependentCopies(t *testing.T) {
	repo, _ := newTestRepo(t, newFakeFavorites(true))
	require.NoError(t, repo.FetchMovies(t.Context()))

	movies := testutil.Recv(t, repo.ObserveMovies().Subscribe(t.Context()))
	movies[0].Cast[0] = "someone else"

	again := testutil.Recv(t, repo.ObserveMovies().Subscribe(t.Context()))
	assert.Equal(t, "Keanu Reeves", again[0].Cast[0])
}
