package library

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cineverse/internal/catalog"
	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/logging"
	"github.com/mmcdole/cineverse/internal/testutil"
)

func TestFetchMovies_WrongShapedResponseKeepsCache(t *testing.T) {
	responses := []string{
		`[{"id": "1", "title": "The Matrix"}, {"id": "2", "title": "Inception"}]`,
		`{"error": "rate limited"}`,
		`null`,
	}
	var served atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(served.Add(1)) - 1
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responses[min(n, len(responses)-1)]))
	}))
	defer srv.Close()

	src := catalog.NewHTTPSource(srv.URL, time.Second, logging.NullLogger())
	repo := NewRepository(src, newFakeFavorites(true), KeepLast, logging.NullLogger())
	t.Cleanup(repo.Close)

	require.NoError(t, repo.FetchMovies(t.Context()))

	for range responses[1:] {
		err := repo.FetchMovies(t.Context())
		var fetchErr *domain.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, srv.URL, fetchErr.Source)
		assert.ErrorIs(t, err, domain.ErrCatalogMalformed)

		records, _, ok := repo.Cached()
		require.True(t, ok)
		assert.Len(t, records, 2)
	}

	movies := testutil.Recv(t, repo.ObserveMovies().Subscribe(t.Context()))
	require.Len(t, movies, 2)
	assert.Equal(t, "The Matrix", movies[0].Title)
	assert.Equal(t, int32(3), served.Load())
}

func TestFetchMovies_LogsFailureOnce(t *testing.T) {
	var buf bytes.Buffer
	src := &fakeSource{}
	src.set(nil, domain.ErrCatalogUnavailable)
	repo := NewRepository(src, newFakeFavorites(true), KeepLast, logging.New(&buf, "DEBUG"))
	t.Cleanup(repo.Close)

	require.Error(t, repo.FetchMovies(t.Context()))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"level":"ERROR"`)))
}
