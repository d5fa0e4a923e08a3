package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cineverse/internal/config"
	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/logging"
)

const arrayDoc = `[
  {"id": "1", "title": "The Matrix", "rating": 8.7, "releaseDate": "1999-03-31"},
  {"id": "2", "title": "Inception", "rating": 8.8}
]`

const envelopeDoc = `{"movies": [
  {"id": "3", "title": "Interstellar", "cast": ["Matthew McConaughey"]},
  {"id": "", "title": "No id"},
  {"id": "4", "title": "  "}
]}`

func TestDecode(t *testing.T) {
	logger := logging.NullLogger()

	t.Run("array", func(t *testing.T) {
		recs, err := decode([]byte(arrayDoc), logger)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "The Matrix", recs[0].Title)
		assert.Equal(t, 1999, recs[0].Year())
		assert.InDelta(t, 8.8, recs[1].Rating, 0.001)
	})

	t.Run("envelope drops invalid records", func(t *testing.T) {
		recs, err := decode([]byte(envelopeDoc), logger)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "3", recs[0].ID)
		assert.Equal(t, []string{"Matthew McConaughey"}, recs[0].Cast)
	})

	t.Run("empty catalog", func(t *testing.T) {
		for _, doc := range []string{`[]`, `{"movies": []}`} {
			recs, err := decode([]byte(doc), logger)
			require.NoError(t, err, "doc %q", doc)
			assert.Empty(t, recs, "doc %q", doc)
		}
	})

	t.Run("wrong shape", func(t *testing.T) {
		docs := []string{
			`null`,
			`{}`,
			`{"error": "rate limited"}`,
			`{"movies": null}`,
			`"movies"`,
			`42`,
		}
		for _, doc := range docs {
			recs, err := decode([]byte(doc), logger)
			assert.ErrorIs(t, err, domain.ErrCatalogMalformed, "doc %q", doc)
			assert.Nil(t, recs, "doc %q", doc)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, doc := range []string{"", "   ", "{", "[1, 2", `{"movies": 5}`} {
			_, err := decode([]byte(doc), logger)
			assert.ErrorIs(t, err, domain.ErrCatalogMalformed, "doc %q", doc)
		}
	})
}

func TestHTTPSource(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(arrayDoc))
		}))
		defer srv.Close()

		src := NewHTTPSource(srv.URL, time.Second, logging.NullLogger())
		assert.Equal(t, srv.URL, src.Describe())

		recs, err := src.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewHTTPSource(srv.URL, time.Second, logging.NullLogger()).FetchAll(context.Background())
		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		_, err := NewHTTPSource(srv.URL, time.Second, logging.NullLogger()).FetchAll(context.Background())
		assert.ErrorIs(t, err, domain.ErrCatalogMalformed)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTPSource(url, time.Second, logging.NullLogger()).FetchAll(context.Background())
		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	})

	t.Run("cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewHTTPSource(srv.URL, time.Second, logging.NullLogger()).FetchAll(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(envelopeDoc), 0o644))

	src := NewFileSource(path, logging.NullLogger())
	recs, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.json"), nil).FetchAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestSampleSource(t *testing.T) {
	recs, err := NewSampleSource(logging.NullLogger()).FetchAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	seen := make(map[string]bool)
	for _, r := range recs {
		assert.NoError(t, r.Validate())
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
	assert.Equal(t, "The Matrix", recs[0].Title)
}

func TestNewSource(t *testing.T) {
	logger := logging.NullLogger()

	src, err := NewSource(&config.CatalogConfig{URL: "http://example.invalid", File: "x.json"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = NewSource(&config.CatalogConfig{File: "x.json"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = NewSource(&config.CatalogConfig{}, logger)
	require.NoError(t, err)
	assert.Equal(t, "sample", src.Describe())

	_, err = NewSource(nil, logger)
	assert.Error(t, err)
}
