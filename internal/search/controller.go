// Package search turns a live movie list and a stream of raw query text into
// a live filtered list.
package search

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/live"
)

// DefaultDebounce is the quiet period a query must hold before it filters.
const DefaultDebounce = 300 * time.Millisecond

// Controller owns the current query text. It is the only writer of the query.
type Controller struct {
	query    *live.Subject[string]
	debounce time.Duration
	matcher  Matcher
	logger   *slog.Logger
}

// NewController creates a search controller. A nil matcher selects substring
// matching and a non-positive debounce selects DefaultDebounce.
func NewController(matcher Matcher, debounce time.Duration, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if matcher == nil {
		matcher = SubstringMatcher()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		query:    live.NewSubjectWith(""),
		debounce: debounce,
		matcher:  matcher,
		logger:   logger,
	}
}

// SetQuery records text as the latest query. It never blocks and is visible
// through Query immediately.
func (c *Controller) SetQuery(text string) {
	c.query.Set(text)
}

// Query returns the latest query text, before debouncing.
func (c *Controller) Query() string {
	q, _ := c.query.Value()
	return q
}

// ObserveQuery streams raw query changes for echoing in a UI.
func (c *Controller) ObserveQuery() live.Stream[string] {
	return c.query
}

// ObserveFilteredMovies filters src by the settled query. Changes to src
// re-filter at once with the last settled query; query changes wait for the
// debounce window and a newer query discards a pending one.
func (c *Controller) ObserveFilteredMovies(src live.Stream[[]domain.Movie]) live.Stream[[]domain.Movie] {
	settled := live.Debounce[string](c.query, c.debounce)
	return live.CombineLatest(src, settled, c.filter)
}

// Filter applies the controller's matcher to movies once, without debouncing.
func (c *Controller) Filter(query string, movies []domain.Movie) []domain.Movie {
	return c.filter(movies, query)
}

// Close ends the query stream and every filtered stream derived from it.
func (c *Controller) Close() {
	c.query.Close()
}

func (c *Controller) filter(movies []domain.Movie, query string) []domain.Movie {
	q := strings.TrimSpace(query)
	if q == "" {
		return movies
	}
	start := time.Now()
	out := c.matcher.Match(q, movies)
	c.logger.Debug("filtered movies", "query", q, "in", len(movies), "out", len(out), "elapsed", time.Since(start))
	return out
}
