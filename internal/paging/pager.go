// Package paging windows a live movie list into fixed-size pages.
package paging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/live"
)

// Paging defaults
const (
	// DefaultPageSize is the number of movies per page.
	DefaultPageSize = 10

	// DefaultPrefetchDistance is how many items before the end of the loaded
	// window the next page is appended.
	DefaultPrefetchDistance = 3

	// InitialKey is the key of the first page.
	InitialKey = 0
)

// ErrInvalidKey is returned by Load for negative page keys.
var ErrInvalidKey = errors.New("page key must not be negative")

// Config controls page size and how early the next page is appended.
type Config struct {
	PageSize         int
	PrefetchDistance int
}

// Page is one window of a list. PrevKey and NextKey are nil at the edges.
type Page struct {
	Key     int
	Items   []domain.Movie
	PrevKey *int
	NextKey *int
}

// Pager slices whatever its source stream currently holds. It keeps no
// state of its own about the items.
type Pager struct {
	source live.Stream[[]domain.Movie]
	cfg    Config
	logger *slog.Logger
}

// NewPager creates a pager over source. Zero config fields take defaults.
func NewPager(source live.Stream[[]domain.Movie], cfg Config, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PrefetchDistance < 0 {
		cfg.PrefetchDistance = DefaultPrefetchDistance
	}
	return &Pager{source: source, cfg: cfg, logger: logger}
}

// PageSize returns the effective page size after defaults are applied.
func (p *Pager) PageSize() int { return p.cfg.PageSize }

// Slice returns page key of list: items [key*size, min((key+1)*size, len)).
// A key past the end yields an empty page. Items has no spare capacity, so
// appending to it never writes into list.
func (p *Pager) Slice(key int, list []domain.Movie) Page {
	page := Page{Key: key}
	if key < 0 {
		return page
	}
	if key > 0 {
		page.PrevKey = intPtr(key - 1)
	}

	start := key * p.cfg.PageSize
	if start >= len(list) {
		return page
	}
	end := min(start+p.cfg.PageSize, len(list))
	page.Items = list[start:end:end]
	if end < len(list) {
		page.NextKey = intPtr(key + 1)
	}
	return page
}

// Load slices the source's current list. Failures are scoped to this page
// and returned as *domain.PageLoadError.
func (p *Pager) Load(ctx context.Context, key int) (Page, error) {
	if key < 0 {
		return Page{}, &domain.PageLoadError{Key: key, Err: ErrInvalidKey}
	}
	list, err := live.First(ctx, p.source)
	if err != nil {
		p.logger.Warn("page load failed", "key", key, "error", err)
		return Page{}, &domain.PageLoadError{Key: key, Err: err}
	}
	return p.Slice(key, list), nil
}

// State describes the pages a consumer holds and the item index it last
// looked at.
type State struct {
	Pages  []Page
	Anchor *int
}

// closestPage returns the loaded page containing the anchor position, or the
// last page when the anchor lies beyond all loaded items.
func (s State) closestPage() (Page, bool) {
	if s.Anchor == nil || len(s.Pages) == 0 {
		return Page{}, false
	}
	pos := *s.Anchor
	for _, page := range s.Pages {
		if pos < len(page.Items) {
			return page, true
		}
		pos -= len(page.Items)
	}
	return s.Pages[len(s.Pages)-1], true
}

// RefreshKey picks the page to reload after the underlying list changed:
// the page closest to the anchor, via its PrevKey+1, else its NextKey-1.
// It reports false when there is nothing to anchor on.
func RefreshKey(s State) (int, bool) {
	page, ok := s.closestPage()
	if !ok {
		return 0, false
	}
	if page.PrevKey != nil {
		return *page.PrevKey + 1, true
	}
	if page.NextKey != nil {
		return *page.NextKey - 1, true
	}
	return 0, false
}

func intPtr(v int) *int { return &v }
