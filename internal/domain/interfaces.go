package domain

import (
	"context"

	"github.com/mmcdole/cineverse/internal/live"
)

// CatalogSource fetches the full, unpaginated movie catalog.
// Implementations may block on I/O and must honor ctx.
type CatalogSource interface {
	FetchAll(ctx context.Context) ([]Record, error)

	// Describe names the source for logs and errors (URL, path, "sample").
	Describe() string
}

// FavoritesStore is the durable set of favorite movie ids.
// It is the single writer of favorite state.
type FavoritesStore interface {
	// IDs emits the current set on subscribe and again after every change.
	IDs() live.Stream[IDSet]

	// Toggle adds id if absent, removes it otherwise. The change is
	// observable only through IDs.
	Toggle(ctx context.Context, id string) error

	Close() error
}
