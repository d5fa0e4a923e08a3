package domain

import (
	"errors"
	"fmt"

	"github.com/mmcdole/cineverse/internal/live"
)

// Sentinel errors for domain operations
var (
	// ErrCatalogUnavailable indicates the catalog could not be reached
	ErrCatalogUnavailable = errors.New("catalog is unavailable")

	// ErrCatalogMalformed indicates the catalog response could not be decoded
	ErrCatalogMalformed = errors.New("catalog response is malformed")

	// ErrStreamClosed indicates a live stream ended before producing a value
	ErrStreamClosed = live.ErrClosed

	// ErrStoreClosed indicates an operation on a closed favorites store
	ErrStoreClosed = errors.New("favorites store is closed")

	ErrRecordNoID    = errors.New("record has no id")
	ErrRecordNoTitle = errors.New("record has no title")
)

// FetchError reports a failed catalog fetch. The previous cache is left intact.
type FetchError struct {
	Source string // Catalog source description (URL, file path, "sample")
	Err    error
}

func (e *FetchError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("fetch movies: %v", e.Err)
	}
	return fmt.Sprintf("fetch movies from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PageLoadError reports a failure scoped to a single page load.
type PageLoadError struct {
	Key int
	Err error
}

func (e *PageLoadError) Error() string {
	return fmt.Sprintf("load page %d: %v", e.Key, e.Err)
}

func (e *PageLoadError) Unwrap() error { return e.Err }
