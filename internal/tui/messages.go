package tui

import (
	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/paging"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SnapshotMsg carries a new window from a tab's feed.
type SnapshotMsg struct {
	Tab      Tab
	Snapshot paging.Snapshot
}

// FeedClosedMsg signals that a tab's feed stopped.
type FeedClosedMsg struct {
	Tab Tab
}

// FetchDoneMsg signals the end of a catalog fetch.
type FetchDoneMsg struct {
	Count int
	Err   error
}

// FavoriteToggledMsg signals a finished favorite toggle.
type FavoriteToggledMsg struct {
	ID    string
	Title string
	Err   error
}

// MovieDetailMsg carries the latest value of an observed movie. Seq
// identifies the details session it belongs to.
type MovieDetailMsg struct {
	Seq   int
	Movie *domain.Movie
}

// ClearStatusMsg clears the status line if it still shows Seq.
type ClearStatusMsg struct {
	Seq int
}

// TickMsg drives the spinner
type TickMsg struct{}
