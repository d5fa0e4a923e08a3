package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/library"
	"github.com/mmcdole/cineverse/internal/paging"
)

// Command factories for async operations

const fetchTimeout = 60 * time.Second

// FetchMoviesCmd loads the catalog. refresh marks a user-initiated reload.
func FetchMoviesCmd(repo *library.Repository, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		fetch := repo.FetchMovies
		if refresh {
			fetch = repo.Refresh
		}
		if err := fetch(ctx); err != nil {
			return FetchDoneMsg{Err: err}
		}
		return FetchDoneMsg{Count: repo.CachedCount()}
	}
}

// ToggleFavoriteCmd flips the favorite flag of a movie.
func ToggleFavoriteCmd(repo *library.Repository, movie domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := repo.ToggleFavorite(ctx, movie.ID)
		return FavoriteToggledMsg{ID: movie.ID, Title: movie.Title, Err: err}
	}
}

// listenSnapshotsCmd waits for the next snapshot of a tab's feed. The
// handler re-issues it after every message, pumping the channel into the
// program one value at a time.
func listenSnapshotsCmd(tab Tab, ch <-chan paging.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return FeedClosedMsg{Tab: tab}
		}
		return SnapshotMsg{Tab: tab, Snapshot: snap}
	}
}

// listenMovieCmd waits for the next value of a details subscription.
// It returns nil once the subscription is cancelled.
func listenMovieCmd(seq int, ch <-chan *domain.Movie) tea.Cmd {
	return func() tea.Msg {
		m, ok := <-ch
		if !ok {
			return nil
		}
		return MovieDetailMsg{Seq: seq, Movie: m}
	}
}

// TickCmd schedules the next spinner frame
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status line after delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
