package library

import (
	"context"
	"time"

	"github.com/mmcdole/cineverse/internal/domain"
)

// FetchMovies downloads the full catalog and replaces the cache.
// On failure the previous cache is kept and a *domain.FetchError is returned.
// Favorite state is not touched.
func (r *Repository) FetchMovies(ctx context.Context) error {
	r.fetchMu.Lock()
	defer r.fetchMu.Unlock()

	source := r.source.Describe()
	start := time.Now()

	records, err := r.source.FetchAll(ctx)
	if err != nil {
		r.logger.Error("failed to fetch catalog", "source", source, "error", err)
		return &domain.FetchError{Source: source, Err: err}
	}

	records, dropped := dedupe(records, r.policy)
	if dropped > 0 {
		r.logger.Warn("duplicate catalog ids", "dropped", dropped, "policy", string(r.policy))
	}

	r.cache.Set(cacheState{records: records, fetchedAt: time.Now(), fetched: true})
	r.logger.Debug("fetched catalog",
		"source", source,
		"count", len(records),
		"elapsed", time.Since(start),
	)
	return nil
}

// Refresh is FetchMovies triggered by the user.
func (r *Repository) Refresh(ctx context.Context) error {
	r.logger.Info("refreshing catalog", "source", r.source.Describe())
	return r.FetchMovies(ctx)
}

// ToggleFavorite forwards to the favorites store. The repository never
// edits favorite state itself; the change arrives through the store's stream.
func (r *Repository) ToggleFavorite(ctx context.Context, id string) error {
	if err := r.favorites.Toggle(ctx, id); err != nil {
		r.logger.Error("failed to toggle favorite", "id", id, "error", err)
		return err
	}
	r.logger.Debug("toggled favorite", "id", id)
	return nil
}
