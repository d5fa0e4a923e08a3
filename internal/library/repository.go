package library

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/live"
)

// cacheState is one fetch cycle's worth of raw catalog data.
// It is replaced wholesale and never mutated.
type cacheState struct {
	records   []domain.Record
	fetchedAt time.Time
	fetched   bool
}

// Repository is the single source of truth for the catalog annotated with
// favorite status. It owns the raw catalog cache; the favorites store is
// injected and outlives it.
type Repository struct {
	source    domain.CatalogSource
	favorites domain.FavoritesStore
	policy    DuplicatePolicy
	logger    *slog.Logger

	cache   *live.Subject[cacheState]
	fetchMu sync.Mutex // serializes fetches; last successful one wins
}

// NewRepository creates a repository with an empty cache.
func NewRepository(
	source domain.CatalogSource,
	favorites domain.FavoritesStore,
	policy DuplicatePolicy,
	logger *slog.Logger,
) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = KeepLast
	}
	return &Repository{
		source:    source,
		favorites: favorites,
		policy:    policy,
		logger:    logger,
		cache:     live.NewSubjectWith(cacheState{}),
	}
}

// ObserveMovies emits the full annotated catalog whenever the cache is
// replaced or the favorite set changes. Before the first fetch the list is
// empty. Nothing is emitted until the favorites store has produced its
// first set.
func (r *Repository) ObserveMovies() live.Stream[[]domain.Movie] {
	return live.CombineLatest(
		live.Stream[cacheState](r.cache),
		r.favorites.IDs(),
		func(c cacheState, ids domain.IDSet) []domain.Movie {
			return annotate(c.records, ids)
		},
	)
}

// ObserveFavorites emits the annotated catalog restricted to favorites.
// A movie appears iff it is cached and its id is in the favorite set.
func (r *Repository) ObserveFavorites() live.Stream[[]domain.Movie] {
	return live.Map(r.ObserveMovies(), onlyFavorites)
}

// ObserveMovie emits the movie with the given id, or nil when the cache has
// no such movie. Repeated identical results are suppressed.
func (r *Repository) ObserveMovie(id string) live.Stream[*domain.Movie] {
	found := live.Map(r.ObserveMovies(), func(movies []domain.Movie) *domain.Movie {
		return find(movies, id)
	})
	return live.Distinct(found, sameMovie)
}

// Close ends every stream derived from the cache. The favorites store is not
// owned by the repository and stays open.
func (r *Repository) Close() {
	r.cache.Close()
}

func sameMovie(a, b *domain.Movie) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
