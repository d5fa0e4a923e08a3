// Package store persists the user's favorite movie ids.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/cineverse/internal/config"
	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/live"
)

// entry is the persisted value for one favorite.
type entry struct {
	AddedAt int64 `json:"added_at"`
}

// backend is the durable half of a Favorites store.
type backend interface {
	load() (map[string]entry, error)
	put(id string, e entry) error
	delete(id string) error
	close() error
	name() string
}

// Favorites implements domain.FavoritesStore. Reads are served from memory;
// every toggle is written through to the backend before it is published.
type Favorites struct {
	backend backend
	logger  *slog.Logger

	mu      sync.Mutex // serializes toggles and protects entries
	entries map[string]entry
	closed  bool

	ids *live.Subject[domain.IDSet]
	now func() time.Time
}

func newFavorites(b backend, logger *slog.Logger) (*Favorites, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := b.load()
	if err != nil {
		b.close()
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	f := &Favorites{
		backend: b,
		logger:  logger,
		entries: entries,
		now:     time.Now,
	}
	f.ids = live.NewSubjectWith(f.snapshot())
	logger.Debug("favorites loaded", "backend", b.name(), "count", len(entries))
	return f, nil
}

// Open creates the favorites store selected by cfg.
func Open(cfg *config.FavoritesConfig, logger *slog.Logger) (*Favorites, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryFavorites(logger), nil
	case config.BackendBadger:
		dir, err := config.ExpandHome(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewBadgerFavorites(dir, logger)
	case "", config.BackendBolt:
		path, err := config.ExpandHome(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewBoltFavorites(path, logger)
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", cfg.Backend)
	}
}

// IDs streams the current favorite set, starting with the value at
// subscription time.
func (f *Favorites) IDs() live.Stream[domain.IDSet] {
	return f.ids
}

// Toggle adds id if absent and removes it if present. The change is
// persisted before subscribers see it; on a write error nothing changes.
func (f *Favorites) Toggle(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return domain.ErrStoreClosed
	}

	if _, ok := f.entries[id]; ok {
		if err := f.backend.delete(id); err != nil {
			return fmt.Errorf("remove favorite %s: %w", id, err)
		}
		delete(f.entries, id)
		f.logger.Debug("favorite removed", "id", id)
	} else {
		e := entry{AddedAt: f.now().Unix()}
		if err := f.backend.put(id, e); err != nil {
			return fmt.Errorf("add favorite %s: %w", id, err)
		}
		f.entries[id] = e
		f.logger.Debug("favorite added", "id", id)
	}

	f.ids.Set(f.snapshot())
	return nil
}

// AddedAt reports when id was marked favorite.
func (f *Favorites) AddedAt(id string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(e.AddedAt, 0), true
}

// Close ends all IDs subscriptions and releases the backend.
func (f *Favorites) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.ids.Close()
	return f.backend.close()
}

// snapshot copies the id set; published sets are never mutated.
func (f *Favorites) snapshot() domain.IDSet {
	set := make(domain.IDSet, len(f.entries))
	for id := range f.entries {
		set[id] = struct{}{}
	}
	return set
}

// memoryBackend keeps nothing; used when persistence is disabled.
type memoryBackend struct{}

func (memoryBackend) load() (map[string]entry, error) { return make(map[string]entry), nil }
func (memoryBackend) put(string, entry) error         { return nil }
func (memoryBackend) delete(string) error             { return nil }
func (memoryBackend) close() error                    { return nil }
func (memoryBackend) name() string                    { return config.BackendMemory }

// NewMemoryFavorites returns a store that forgets everything on exit.
func NewMemoryFavorites(logger *slog.Logger) *Favorites {
	f, _ := newFavorites(memoryBackend{}, logger)
	return f
}
