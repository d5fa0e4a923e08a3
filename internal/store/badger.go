package store

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/mmcdole/cineverse/internal/config"
)

const favoriteKeyPrefix = "favorite:"

type badgerBackend struct {
	db *badger.DB
}

// NewBadgerFavorites opens (or creates) a badger database in dir.
// An empty dir runs badger in memory.
func NewBadgerFavorites(dir string, logger *slog.Logger) (*Favorites, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	// Keep badger off stderr; the terminal UI owns it.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return newFavorites(&badgerBackend{db: db}, logger)
}

func (b *badgerBackend) name() string { return config.BackendBadger }

func (b *badgerBackend) load() (map[string]entry, error) {
	entries := make(map[string]entry)
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(favoriteKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			var e entry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("decode favorite %s: %w", id, err)
			}
			entries[id] = e
		}
		return nil
	})
	return entries, err
}

func (b *badgerBackend) put(id string, e entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal favorite: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(favoriteKeyPrefix+id), data)
	})
}

func (b *badgerBackend) delete(id string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(favoriteKeyPrefix + id))
	})
}

func (b *badgerBackend) close() error {
	return b.db.Close()
}
