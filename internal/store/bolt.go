package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/cineverse/internal/config"
)

var bucketFavorites = []byte("favorites")

type boltBackend struct {
	db *bolt.DB
}

// NewBoltFavorites opens (or creates) a bolt database at path.
// An empty path gives a memory-only store.
func NewBoltFavorites(path string, logger *slog.Logger) (*Favorites, error) {
	if path == "" {
		return NewMemoryFavorites(logger), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFavorites)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return newFavorites(&boltBackend{db: db}, logger)
}

func (b *boltBackend) name() string { return config.BackendBolt }

func (b *boltBackend) load() (map[string]entry, error) {
	entries := make(map[string]entry)
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFavorites).ForEach(func(k, v []byte) error {
			var e entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode favorite %s: %w", k, err)
			}
			entries[string(k)] = e
			return nil
		})
	})
	return entries, err
}

func (b *boltBackend) put(id string, e entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFavorites).Put([]byte(id), data)
	})
}

func (b *boltBackend) delete(id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFavorites).Delete([]byte(id))
	})
}

func (b *boltBackend) close() error {
	return b.db.Close()
}
