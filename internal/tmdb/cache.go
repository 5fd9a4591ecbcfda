package tmdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketGenres = []byte("genres")

// GenreTTL is how long a cached genre list stays fresh.
const GenreTTL = 7 * 24 * time.Hour

type cachedGenres struct {
	FetchedAt time.Time `json:"fetched_at"`
	Genres    []Genre   `json:"genres"`
}

// GenreCache persists genre lists in a bbolt database keyed by kind.
type GenreCache struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenGenreCache opens or creates the cache database at path.
func OpenGenreCache(path string) (*GenreCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketGenres)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &GenreCache{db: db, now: time.Now}, nil
}

// Get returns the cached list for kind if present and fresh.
func (g *GenreCache) Get(kind Kind) ([]Genre, bool) {
	var data []byte
	g.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketGenres).Get([]byte(kind)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return nil, false
	}

	var entry cachedGenres
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if g.now().Sub(entry.FetchedAt) > GenreTTL {
		return nil, false
	}
	return entry.Genres, true
}

// Put stores the list for kind.
func (g *GenreCache) Put(kind Kind, genres []Genre) error {
	data, err := json.Marshal(cachedGenres{FetchedAt: g.now(), Genres: genres})
	if err != nil {
		return err
	}
	return g.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGenres).Put([]byte(kind), data)
	})
}

// Close closes the database.
func (g *GenreCache) Close() error {
	return g.db.Close()
}
