package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTileTTL matches the week-long cache lifetime tile providers ask clients to honour.
const DefaultTileTTL = 7 * 24 * time.Hour

// TileCache keeps downloaded base map tiles on disk, keyed by URL.
type TileCache struct {
	db    *badger.DB
	ttl   time.Duration
	cache sync.Map
}

func OpenTileCache(path string, ttl time.Duration) (*TileCache, error) {
	opts := badger.DefaultOptions(path)
	// Decrease logging verbosity
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTileTTL
	}
	return &TileCache{db: db, ttl: ttl}, nil
}

func (c *TileCache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for key. A miss is reported as (nil, false, nil).
func (c *TileCache) Get(key string) ([]byte, bool, error) {
	if v, ok := c.cache.Load(key); ok {
		return v.([]byte), true, nil
	}

	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	c.cache.Store(key, val)
	return val, true, nil
}

func (c *TileCache) Put(key string, data []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), data).WithTTL(c.ttl))
	})
	if err != nil {
		return err
	}
	c.cache.Store(key, data)
	return nil
}

func (c *TileCache) Delete(key string) error {
	c.cache.Delete(key)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Len counts the live entries on disk.
func (c *TileCache) Len() (int, error) {
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
