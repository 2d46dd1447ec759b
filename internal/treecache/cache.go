// Package treecache keeps decoded syntax trees in a badger store keyed by
// file path and content hash, so unchanged files skip decoding on the next
// run or batch.
package treecache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"vlxref/internal/cst"
)

// ErrMiss is returned by Get when no tree is stored for the key.
var ErrMiss = errors.New("treecache: miss")

const keyPrefix = "tree/v1/"

// Cache is safe for concurrent use.
type Cache struct {
	db     *badger.DB
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Open opens the store in dir, creating it when needed. An empty dir keeps
// the store in memory.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open tree cache %q: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the store.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func pathPrefix(path string) []byte {
	return []byte(keyPrefix + path + "\x00")
}

func key(path string, sum [32]byte) []byte {
	return append(pathPrefix(path), hex.EncodeToString(sum[:])...)
}

// Get returns the tree stored for path with content hash sum.
func (c *Cache) Get(path string, sum [32]byte) (*cst.File, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(path, sum))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.misses.Add(1)
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("tree cache get %s: %w", path, err)
	}
	f, err := cst.UnmarshalBinary(data, path)
	if err != nil {
		// a stale encoding counts as a miss, the caller decodes again
		c.misses.Add(1)
		return nil, errors.Join(ErrMiss, err)
	}
	c.hits.Add(1)
	return f, nil
}

// Put stores f for path with content hash sum and drops older versions of
// the same path.
func (c *Cache) Put(path string, sum [32]byte, f *cst.File) error {
	data, err := cst.MarshalBinary(f)
	if err != nil {
		return fmt.Errorf("tree cache encode %s: %w", path, err)
	}
	k := key(path, sum)
	return c.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, pathPrefix(path), k); err != nil {
			return err
		}
		return txn.Set(k, data)
	})
}

// Drop removes every version stored for path.
func (c *Cache) Drop(path string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return deletePrefix(txn, pathPrefix(path), nil)
	})
}

func deletePrefix(txn *badger.Txn, prefix, keep []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	var doomed [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		k := it.Item().KeyCopy(nil)
		if keep != nil && string(k) == string(keep) {
			continue
		}
		doomed = append(doomed, k)
	}
	it.Close()
	for _, k := range doomed {
		if err := txn.Delete(k); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
	}
	return nil
}

// Stats reports lookups served from the store and lookups that missed.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
