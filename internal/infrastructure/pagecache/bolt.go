// Package pagecache keeps raw upstream pages on disk so restarts do not re-scrape them.
package pagecache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const pagesBucket = "pages"

// headerSize is the big-endian unix-nano expiry stored ahead of each body.
const headerSize = 8

type BoltCache struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

func Open(path string, ttl time.Duration) (*BoltCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("page cache ttl must be positive")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create page cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open page cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(pagesBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create page cache bucket: %w", err)
	}

	return &BoltCache{db: db, ttl: ttl, now: time.Now}, nil
}

// Get returns a copy of the cached body. Expired entries read as misses and are left for Purge.
func (c *BoltCache) Get(key string) ([]byte, bool, error) {
	var body []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(pagesBucket)).Get([]byte(key))
		if len(raw) < headerSize {
			return nil
		}
		if c.expired(raw) {
			return nil
		}
		body = append([]byte(nil), raw[headerSize:]...)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get page %s: %w", key, err)
	}
	return body, body != nil, nil
}

func (c *BoltCache) Put(key string, body []byte) error {
	value := make([]byte, headerSize+len(body))
	binary.BigEndian.PutUint64(value, uint64(c.now().Add(c.ttl).UnixNano()))
	copy(value[headerSize:], body)

	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(pagesBucket)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("put page %s: %w", key, err)
	}
	return nil
}

// Purge deletes expired pages and reports how many were removed.
func (c *BoltCache) Purge() (int, error) {
	removed := 0
	err := c.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(pagesBucket))
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if len(v) < headerSize || c.expired(v) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("purge pages: %w", err)
	}
	return removed, nil
}

func (c *BoltCache) Len() (int, error) {
	n := 0
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(pagesBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

func (c *BoltCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *BoltCache) expired(raw []byte) bool {
	expiresAt := int64(binary.BigEndian.Uint64(raw[:headerSize]))
	return c.now().UnixNano() >= expiresAt
}
