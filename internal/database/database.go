// Package database provides the persistent tier of the payload cache,
// backed by BoltDB. Entries survive restarts so a warm cache does not
// depend on process lifetime.
package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	dbFileMode = 0600
	dbDirMode  = 0755

	defaultDBFile = "cache.db"
)

var payloadBucket = []byte("payloads")

// CachedPayload is a stored upstream response with its fetch time. Freshness
// is evaluated on read so the operator TTL can change without rewriting
// entries.
type CachedPayload struct {
	Key       string    `json:"key"`
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Database is the persistence interface consumed by the gateway.
type Database interface {
	// GetPayload returns the stored body for key when present and younger
	// than maxAge. A maxAge of zero disables the freshness check.
	GetPayload(key string, maxAge time.Duration) ([]byte, bool, error)
	// StorePayload stores body under key, stamping the fetch time.
	StorePayload(key string, body []byte) error
	// DeletePayload removes key.
	DeletePayload(key string) error
	// Close closes the underlying database.
	Close() error
}

// BoltDB implements Database using a single BoltDB file.
type BoltDB struct {
	db *bolt.DB
}

// NewBolt opens (or creates) the cache database at dbPath. An empty path
// falls back to the default file in the current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(payloadBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create payload bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// Close closes the database file.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// GetPayload returns the body stored under key when fresh. Stale entries are
// deleted lazily and reported as absent.
func (b *BoltDB) GetPayload(key string, maxAge time.Duration) ([]byte, bool, error) {
	var cached CachedPayload
	found := false

	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(payloadBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &cached); err != nil {
			return fmt.Errorf("corrupt cache entry for %q: %w", key, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	if maxAge > 0 && time.Since(cached.FetchedAt) > maxAge {
		if err := b.DeletePayload(key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return cached.Body, true, nil
}

// StorePayload writes body under key in a single transaction.
func (b *BoltDB) StorePayload(key string, body []byte) error {
	raw, err := json.Marshal(CachedPayload{Key: key, Body: body, FetchedAt: time.Now()})
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(payloadBucket).Put([]byte(key), raw)
	})
}

// DeletePayload removes key from the payload bucket.
func (b *BoltDB) DeletePayload(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(payloadBucket).Delete([]byte(key))
	})
}
