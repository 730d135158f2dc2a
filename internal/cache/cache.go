// Package cache implements the in-memory tier of the payload cache: an LRU
// keyed by canonical upstream URL with per-entry expiry.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/amaumene/gomoviesfr/internal/constants"
)

// Cache is the interface the gateway consumes.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, payload []byte)
	Delete(key string)
	Clear()
}

type entry struct {
	key        string
	payload    []byte
	expiration time.Time
}

// LRUCache is a fixed-capacity LRU with TTL-based expiry. Safe for
// concurrent use.
type LRUCache struct {
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	mu        sync.Mutex
	ttl       time.Duration
}

// New creates an LRUCache holding at most capacity entries, each valid for ttl.
func New(capacity int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		ttl:       ttl,
	}
}

// Get returns the payload for key when present and unexpired. Expired entries
// are removed on access.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	e := elem.Value.(*entry)
	if time.Now().After(e.expiration) {
		c.removeElement(elem)
		return nil, false
	}

	c.evictList.MoveToFront(elem)
	return e.payload, true
}

// Set stores payload under key, resetting its freshness deadline. The oldest
// entry is evicted when the cache is full.
func (c *LRUCache) Set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry)
		e.payload = payload
		e.expiration = expiration
		c.evictList.MoveToFront(elem)
		return
	}

	elem := c.evictList.PushFront(&entry{key: key, payload: payload, expiration: expiration})
	c.items[key] = elem

	if c.evictList.Len() > c.capacity {
		if oldest := c.evictList.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Delete removes key from the cache.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear drops every entry.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

// Len returns the number of entries currently held, expired or not.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*entry).key)
}

// CleanExpired removes every expired entry in one pass.
func (c *LRUCache) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := c.evictList.Back(); elem != nil; elem = elem.Prev() {
		if now.After(elem.Value.(*entry).expiration) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
}

// StartCleanup sweeps expired entries on a ticker until ctx is done.
func (c *LRUCache) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(constants.CacheSweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.CleanExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}
