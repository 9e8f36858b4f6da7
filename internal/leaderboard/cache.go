package leaderboard

import (
	"sync"
	"time"
)

type cacheEntry struct {
	entries  []*Entry
	storedAt time.Time
}

// Cache keeps the last computed board per period. Entries expire after ttl
// and are dropped on Invalidate.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[Period]cacheEntry
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[Period]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(p Period) ([]*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[p]
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.entries, true
}

func (c *Cache) Set(p Period, entries []*Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p] = cacheEntry{entries: entries, storedAt: c.now()}
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Period]cacheEntry)
}
