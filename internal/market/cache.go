// Package market implements the market-price proxy: an upstream client for
// the government open-data commodity API and a bounded in-process cache in
// front of it.
package market

import (
	"container/list"
	"sync"
	"time"

	"farmiq/internal/middleware"
)

// PriceCache is a TTL + LRU bounded cache of upstream price responses keyed
// by normalized query parameters. Staleness is checked at read time; the LRU
// bound caps memory under sustained distinct-parameter traffic.
type PriceCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	now func() time.Time // test hook
}

type cacheEntry struct {
	key      string
	payload  *PriceResponse
	storedAt time.Time
}

// NewPriceCache returns a cache holding at most capacity entries, each valid
// for ttl after being stored.
func NewPriceCache(ttl time.Duration, capacity int) *PriceCache {
	return &PriceCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns the cached response for key if present and fresh. Stale entries
// are removed on read.
func (c *PriceCache) Get(key string) (*PriceResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		middleware.MarketCacheMisses.Inc()
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.order.Remove(elem)
		delete(c.entries, key)
		middleware.MarketCacheMisses.Inc()
		return nil, false
	}

	c.order.MoveToFront(elem)
	middleware.MarketCacheHits.Inc()
	return entry.payload, true
}

// Set stores payload under key, overwriting any previous entry and evicting
// the least recently used entry when the capacity bound is exceeded.
func (c *PriceCache) Set(key string, payload *PriceResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.payload = payload
		entry.storedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&cacheEntry{key: key, payload: payload, storedAt: c.now()})
	c.entries[key] = elem

	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		middleware.MarketCacheEvictions.Inc()
	}
}

// Len returns the number of entries currently held, stale ones included.
func (c *PriceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
