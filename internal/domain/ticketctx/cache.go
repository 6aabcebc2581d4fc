package ticketctx

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/metrics"
)

// Cache holds fetched ticket context keyed by ticket id. Entries expire after
// a TTL and concurrent fetches for the same ticket are collapsed into one.
type Cache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	entries map[int]cacheEntry
}

type cacheEntry struct {
	data     *Data
	storedAt time.Time
}

func NewCache(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[int]cacheEntry),
	}
}

// GetOrFetch returns cached context for the ticket when fresh, otherwise runs
// fetch. Concurrent callers for the same ticket share a single fetch.
func (c *Cache) GetOrFetch(ctx context.Context, ticketID int, fetch func(ctx context.Context) (*Data, error)) (*Data, error) {
	if data, ok := c.lookup(ticketID); ok {
		metrics.RecordContextCache(true)
		return data, nil
	}
	metrics.RecordContextCache(false)

	result, err, _ := c.group.Do(strconv.Itoa(ticketID), func() (any, error) {
		// A racing caller may have populated the entry while this one waited.
		if data, ok := c.lookup(ticketID); ok {
			return data, nil
		}
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ticketID, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Data), nil
}

// Clear drops all cached context.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]cacheEntry)
}

func (c *Cache) lookup(ticketID int) (*Data, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[ticketID]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.data, true
}

func (c *Cache) store(ticketID int, data *Data) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, id)
		}
	}

	// Still full after sweeping: evict the oldest entry.
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		oldestID := 0
		var oldestAt time.Time
		for id, entry := range c.entries {
			if oldestAt.IsZero() || entry.storedAt.Before(oldestAt) {
				oldestID, oldestAt = id, entry.storedAt
			}
		}
		delete(c.entries, oldestID)
	}

	c.entries[ticketID] = cacheEntry{data: data, storedAt: now}
}
