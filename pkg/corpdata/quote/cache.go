package quote

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// Cache decorates a Source with a TTL+LRU cache keyed by upper-cased ticker.
// Errors are never cached.
type Cache struct {
	next Source
	ttl  time.Duration
	size int
	now  func() time.Time

	mu    sync.Mutex
	items map[string]cacheEntry
	order []string // LRU order, oldest at index 0
}

type cacheEntry struct {
	at  time.Time
	rec types.Record
}

// NewCache wraps next. size <= 0 selects 256 entries.
func NewCache(next Source, ttl time.Duration, size int) *Cache {
	if size <= 0 {
		size = 256
	}
	return &Cache{next: next, ttl: ttl, size: size, now: time.Now, items: make(map[string]cacheEntry)}
}

func (c *Cache) Quote(ctx context.Context, ticker string) (types.Record, error) {
	k := strings.ToUpper(ticker)
	now := c.now()
	c.mu.Lock()
	if ent, ok := c.items[k]; ok {
		if now.Sub(ent.at) <= c.ttl {
			c.touchLocked(k)
			rec := copyRecord(ent.rec)
			c.mu.Unlock()
			return rec, nil
		}
		delete(c.items, k)
		c.removeFromOrderLocked(k)
	}
	c.mu.Unlock()

	rec, err := c.next.Quote(ctx, ticker)
	if err != nil {
		return rec, err
	}
	c.mu.Lock()
	if _, ok := c.items[k]; ok {
		c.removeFromOrderLocked(k)
	}
	c.items[k] = cacheEntry{at: now, rec: copyRecord(rec)}
	c.order = append(c.order, k)
	for len(c.items) > c.size && len(c.order) > 0 {
		old := c.order[0]
		c.order = c.order[1:]
		delete(c.items, old)
	}
	c.mu.Unlock()
	return rec, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) touchLocked(k string) {
	c.removeFromOrderLocked(k)
	c.order = append(c.order, k)
}

func (c *Cache) removeFromOrderLocked(k string) {
	for i, v := range c.order {
		if v == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func copyRecord(r types.Record) types.Record {
	if r == nil {
		return nil
	}
	out := make(types.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
