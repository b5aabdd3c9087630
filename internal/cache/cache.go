package cache

import (
	"sync"
	"time"

	"github.com/aperdana/networth/internal/domain/networth"
)

// SeriesCache keeps recently computed net-worth series per window size.
// Writes to assets or snapshots clear it wholesale: the series is cheap
// to recompute and correctness beats cleverness here.
type SeriesCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	points []networth.Point
	exp    time.Time
}

func New(ttl time.Duration) *SeriesCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &SeriesCache{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

func (c *SeriesCache) Get(key string) ([]networth.Point, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.points, true
}

func (c *SeriesCache) Set(key string, points []networth.Point) {
	c.mu.Lock()
	c.m[key] = entry{points: points, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *SeriesCache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
