package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
)

type cacheItem struct {
	snap      authlog.StatsSnapshot
	expiresAt time.Time
}

// StatsCache is a process-local TTL cache used when Redis is not configured.
type StatsCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
	limit int
	now   func() time.Time
}

func NewStatsCache(limit int, ttl time.Duration) *StatsCache {
	if limit <= 0 || ttl <= 0 {
		return &StatsCache{items: nil, now: time.Now}
	}

	return &StatsCache{
		items: make(map[string]cacheItem, limit),
		ttl:   ttl,
		limit: limit,
		now:   time.Now,
	}
}

func (c *StatsCache) Get(_ context.Context, appID string) (authlog.StatsSnapshot, bool, error) {
	if c.items == nil {
		return authlog.StatsSnapshot{}, false, nil
	}

	c.mu.RLock()
	item, ok := c.items[appID]
	c.mu.RUnlock()

	if !ok {
		return authlog.StatsSnapshot{}, false, nil
	}
	if c.now().After(item.expiresAt) {
		c.deleteExpired(appID)
		return authlog.StatsSnapshot{}, false, nil
	}

	return item.snap, true, nil
}

// deleteExpired removes appID unless a Set refreshed it after the read.
func (c *StatsCache) deleteExpired(appID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[appID]; ok && c.now().After(item.expiresAt) {
		delete(c.items, appID)
	}
}

func (c *StatsCache) Set(_ context.Context, appID string, snap authlog.StatsSnapshot) error {
	if c.items == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// simple eviction: if over limit, reset cache
	if len(c.items) >= c.limit {
		c.items = make(map[string]cacheItem, c.limit)
	}

	c.items[appID] = cacheItem{
		snap:      snap,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}
