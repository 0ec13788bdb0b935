package platforms

import (
	"context"
	"sync"

	"codefolio/models"
)

// RefreshFunc re-aggregates a user's stats from the live upstreams. The
// cache itself never reads the user store; the owner wires this in.
type RefreshFunc func(ctx context.Context) (*models.AggregatedStats, error)

// Cache holds the most recent aggregated result for one session. It starts
// empty, is populated only by RefreshAll, and individual platform slots can
// be invalidated when the user unlinks a handle. Concurrent RefreshAll calls
// are not ordered against each other; the last one to finish wins the slot.
type Cache struct {
	mu      sync.Mutex
	current *models.AggregatedStats
	refresh RefreshFunc
}

func NewCache(refresh RefreshFunc) *Cache {
	return &Cache{refresh: refresh}
}

// Get returns the cached result, or nil before the first refresh.
func (c *Cache) Get() *models.AggregatedStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// RefreshAll re-aggregates and replaces the cached value. The network call
// runs outside the lock so a slow upstream never blocks Get or Invalidate.
func (c *Cache) RefreshAll(ctx context.Context) (*models.AggregatedStats, error) {
	fresh, err := c.refresh(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = fresh
	c.mu.Unlock()
	return fresh, nil
}

// Invalidate clears one platform's slot: its entry becomes not-configured
// and the cached username view for it is blanked. No other slot is touched
// and no network call is made. Operates on whatever value is cached at call
// time, swapping in a shallow copy so readers holding the old result are
// unaffected.
func (c *Cache) Invalidate(p models.Platform) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}

	next := &models.AggregatedStats{
		Platforms: make(map[models.Platform]models.StatsOutcome, len(c.current.Platforms)),
		Usernames: c.current.Usernames.Clone(),
		FetchedAt: c.current.FetchedAt,
	}
	for k, v := range c.current.Platforms {
		next.Platforms[k] = v
	}
	next.Platforms[p] = models.StatsOutcome{Status: models.OutcomeNotConfigured}
	delete(next.Usernames, p)

	c.current = next
}

// CacheRegistry owns one Cache per authenticated session, keyed by the
// user's identity. Dropping a key ends that session's cache lifecycle.
type CacheRegistry struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

func NewCacheRegistry() *CacheRegistry {
	return &CacheRegistry{caches: make(map[string]*Cache)}
}

// ForUser returns the cache for key, creating it with refresh on first use.
func (r *CacheRegistry) ForUser(key string, refresh RefreshFunc) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.caches[key]; ok {
		return c
	}
	c := NewCache(refresh)
	r.caches[key] = c
	return c
}

// Drop discards the cache for key, if any.
func (r *CacheRegistry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caches, key)
}
