package cache

import (
	"context"
	"math"
	"sync"

	"github.com/arnegrid/simidx/resource"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUBlockCache is a size-budgeted, least-recently-used BlockCache. Its own
// byte budget evicts the coldest entries once exceeded; it also asks a
// shared resource.Controller for memory before admitting a new entry, so a
// process running several caches still respects one global memory limit.
// An entry that the Controller refuses is simply not cached — Set never
// fails the caller, it just declines to cache.
//
// Eviction order is tracked by golang-lru/v2, configured with an
// effectively unbounded entry count since this cache evicts on byte budget,
// not entry count.
type LRUBlockCache struct {
	mu    sync.Mutex
	limit int64
	size  int64
	rc    *resource.Controller
	cache *lru.Cache[CacheKey, []byte]
}

// NewLRUBlockCache creates a cache with its own byte budget limit, backed by
// a shared resource.Controller rc that gates total memory across every
// cache in the process. rc may be nil to disable the global check.
func NewLRUBlockCache(limit int64, rc *resource.Controller) *LRUBlockCache {
	inner, _ := lru.New[CacheKey, []byte](math.MaxInt32)
	return &LRUBlockCache{
		limit: limit,
		rc:    rc,
		cache: inner,
	}
}

// Size returns the cache's current byte usage.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRUBlockCache) Get(_ context.Context, key CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Get(key)
}

func (c *LRUBlockCache) Set(_ context.Context, key CacheKey, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.cache.Peek(key); ok {
		c.size -= int64(len(old))
		if c.rc != nil {
			c.rc.ReleaseMemory(int64(len(old)))
		}
		c.cache.Remove(key)
	}

	needed := int64(len(b))
	if c.rc != nil && !c.rc.TryAcquireMemory(needed) {
		return
	}

	c.cache.Add(key, b)
	c.size += needed

	for c.size > c.limit {
		if !c.evictOldest() {
			break
		}
	}
}

func (c *LRUBlockCache) evictOldest() bool {
	_, value, ok := c.cache.RemoveOldest()
	if !ok {
		return false
	}
	c.size -= int64(len(value))
	if c.rc != nil {
		c.rc.ReleaseMemory(int64(len(value)))
	}
	return true
}
