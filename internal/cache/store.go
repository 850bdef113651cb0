package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bassista/go_preview/internal/logger"
	"github.com/bassista/go_preview/internal/remote"
	"golang.org/x/sync/singleflight"
)

// Entry is a cached remote asset.
type Entry struct {
	Body        []byte
	ContentType string
	FetchedAt   time.Time
}

// AssetCache memoizes remote fetches per (store, asset name).
// Concurrent misses on the same key share one in-flight fetch. Failed fetches
// are never stored, so the next request retries the network.
type AssetCache struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	inflight singleflight.Group
	fetcher  remote.Fetcher
	ttl      time.Duration // zero: entries live for the whole process
	now      func() time.Time
}

// NewAssetCache creates an empty cache in front of fetcher.
func NewAssetCache(fetcher remote.Fetcher, ttl time.Duration) *AssetCache {
	return &AssetCache{
		entries: make(map[string]Entry),
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key builds the cache key for a store asset.
func Key(store, asset string) string {
	return store + "-" + asset
}

// Get returns the live entry for the key, if any.
func (c *AssetCache) Get(store, asset string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupLocked(Key(store, asset))
}

func (c *AssetCache) lookupLocked(key string) (Entry, bool) {
	entry, ok := c.entries[key]
	if !ok || c.expired(entry) {
		return Entry{}, false
	}
	return entry, true
}

func (c *AssetCache) expired(entry Entry) bool {
	return c.ttl > 0 && c.now().Sub(entry.FetchedAt) >= c.ttl
}

// GetOrFetch returns the cached entry or fetches url and caches the result.
// The shared fetch is detached from the caller's cancellation and bounded by
// the fetcher's own timeout; a canceled caller only stops waiting for it.
func (c *AssetCache) GetOrFetch(ctx context.Context, store, asset, url string) (Entry, error) {
	key := Key(store, asset)
	log := logger.WithStore("cache", store)

	if entry, ok := c.Get(store, asset); ok {
		log.Debugf("serving from cache: %s", key)
		return entry, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	results := c.inflight.DoChan(key, func() (any, error) {
		c.mu.RLock()
		entry, ok := c.lookupLocked(key)
		c.mu.RUnlock()
		if ok {
			return entry, nil
		}

		log.Debugf("cache miss, fetching %s from %s", key, url)
		fetched, err := c.fetcher.Fetch(fetchCtx, url)
		if err != nil {
			return Entry{}, err
		}

		entry = Entry{Body: fetched.Body, ContentType: fetched.ContentType, FetchedAt: c.now()}
		c.mu.Lock()
		c.entries[key] = entry
		c.mu.Unlock()
		return entry, nil
	})

	select {
	case <-ctx.Done():
		log.Debugf("stopped waiting for %s: %v", key, ctx.Err())
		return Entry{}, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			log.Errorf("fetch %s failed: %v", key, res.Err)
			return Entry{}, res.Err
		}
		if res.Shared {
			log.Tracef("joined in-flight fetch for %s", key)
		}
		return res.Val.(Entry), nil
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *AssetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *AssetCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// EvictExpired removes entries older than the TTL and returns how many went.
func (c *AssetCache) EvictExpired() int {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
