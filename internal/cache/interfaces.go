package cache

import "context"

// AssetStore is the cache API needed by the proxy and preview handlers.
type AssetStore interface {
	GetOrFetch(ctx context.Context, store, asset, url string) (Entry, error)
}

// SweepableStore is the cache API needed by the expiry sweeper.
type SweepableStore interface {
	EvictExpired() int
}

var (
	_ AssetStore     = (*AssetCache)(nil)
	_ SweepableStore = (*AssetCache)(nil)
)
