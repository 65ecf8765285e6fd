package ports

import (
	"context"
	"time"
)

// OfflineCache is a durable, bounded, TTL-based cache of read-model
// projections. It holds copies, never authoritative values, and backs reads
// only: no write path ever consults it.
//
// A miss is a value, not an error: Get reports ok=false both for absent and
// expired entries and for internal read failures, so a broken cache degrades
// to an empty one.
type OfflineCache interface {
	// Get returns the cached value when the entry exists and has not
	// expired.
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Put stores the value with the given time to live, atomically
	// replacing any previous entry for the key (write-through overwrite).
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes the entry for the key, or every entry whose key
	// starts with keyOrPrefix.
	Invalidate(ctx context.Context, keyOrPrefix string) error

	// Sweep removes all expired entries and, while the store still exceeds
	// its capacity bound, the oldest-inserted entries until under the
	// bound. Returns how many entries were removed.
	Sweep(ctx context.Context) (removed int, err error)
}

// CacheKey builds the canonical "(entityId, queryShape)" cache key.
func CacheKey(entityID, queryShape string) string {
	return entityID + ":" + queryShape
}
