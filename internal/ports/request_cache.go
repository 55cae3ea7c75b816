package ports

import (
	"context"
	"time"
)

// FetchFunc produces the value for a cache key, typically by querying the
// database. The result must be a self-contained JSON string; the cache
// stores it verbatim, so consumers never share mutable references.
type FetchFunc func(ctx context.Context) (string, error)

// RequestCache is a TTL read-through cache with in-flight deduplication.
//
// GetOrFetch returns the cached value while it is younger than ttl;
// otherwise it runs fetch, stores the result, and returns it. Concurrent
// calls for the same key share one fetch. A ttl <= 0 always takes the
// fetch path. Fetch failures are never stored.
type RequestCache interface {
	GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (string, error)
	// Refresh bypasses the freshness check and always fetches, still
	// deduplicating concurrent in-flight calls for the same key.
	Refresh(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (string, error)
	// Peek reports the cached value without fetching.
	Peek(ctx context.Context, key string) (string, bool)
	// Set seeds the cache after a caller performed its own mutation,
	// avoiding a redundant refetch right after a write.
	Set(ctx context.Context, key string, value string)
	Invalidate(ctx context.Context, key string)
	InvalidatePrefix(ctx context.Context, prefix string)
}
