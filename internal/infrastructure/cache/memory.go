package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
)

// Memory implements ports.RequestCache in process memory.
//
// Entries hold the JSON value and its write time; freshness is judged
// lazily on read against the caller's ttl. A singleflight group collapses
// concurrent fetches for the same key into one call, and failed fetches
// leave no entry behind, so the next read naturally retries.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

type entry struct {
	value    string
	storedAt time.Time
}

var _ ports.RequestCache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *Memory) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch ports.FetchFunc) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if fetch == nil {
		return "", errors.New("fetch func is required")
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", errors.New("key is required")
	}

	// ttl <= 0 always takes the fetch path but still dedups in-flight calls.
	if ttl > 0 {
		if value, ok := c.fresh(trimmedKey, ttl); ok {
			return value, nil
		}
	}

	return c.fetchShared(ctx, trimmedKey, fetch)
}

func (c *Memory) Refresh(ctx context.Context, key string, _ time.Duration, fetch ports.FetchFunc) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if fetch == nil {
		return "", errors.New("fetch func is required")
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", errors.New("key is required")
	}

	return c.fetchShared(ctx, trimmedKey, fetch)
}

// fetchShared runs fetch under the singleflight group so overlapping callers
// for one key observe a single round-trip. Only a successful result is stored.
func (c *Memory) fetchShared(ctx context.Context, key string, fetch ports.FetchFunc) (string, error) {
	result, err, _ := c.group.Do(key, func() (any, error) {
		if err := ctx.Err(); err != nil {
			return "", errs.Wrap(err, "check context")
		}

		value, err := fetch(ctx)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.entries[key] = entry{value: value, storedAt: c.now()}
		c.mu.Unlock()

		return value, nil
	})
	if err != nil {
		return "", errs.Wrapf(err, "fetch cache key %q", key)
	}

	value, ok := result.(string)
	if !ok {
		return "", errors.New("unexpected cache fetch result type")
	}
	return value, nil
}

func (c *Memory) fresh(key string, ttl time.Duration) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.storedAt) >= ttl {
		return "", false
	}
	return e.value, true
}

func (c *Memory) Peek(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[strings.TrimSpace(key)]
	if !ok {
		return "", false
	}
	return e.value, true
}

func (c *Memory) Set(_ context.Context, key string, value string) {
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return
	}

	c.mu.Lock()
	c.entries[trimmedKey] = entry{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *Memory) Invalidate(_ context.Context, key string) {
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return
	}

	c.mu.Lock()
	delete(c.entries, trimmedKey)
	c.mu.Unlock()

	// Drop any pending fetch so the next GetOrFetch issues a new one
	// instead of adopting a stale in-flight result.
	c.group.Forget(trimmedKey)
}

func (c *Memory) InvalidatePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			c.group.Forget(key)
		}
	}
	c.mu.Unlock()
}
