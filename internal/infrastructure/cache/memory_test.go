package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestMemoryFreshHitSkipsFetch(t *testing.T) {
	c := NewMemory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = fixedClock(&now)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		return `{"foodSupplies":[]}`, nil
	}

	value, err := c.GetOrFetch(ctx, "kitchen-1", 5*time.Minute, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if value != `{"foodSupplies":[]}` {
		t.Fatalf("GetOrFetch() = %q", value)
	}

	now = now.Add(time.Second)
	if _, err := c.GetOrFetch(ctx, "kitchen-1", 5*time.Minute, fetch); err != nil {
		t.Fatalf("GetOrFetch() second call error = %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
}

func TestMemoryExpiryTriggersRefetch(t *testing.T) {
	c := NewMemory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = fixedClock(&now)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	if _, err := c.GetOrFetch(ctx, "k", 5*time.Minute, fetch); err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}

	// Exactly at the ttl boundary the entry is stale.
	now = now.Add(5 * time.Minute)
	if _, err := c.GetOrFetch(ctx, "k", 5*time.Minute, fetch); err != nil {
		t.Fatalf("GetOrFetch() after expiry error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}
}

func TestMemoryDedupConcurrentFetches(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const waiters = 16
	var wg sync.WaitGroup
	results := make([]string, waiters)
	errors := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errors[i] = c.GetOrFetch(ctx, "k", time.Minute, fetch)
		}(i)
	}

	// Let every goroutine reach the cache before the fetch settles.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
	for i := 0; i < waiters; i++ {
		if errors[i] != nil {
			t.Fatalf("waiter %d error = %v", i, errors[i])
		}
		if results[i] != "shared" {
			t.Fatalf("waiter %d result = %q", i, results[i])
		}
	}
}

func TestMemoryFailureIsNotCached(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	boom := errors.New("upstream down")
	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", boom
		}
		return "recovered", nil
	}

	_, err := c.GetOrFetch(ctx, "k", time.Minute, fetch)
	if !errors.Is(err, boom) {
		t.Fatalf("GetOrFetch() error = %v, want upstream failure", err)
	}
	if _, ok := c.Peek(ctx, "k"); ok {
		t.Fatalf("Peek() found an entry after a failed fetch")
	}

	value, err := c.GetOrFetch(ctx, "k", time.Minute, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() retry error = %v", err)
	}
	if value != "recovered" || calls.Load() != 2 {
		t.Fatalf("retry = %q, calls = %d", value, calls.Load())
	}
}

func TestMemoryZeroTTLAlwaysFetches(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrFetch(ctx, "k", 0, fetch); err != nil {
			t.Fatalf("GetOrFetch() error = %v", err)
		}
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("fetch calls = %d, want 3", got)
	}
}

func TestMemoryRefreshOverwritesFreshEntry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "k", "stale")

	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		return "fresh", nil
	}

	value, err := c.Refresh(ctx, "k", time.Hour, fetch)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if value != "fresh" || calls.Load() != 1 {
		t.Fatalf("Refresh() = %q, calls = %d", value, calls.Load())
	}

	if got, _ := c.Peek(ctx, "k"); got != "fresh" {
		t.Fatalf("Peek() after refresh = %q", got)
	}
}

func TestMemorySetSeedsWithoutFetch(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "kitchen-1", `{"foodSupplies":[1,2]}`)

	value, err := c.GetOrFetch(ctx, "kitchen-1", 5*time.Minute, func(context.Context) (string, error) {
		t.Fatalf("fetch must not run for a seeded key")
		return "", nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if value != `{"foodSupplies":[1,2]}` {
		t.Fatalf("GetOrFetch() = %q", value)
	}
}

func TestMemoryInvalidate(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "dash:t1:stats", "a")
	c.Set(ctx, "dash:t1:spent", "b")
	c.Set(ctx, "dash:t2:stats", "c")

	c.Invalidate(ctx, "dash:t1:stats")
	if _, ok := c.Peek(ctx, "dash:t1:stats"); ok {
		t.Fatalf("Peek() found invalidated key")
	}

	c.InvalidatePrefix(ctx, "dash:t1:")
	if _, ok := c.Peek(ctx, "dash:t1:spent"); ok {
		t.Fatalf("Peek() found key under invalidated prefix")
	}
	if _, ok := c.Peek(ctx, "dash:t2:stats"); !ok {
		t.Fatalf("Peek() lost key outside invalidated prefix")
	}
}
