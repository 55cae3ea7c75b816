package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"opsdeck/internal/ports"
)

type lookupFunc func(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error)

func (f lookupFunc) Lookup(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error) {
	return f(ctx, tenantID, code)
}

type countingLookup struct {
	mu    sync.Mutex
	calls int
	fn    lookupFunc
}

func (c *countingLookup) Lookup(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.fn(ctx, tenantID, code)
}

func (c *countingLookup) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestSubmitFoundAndPanels(t *testing.T) {
	sess := NewSession("t-1", "dev-1", lookupFunc(func(_ context.Context, _ string, code string) (ports.AssetRecord, error) {
		return ports.AssetRecord{AssetID: "a-1", Barcode: code}, nil
	}), nil)

	if err := sess.ScanAgain(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("ScanAgain(idle) error = %v", err)
	}
	if err := sess.OpenPanel(PanelDetails); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("OpenPanel(idle) error = %v", err)
	}

	state, err := sess.Submit(context.Background(), " ast-1 ")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if state != StateFound {
		t.Fatalf("Submit() state = %q", state)
	}
	if _, _, result := sess.Snapshot(); result.Barcode != "AST-1" {
		t.Fatalf("Snapshot() result = %+v, want normalized code", result)
	}

	if err := sess.OpenPanel("bogus"); !errors.Is(err, ErrUnknownPanel) {
		t.Fatalf("OpenPanel(bogus) error = %v", err)
	}
	if err := sess.OpenPanel(PanelTransfer); err != nil {
		t.Fatalf("OpenPanel() error = %v", err)
	}
	if _, panel, _ := sess.Snapshot(); panel != PanelTransfer {
		t.Fatalf("Snapshot() panel = %q", panel)
	}
	if err := sess.ClosePanel(); err != nil {
		t.Fatalf("ClosePanel() error = %v", err)
	}
	if err := sess.ClosePanel(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("ClosePanel(no panel) error = %v", err)
	}

	if err := sess.ScanAgain(); err != nil {
		t.Fatalf("ScanAgain() error = %v", err)
	}
	if state, _, _ := sess.Snapshot(); state != StateIdle {
		t.Fatalf("ScanAgain() state = %q", state)
	}
}

func TestSubmitMissIsNotCached(t *testing.T) {
	lookup := &countingLookup{}
	lookup.fn = func(context.Context, string, string) (ports.AssetRecord, error) {
		if lookup.count() == 1 {
			return ports.AssetRecord{}, ports.ErrAssetNotFound
		}
		return ports.AssetRecord{AssetID: "a-1"}, nil
	}
	sess := NewSession("t-1", "dev-1", lookup, nil)

	state, err := sess.Submit(context.Background(), "AST-1")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if state != StateNotFound {
		t.Fatalf("Submit(miss) state = %q", state)
	}

	// The label got registered in the meantime; the miss must not stick.
	state, err = sess.Submit(context.Background(), "AST-1")
	if err != nil {
		t.Fatalf("Submit(retry) error = %v", err)
	}
	if state != StateFound || lookup.count() != 2 {
		t.Fatalf("Submit(retry) state = %q, calls = %d", state, lookup.count())
	}
}

func TestSubmitCachesRecentHits(t *testing.T) {
	lookup := &countingLookup{fn: func(context.Context, string, string) (ports.AssetRecord, error) {
		return ports.AssetRecord{AssetID: "a-1"}, nil
	}}
	sess := NewSession("t-1", "dev-1", lookup, nil)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess.now = func() time.Time { return now }

	if _, err := sess.Submit(context.Background(), "AST-1"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Rescanning the same label inside the window serves the cached hit.
	if _, err := sess.Submit(context.Background(), "AST-1"); err != nil {
		t.Fatalf("Submit(rescan) error = %v", err)
	}
	if lookup.count() != 1 {
		t.Fatalf("lookup calls = %d, want cached rescan", lookup.count())
	}

	now = now.Add(lookupCacheTTL)
	if _, err := sess.Submit(context.Background(), "AST-1"); err != nil {
		t.Fatalf("Submit(stale) error = %v", err)
	}
	if lookup.count() != 2 {
		t.Fatalf("lookup calls = %d, want refetch after ttl", lookup.count())
	}
}

func TestSubmitLastRequestWins(t *testing.T) {
	started := make(chan string, 2)
	sess := NewSession("t-1", "dev-1", lookupFunc(func(ctx context.Context, _ string, code string) (ports.AssetRecord, error) {
		started <- code
		if code == "AST-SLOW" {
			<-ctx.Done()
			return ports.AssetRecord{}, ctx.Err()
		}
		return ports.AssetRecord{AssetID: "id-" + code}, nil
	}), nil)

	slowErr := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background(), "AST-SLOW")
		slowErr <- err
	}()
	<-started

	state, err := sess.Submit(context.Background(), "AST-FAST")
	if err != nil {
		t.Fatalf("Submit(fast) error = %v", err)
	}
	if state != StateFound {
		t.Fatalf("Submit(fast) state = %q", state)
	}

	if err := <-slowErr; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("Submit(slow) error = %v, want ErrSuperseded", err)
	}

	// The superseded lookup must not have overwritten the newer result.
	state, _, result := sess.Snapshot()
	if state != StateFound || result.AssetID != "id-AST-FAST" {
		t.Fatalf("Snapshot() = %q %+v", state, result)
	}
}

func TestManagerExclusiveOwnership(t *testing.T) {
	manager := NewManager(lookupFunc(func(context.Context, string, string) (ports.AssetRecord, error) {
		return ports.AssetRecord{}, nil
	}), nil, nil)

	first, err := manager.Acquire("t-1", "dev-1")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if _, err := manager.Acquire("t-1", "dev-1"); !errors.Is(err, ErrDeviceBusy) {
		t.Fatalf("Acquire(busy) error = %v", err)
	}

	manager.Release(first)
	second, err := manager.Acquire("t-1", "dev-1")
	if err != nil {
		t.Fatalf("Acquire(after release) error = %v", err)
	}

	// A stale release must not evict the current owner.
	manager.Release(first)
	if !manager.Active("dev-1") {
		t.Fatalf("stale release evicted the current session")
	}
	manager.Release(second)
	if manager.Active("dev-1") {
		t.Fatalf("device still active after release")
	}
}
