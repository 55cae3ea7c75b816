package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"opsdeck/internal/domain/asset"
	"opsdeck/internal/ports"
)

// fakeAssetRepo drives the service through function fields so tests can
// observe calls and force failures.
type fakeAssetRepo struct {
	ports.AssetRepository

	findByCode func(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error)
	search     func(ctx context.Context, filter ports.AssetFilter) ([]ports.AssetRecord, error)
	get        func(ctx context.Context, tenantID string, assetID string) (ports.AssetRecord, error)
	dispose    func(ctx context.Context, tenantID string, assetID string, reason string, disposedAt string) error
}

func (f *fakeAssetRepo) FindAssetByCode(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error) {
	return f.findByCode(ctx, tenantID, code)
}

func (f *fakeAssetRepo) SearchAssets(ctx context.Context, filter ports.AssetFilter) ([]ports.AssetRecord, error) {
	return f.search(ctx, filter)
}

func (f *fakeAssetRepo) GetAsset(ctx context.Context, tenantID string, assetID string) (ports.AssetRecord, error) {
	return f.get(ctx, tenantID, assetID)
}

func (f *fakeAssetRepo) MarkAssetDisposed(ctx context.Context, tenantID string, assetID string, reason string, disposedAt string) error {
	return f.dispose(ctx, tenantID, assetID, reason, disposedAt)
}

type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ any) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func TestLookupFastPathHit(t *testing.T) {
	repo := &fakeAssetRepo{
		findByCode: func(_ context.Context, _ string, code string) (ports.AssetRecord, error) {
			if code != "AST-1" {
				t.Fatalf("FindAssetByCode code = %q, want normalized AST-1", code)
			}
			return ports.AssetRecord{AssetID: "a-1", Name: "Oven"}, nil
		},
		search: func(context.Context, ports.AssetFilter) ([]ports.AssetRecord, error) {
			t.Fatalf("search fallback must not run on a fast path hit")
			return nil, nil
		},
	}
	svc := NewService(repo, nil, nil)

	got, err := svc.Lookup(context.Background(), "t-1", "  ast-1 ")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.AssetID != "a-1" {
		t.Fatalf("Lookup() = %+v", got)
	}
}

func TestLookupCleanMissDoesNotFallBack(t *testing.T) {
	repo := &fakeAssetRepo{
		findByCode: func(context.Context, string, string) (ports.AssetRecord, error) {
			return ports.AssetRecord{}, ports.ErrAssetNotFound
		},
		search: func(context.Context, ports.AssetFilter) ([]ports.AssetRecord, error) {
			t.Fatalf("search fallback must not run on a clean miss")
			return nil, nil
		},
	}
	svc := NewService(repo, nil, nil)

	_, err := svc.Lookup(context.Background(), "t-1", "AST-404")
	if !errors.Is(err, ports.ErrAssetNotFound) {
		t.Fatalf("Lookup() error = %v, want ErrAssetNotFound", err)
	}
}

func TestLookupFallsBackOnFastPathFailure(t *testing.T) {
	repo := &fakeAssetRepo{
		findByCode: func(context.Context, string, string) (ports.AssetRecord, error) {
			return ports.AssetRecord{}, errors.New("index corrupt")
		},
		search: func(_ context.Context, filter ports.AssetFilter) ([]ports.AssetRecord, error) {
			if filter.Search != "AST-1" || filter.Limit != 1 {
				t.Fatalf("fallback filter = %+v", filter)
			}
			return []ports.AssetRecord{{AssetID: "a-1"}}, nil
		},
	}
	svc := NewService(repo, nil, nil)

	got, err := svc.Lookup(context.Background(), "t-1", "AST-1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.AssetID != "a-1" {
		t.Fatalf("Lookup() fallback = %+v", got)
	}
}

func TestDisposePublishesAndRejectsRepeat(t *testing.T) {
	status := asset.StatusActive
	repo := &fakeAssetRepo{
		get: func(context.Context, string, string) (ports.AssetRecord, error) {
			return ports.AssetRecord{AssetID: "a-1", Status: status}, nil
		},
		dispose: func(_ context.Context, _ string, _ string, reason string, _ string) error {
			if reason != "broken" {
				t.Fatalf("dispose reason = %q", reason)
			}
			status = asset.StatusDisposed
			return nil
		},
	}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	if err := svc.Dispose(context.Background(), "t-1", "a-1", " broken "); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if len(pub.subjects) != 1 || pub.subjects[0] != "asset.disposed" {
		t.Fatalf("published subjects = %v", pub.subjects)
	}

	if err := svc.Dispose(context.Background(), "t-1", "a-1", "broken"); !errors.Is(err, asset.ErrAlreadyDisposed) {
		t.Fatalf("Dispose(repeat) error = %v", err)
	}

	if err := svc.Dispose(context.Background(), "t-1", "a-1", "  "); !errors.Is(err, asset.ErrDisposalReason) {
		t.Fatalf("Dispose(no reason) error = %v", err)
	}
}

func TestUpdateRejectsIllegalTransition(t *testing.T) {
	repo := &fakeAssetRepo{
		get: func(context.Context, string, string) (ports.AssetRecord, error) {
			return ports.AssetRecord{AssetID: "a-1", Status: asset.StatusDisposed}, nil
		},
	}
	svc := NewService(repo, nil, nil)

	next := asset.StatusActive
	_, err := svc.Update(context.Background(), "t-1", "a-1", UpdateAssetInput{Status: &next})
	if !errors.Is(err, asset.ErrAlreadyDisposed) {
		t.Fatalf("Update(disposed asset) error = %v", err)
	}
}
