package ports

import (
	"context"
	"errors"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetRecord struct {
	AssetID        string
	TenantID       string
	Name           string
	Barcode        string
	Category       string
	Status         string
	Floor          string
	Room           string
	PurchasePrice  float64
	PurchasedAt    string
	DisposedAt     *string
	DisposalReason *string
	CreatedAt      string
	UpdatedAt      string
}

type AssetFilter struct {
	TenantID string
	Search   string
	Status   string
	Limit    int
}

// AssetUpdate carries a partial update; nil fields are left unchanged.
type AssetUpdate struct {
	Name          *string
	Category      *string
	Status        *string
	Floor         *string
	Room          *string
	PurchasePrice *float64
	UpdatedAt     string
}

type AssetRepository interface {
	CreateAsset(ctx context.Context, asset AssetRecord) (AssetRecord, error)
	GetAsset(ctx context.Context, tenantID string, assetID string) (AssetRecord, error)
	// FindAssetByCode resolves the scan fast path: an exact match on
	// barcode, asset id, or name.
	FindAssetByCode(ctx context.Context, tenantID string, code string) (AssetRecord, error)
	SearchAssets(ctx context.Context, filter AssetFilter) ([]AssetRecord, error)
	UpdateAsset(ctx context.Context, tenantID string, assetID string, update AssetUpdate) error
	MoveAsset(ctx context.Context, tenantID string, assetID string, floor string, room string, updatedAt string) error
	MarkAssetDisposed(ctx context.Context, tenantID string, assetID string, reason string, disposedAt string) error
}
