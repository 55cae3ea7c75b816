package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"opsdeck/internal/errs"
	"opsdeck/internal/infrastructure/persistence/sqlite/model"
	"opsdeck/internal/ports"
)

type AssetRepository struct {
	db *gorm.DB
}

var _ ports.AssetRepository = (*AssetRepository)(nil)

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) CreateAsset(ctx context.Context, asset ports.AssetRecord) (ports.AssetRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.AssetRecord{}, err
	}

	row := assetRow(asset)
	if err := db.Create(&row).Error; err != nil {
		return ports.AssetRecord{}, errs.Wrap(err, "insert asset")
	}
	return mapAsset(row), nil
}

func (r *AssetRepository) GetAsset(ctx context.Context, tenantID string, assetID string) (ports.AssetRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.AssetRecord{}, err
	}

	var row model.Asset
	if err := db.Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AssetRecord{}, ports.ErrAssetNotFound
		}
		return ports.AssetRecord{}, errs.Wrap(err, "query asset by id")
	}
	return mapAsset(row), nil
}

func (r *AssetRepository) FindAssetByCode(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.AssetRecord{}, err
	}

	var row model.Asset
	if err := db.
		Where("tenant_id = ?", tenantID).
		Where("barcode = ? OR asset_id = ? OR name = ?", code, code, code).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AssetRecord{}, ports.ErrAssetNotFound
		}
		return ports.AssetRecord{}, errs.Wrap(err, "query asset by code")
	}
	return mapAsset(row), nil
}

func (r *AssetRepository) SearchAssets(ctx context.Context, filter ports.AssetFilter) ([]ports.AssetRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Asset{}).Where("tenant_id = ?", filter.TenantID)
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR barcode LIKE ? OR category LIKE ?", pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []model.Asset
	if err := query.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "search assets")
	}

	items := make([]ports.AssetRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapAsset(row))
	}
	return items, nil
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, tenantID string, assetID string, update ports.AssetUpdate) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	assignments := map[string]any{"updated_at": update.UpdatedAt}
	if update.Name != nil {
		assignments["name"] = *update.Name
	}
	if update.Category != nil {
		assignments["category"] = *update.Category
	}
	if update.Status != nil {
		assignments["status"] = *update.Status
	}
	if update.Floor != nil {
		assignments["floor"] = *update.Floor
	}
	if update.Room != nil {
		assignments["room"] = *update.Room
	}
	if update.PurchasePrice != nil {
		assignments["purchase_price"] = *update.PurchasePrice
	}

	result := db.Model(&model.Asset{}).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Updates(assignments)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update asset")
	}
	if result.RowsAffected == 0 {
		return ports.ErrAssetNotFound
	}
	return nil
}

func (r *AssetRepository) MoveAsset(ctx context.Context, tenantID string, assetID string, floor string, room string, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Asset{}).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Updates(map[string]any{
			"floor":      floor,
			"room":       room,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "move asset")
	}
	if result.RowsAffected == 0 {
		return ports.ErrAssetNotFound
	}
	return nil
}

func (r *AssetRepository) MarkAssetDisposed(ctx context.Context, tenantID string, assetID string, reason string, disposedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Asset{}).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Updates(map[string]any{
			"status":          "disposed",
			"disposed_at":     disposedAt,
			"disposal_reason": reason,
			"updated_at":      disposedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "mark asset disposed")
	}
	if result.RowsAffected == 0 {
		return ports.ErrAssetNotFound
	}
	return nil
}

func assetRow(asset ports.AssetRecord) model.Asset {
	return model.Asset{
		AssetID:        asset.AssetID,
		TenantID:       asset.TenantID,
		Name:           asset.Name,
		Barcode:        asset.Barcode,
		Category:       asset.Category,
		Status:         asset.Status,
		Floor:          asset.Floor,
		Room:           asset.Room,
		PurchasePrice:  asset.PurchasePrice,
		PurchasedAt:    asset.PurchasedAt,
		DisposedAt:     asset.DisposedAt,
		DisposalReason: asset.DisposalReason,
		CreatedAt:      asset.CreatedAt,
		UpdatedAt:      asset.UpdatedAt,
	}
}

func mapAsset(row model.Asset) ports.AssetRecord {
	return ports.AssetRecord{
		AssetID:        row.AssetID,
		TenantID:       row.TenantID,
		Name:           row.Name,
		Barcode:        row.Barcode,
		Category:       row.Category,
		Status:         row.Status,
		Floor:          row.Floor,
		Room:           row.Room,
		PurchasePrice:  row.PurchasePrice,
		PurchasedAt:    row.PurchasedAt,
		DisposedAt:     row.DisposedAt,
		DisposalReason: row.DisposalReason,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
