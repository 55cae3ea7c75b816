package repository

import (
	"context"

	"gorm.io/gorm"

	"opsdeck/internal/domain/asset"
	"opsdeck/internal/domain/trip"
	"opsdeck/internal/errs"
	"opsdeck/internal/infrastructure/persistence/sqlite/model"
	"opsdeck/internal/ports"
)

type DashboardRepository struct {
	db *gorm.DB
}

var _ ports.DashboardRepository = (*DashboardRepository)(nil)

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Counts(ctx context.Context, tenantID string, expiringBefore string) (ports.DashboardCounts, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.DashboardCounts{}, err
	}

	var counts ports.DashboardCounts

	assetCounts := []struct {
		status string
		target *int64
	}{
		{asset.StatusActive, &counts.ActiveAssets},
		{asset.StatusMaintenance, &counts.MaintenanceAssets},
		{asset.StatusDisposed, &counts.DisposedAssets},
	}
	for _, c := range assetCounts {
		if err := db.Model(&model.Asset{}).
			Where("tenant_id = ? AND status = ?", tenantID, c.status).
			Count(c.target).Error; err != nil {
			return ports.DashboardCounts{}, errs.Wrapf(err, "count %s assets", c.status)
		}
	}

	if err := db.Model(&model.Kitchen{}).
		Where("tenant_id = ?", tenantID).
		Count(&counts.Kitchens).Error; err != nil {
		return ports.DashboardCounts{}, errs.Wrap(err, "count kitchens")
	}

	if err := db.Model(&model.FoodSupply{}).
		Where("tenant_id = ?", tenantID).
		Count(&counts.Supplies).Error; err != nil {
		return ports.DashboardCounts{}, errs.Wrap(err, "count food supplies")
	}

	if expiringBefore != "" {
		if err := db.Model(&model.FoodSupply{}).
			Where("tenant_id = ? AND expires_at != '' AND expires_at < ?", tenantID, expiringBefore).
			Count(&counts.ExpiringSupplies).Error; err != nil {
			return ports.DashboardCounts{}, errs.Wrap(err, "count expiring supplies")
		}
	}

	if err := db.Model(&model.FoodSupply{}).
		Where("tenant_id = ? AND min_quantity > 0 AND quantity <= min_quantity", tenantID).
		Count(&counts.LowStockSupplies).Error; err != nil {
		return ports.DashboardCounts{}, errs.Wrap(err, "count low stock supplies")
	}

	if err := db.Model(&model.Trip{}).
		Where("tenant_id = ? AND status = ?", tenantID, trip.StatusActive).
		Count(&counts.ActiveTrips).Error; err != nil {
		return ports.DashboardCounts{}, errs.Wrap(err, "count active trips")
	}

	return counts, nil
}

func (r *DashboardRepository) TotalSpent(ctx context.Context, tenantID string, from string, to string) (ports.SpendTotals, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.SpendTotals{}, err
	}

	var totals ports.SpendTotals

	if err := rangeQuery(db.Model(&model.Asset{}).Where("tenant_id = ?", tenantID), "purchased_at", from, to).
		Select("COALESCE(SUM(purchase_price), 0)").
		Scan(&totals.AssetPurchases).Error; err != nil {
		return ports.SpendTotals{}, errs.Wrap(err, "sum asset purchases")
	}

	if err := rangeQuery(db.Model(&model.FoodRefill{}).Where("tenant_id = ?", tenantID), "refilled_at", from, to).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&totals.RefillCosts).Error; err != nil {
		return ports.SpendTotals{}, errs.Wrap(err, "sum refill costs")
	}

	if err := rangeQuery(db.Model(&model.FoodDisposal{}).Where("tenant_id = ?", tenantID), "disposed_at", from, to).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&totals.DisposalCosts).Error; err != nil {
		return ports.SpendTotals{}, errs.Wrap(err, "sum disposal costs")
	}

	if err := rangeQuery(
		db.Model(&model.Trip{}).Where("tenant_id = ? AND status = ?", tenantID, trip.StatusEnded),
		"ended_at", from, to,
	).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&totals.TripCosts).Error; err != nil {
		return ports.SpendTotals{}, errs.Wrap(err, "sum trip costs")
	}

	return totals, nil
}

// rangeQuery applies a half-open [from, to) window on a text timestamp
// column; empty bounds are skipped.
func rangeQuery(query *gorm.DB, column string, from string, to string) *gorm.DB {
	if from != "" {
		query = query.Where(column+" >= ?", from)
	}
	if to != "" {
		query = query.Where(column+" < ?", to)
	}
	return query
}
