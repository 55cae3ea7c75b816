package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"opsdeck/internal/errs"
	"opsdeck/internal/infrastructure/persistence/sqlite/model"
	"opsdeck/internal/ports"
)

type KitchenRepository struct {
	db *gorm.DB
}

var _ ports.KitchenRepository = (*KitchenRepository)(nil)

func NewKitchenRepository(db *gorm.DB) *KitchenRepository {
	return &KitchenRepository{db: db}
}

func (r *KitchenRepository) CreateKitchen(ctx context.Context, kitchen ports.KitchenRecord) (ports.KitchenRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.KitchenRecord{}, err
	}

	row := model.Kitchen{
		KitchenID: kitchen.KitchenID,
		TenantID:  kitchen.TenantID,
		Name:      kitchen.Name,
		Location:  kitchen.Location,
		CreatedAt: kitchen.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.KitchenRecord{}, errs.Wrap(err, "insert kitchen")
	}
	return mapKitchen(row), nil
}

func (r *KitchenRepository) GetKitchen(ctx context.Context, tenantID string, kitchenID string) (ports.KitchenRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.KitchenRecord{}, err
	}

	var row model.Kitchen
	if err := db.Where("tenant_id = ? AND kitchen_id = ?", tenantID, kitchenID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.KitchenRecord{}, ports.ErrKitchenNotFound
		}
		return ports.KitchenRecord{}, errs.Wrap(err, "query kitchen")
	}
	return mapKitchen(row), nil
}

func (r *KitchenRepository) ListKitchens(ctx context.Context, tenantID string) ([]ports.KitchenRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Kitchen
	if err := db.Where("tenant_id = ?", tenantID).Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query kitchens")
	}

	items := make([]ports.KitchenRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapKitchen(row))
	}
	return items, nil
}

func (r *KitchenRepository) CreateSupply(ctx context.Context, supply ports.FoodSupplyRecord) (ports.FoodSupplyRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.FoodSupplyRecord{}, err
	}

	row := supplyRow(supply)
	if err := db.Create(&row).Error; err != nil {
		return ports.FoodSupplyRecord{}, errs.Wrap(err, "insert food supply")
	}
	return mapSupply(row), nil
}

func (r *KitchenRepository) GetSupply(ctx context.Context, tenantID string, supplyID string) (ports.FoodSupplyRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.FoodSupplyRecord{}, err
	}

	var row model.FoodSupply
	if err := db.Where("tenant_id = ? AND supply_id = ?", tenantID, supplyID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.FoodSupplyRecord{}, ports.ErrSupplyNotFound
		}
		return ports.FoodSupplyRecord{}, errs.Wrap(err, "query food supply")
	}
	return mapSupply(row), nil
}

func (r *KitchenRepository) ListSupplies(ctx context.Context, tenantID string, filter ports.SupplyFilter) ([]ports.FoodSupplyRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.FoodSupply{}).Where("tenant_id = ?", tenantID)
	if filter.KitchenID != "" {
		query = query.Where("kitchen_id = ?", filter.KitchenID)
	}
	if filter.ExpiringBefore != "" {
		query = query.Where("expires_at != '' AND expires_at < ?", filter.ExpiringBefore)
	}
	if filter.LowStock {
		query = query.Where("min_quantity > 0 AND quantity <= min_quantity")
	}

	var rows []model.FoodSupply
	if err := query.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query food supplies")
	}

	items := make([]ports.FoodSupplyRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapSupply(row))
	}
	return items, nil
}

func (r *KitchenRepository) UpdateSupplyStock(ctx context.Context, tenantID string, supplyID string, quantity float64, expiresAt string, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.FoodSupply{}).
		Where("tenant_id = ? AND supply_id = ?", tenantID, supplyID).
		Updates(map[string]any{
			"quantity":   quantity,
			"expires_at": expiresAt,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update supply stock")
	}
	if result.RowsAffected == 0 {
		return ports.ErrSupplyNotFound
	}
	return nil
}

func (r *KitchenRepository) CreateDisposal(ctx context.Context, disposal ports.FoodDisposalRecord) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.FoodDisposal{
		DisposalID: disposal.DisposalID,
		TenantID:   disposal.TenantID,
		KitchenID:  disposal.KitchenID,
		SupplyID:   disposal.SupplyID,
		SupplyName: disposal.SupplyName,
		Quantity:   disposal.Quantity,
		Unit:       disposal.Unit,
		Reason:     disposal.Reason,
		Cost:       disposal.Cost,
		DisposedAt: disposal.DisposedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert food disposal")
	}
	return nil
}

func (r *KitchenRepository) ListDisposals(ctx context.Context, tenantID string, filter ports.DisposalFilter) ([]ports.FoodDisposalRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.FoodDisposal{}).Where("tenant_id = ?", tenantID)
	if filter.KitchenID != "" {
		query = query.Where("kitchen_id = ?", filter.KitchenID)
	}
	if filter.From != "" {
		query = query.Where("disposed_at >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("disposed_at < ?", filter.To)
	}

	var rows []model.FoodDisposal
	if err := query.Order("disposed_at desc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query food disposals")
	}

	items := make([]ports.FoodDisposalRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.FoodDisposalRecord{
			DisposalID: row.DisposalID,
			TenantID:   row.TenantID,
			KitchenID:  row.KitchenID,
			SupplyID:   row.SupplyID,
			SupplyName: row.SupplyName,
			Quantity:   row.Quantity,
			Unit:       row.Unit,
			Reason:     row.Reason,
			Cost:       row.Cost,
			DisposedAt: row.DisposedAt,
		})
	}
	return items, nil
}

func (r *KitchenRepository) CreateRefill(ctx context.Context, refill ports.FoodRefillRecord) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.FoodRefill{
		RefillID:   refill.RefillID,
		TenantID:   refill.TenantID,
		KitchenID:  refill.KitchenID,
		SupplyID:   refill.SupplyID,
		Quantity:   refill.Quantity,
		Cost:       refill.Cost,
		RefilledAt: refill.RefilledAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert food refill")
	}
	return nil
}

func (r *KitchenRepository) CreateRecipe(ctx context.Context, recipe ports.RecipeRecord) (ports.RecipeRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.RecipeRecord{}, err
	}

	row := model.Recipe{
		RecipeID:        recipe.RecipeID,
		TenantID:        recipe.TenantID,
		KitchenID:       recipe.KitchenID,
		Name:            recipe.Name,
		Servings:        recipe.Servings,
		IngredientsJSON: recipe.IngredientsJSON,
		CreatedAt:       recipe.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.RecipeRecord{}, errs.Wrap(err, "insert recipe")
	}
	return mapRecipe(row), nil
}

func (r *KitchenRepository) ListRecipes(ctx context.Context, tenantID string, kitchenID string) ([]ports.RecipeRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Recipe{}).Where("tenant_id = ?", tenantID)
	if kitchenID != "" {
		query = query.Where("kitchen_id = ?", kitchenID)
	}

	var rows []model.Recipe
	if err := query.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query recipes")
	}

	items := make([]ports.RecipeRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapRecipe(row))
	}
	return items, nil
}

func mapKitchen(row model.Kitchen) ports.KitchenRecord {
	return ports.KitchenRecord{
		KitchenID: row.KitchenID,
		TenantID:  row.TenantID,
		Name:      row.Name,
		Location:  row.Location,
		CreatedAt: row.CreatedAt,
	}
}

func supplyRow(supply ports.FoodSupplyRecord) model.FoodSupply {
	return model.FoodSupply{
		SupplyID:    supply.SupplyID,
		TenantID:    supply.TenantID,
		KitchenID:   supply.KitchenID,
		Name:        supply.Name,
		Category:    supply.Category,
		Quantity:    supply.Quantity,
		Unit:        supply.Unit,
		CostPerUnit: supply.CostPerUnit,
		MinQuantity: supply.MinQuantity,
		ExpiresAt:   supply.ExpiresAt,
		CreatedAt:   supply.CreatedAt,
		UpdatedAt:   supply.UpdatedAt,
	}
}

func mapSupply(row model.FoodSupply) ports.FoodSupplyRecord {
	return ports.FoodSupplyRecord{
		SupplyID:    row.SupplyID,
		TenantID:    row.TenantID,
		KitchenID:   row.KitchenID,
		Name:        row.Name,
		Category:    row.Category,
		Quantity:    row.Quantity,
		Unit:        row.Unit,
		CostPerUnit: row.CostPerUnit,
		MinQuantity: row.MinQuantity,
		ExpiresAt:   row.ExpiresAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapRecipe(row model.Recipe) ports.RecipeRecord {
	return ports.RecipeRecord{
		RecipeID:        row.RecipeID,
		TenantID:        row.TenantID,
		KitchenID:       row.KitchenID,
		Name:            row.Name,
		Servings:        row.Servings,
		IngredientsJSON: row.IngredientsJSON,
		CreatedAt:       row.CreatedAt,
	}
}
