package ports

import (
	"context"
	"errors"
)

var (
	ErrKitchenNotFound = errors.New("kitchen not found")
	ErrSupplyNotFound  = errors.New("food supply not found")
)

type KitchenRecord struct {
	KitchenID string
	TenantID  string
	Name      string
	Location  string
	CreatedAt string
}

type FoodSupplyRecord struct {
	SupplyID    string
	TenantID    string
	KitchenID   string
	Name        string
	Category    string
	Quantity    float64
	Unit        string
	CostPerUnit float64
	MinQuantity float64
	ExpiresAt   string
	CreatedAt   string
	UpdatedAt   string
}

type FoodDisposalRecord struct {
	DisposalID string
	TenantID   string
	KitchenID  string
	SupplyID   string
	SupplyName string
	Quantity   float64
	Unit       string
	Reason     string
	Cost       float64
	DisposedAt string
}

type FoodRefillRecord struct {
	RefillID   string
	TenantID   string
	KitchenID  string
	SupplyID   string
	Quantity   float64
	Cost       float64
	RefilledAt string
}

type RecipeRecord struct {
	RecipeID        string
	TenantID        string
	KitchenID       string
	Name            string
	Servings        int
	IngredientsJSON string
	CreatedAt       string
}

type SupplyFilter struct {
	KitchenID string
	// ExpiringBefore keeps only supplies whose expiry falls before this
	// RFC3339 timestamp. Empty disables the filter.
	ExpiringBefore string
	LowStock       bool
}

type DisposalFilter struct {
	KitchenID string
	From      string
	To        string
}

type KitchenRepository interface {
	CreateKitchen(ctx context.Context, kitchen KitchenRecord) (KitchenRecord, error)
	GetKitchen(ctx context.Context, tenantID string, kitchenID string) (KitchenRecord, error)
	ListKitchens(ctx context.Context, tenantID string) ([]KitchenRecord, error)

	CreateSupply(ctx context.Context, supply FoodSupplyRecord) (FoodSupplyRecord, error)
	GetSupply(ctx context.Context, tenantID string, supplyID string) (FoodSupplyRecord, error)
	ListSupplies(ctx context.Context, tenantID string, filter SupplyFilter) ([]FoodSupplyRecord, error)
	UpdateSupplyStock(ctx context.Context, tenantID string, supplyID string, quantity float64, expiresAt string, updatedAt string) error

	CreateDisposal(ctx context.Context, disposal FoodDisposalRecord) error
	ListDisposals(ctx context.Context, tenantID string, filter DisposalFilter) ([]FoodDisposalRecord, error)

	CreateRefill(ctx context.Context, refill FoodRefillRecord) error

	CreateRecipe(ctx context.Context, recipe RecipeRecord) (RecipeRecord, error)
	ListRecipes(ctx context.Context, tenantID string, kitchenID string) ([]RecipeRecord, error)
}
