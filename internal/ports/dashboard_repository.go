package ports

import "context"

type DashboardCounts struct {
	ActiveAssets      int64
	MaintenanceAssets int64
	DisposedAssets    int64
	Kitchens          int64
	Supplies          int64
	ExpiringSupplies  int64
	LowStockSupplies  int64
	ActiveTrips       int64
}

type SpendTotals struct {
	AssetPurchases float64
	RefillCosts    float64
	DisposalCosts  float64
	TripCosts      float64
}

// DashboardRepository serves the aggregate queries behind the dashboard
// endpoints.
type DashboardRepository interface {
	Counts(ctx context.Context, tenantID string, expiringBefore string) (DashboardCounts, error)
	TotalSpent(ctx context.Context, tenantID string, from string, to string) (SpendTotals, error)
}
