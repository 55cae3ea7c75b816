package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"opsdeck/internal/domain/kitchen"
	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
)

type Config struct {
	StatsTTL     time.Duration
	ExpiryWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.StatsTTL <= 0 {
		c.StatsTTL = 2 * time.Minute
	}
	if c.ExpiryWindow <= 0 {
		c.ExpiryWindow = kitchen.DefaultExpiryWindow
	}
	return c
}

// Stats is the aggregate snapshot behind the dashboard landing view.
type Stats struct {
	Assets struct {
		Active      int64 `json:"active"`
		Maintenance int64 `json:"maintenance"`
		Disposed    int64 `json:"disposed"`
	} `json:"assets"`
	Kitchens         int64  `json:"kitchens"`
	Supplies         int64  `json:"supplies"`
	ExpiringSupplies int64  `json:"expiringSupplies"`
	LowStockSupplies int64  `json:"lowStockSupplies"`
	ActiveTrips      int64  `json:"activeTrips"`
	GeneratedAt      string `json:"generatedAt"`
}

// TotalSpent breaks spending in a period down by source.
type TotalSpent struct {
	AssetPurchases float64 `json:"assetPurchases"`
	RefillCosts    float64 `json:"refillCosts"`
	DisposalCosts  float64 `json:"disposalCosts"`
	TripCosts      float64 `json:"tripCosts"`
	Total          float64 `json:"total"`
	From           string  `json:"from"`
	To             string  `json:"to"`
}

// Service serves dashboard aggregates through the request cache so a tenant
// hammering the landing view costs one aggregate query per TTL window.
type Service struct {
	repo  ports.DashboardRepository
	cache ports.RequestCache
	cfg   Config

	now func() time.Time
}

func NewService(repo ports.DashboardRepository, cache ports.RequestCache, cfg Config) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		cfg:   cfg.withDefaults(),
		now:   time.Now,
	}
}

func (s *Service) Stats(ctx context.Context, tenantID string, force bool) (Stats, error) {
	if ctx == nil {
		return Stats{}, errors.New("context is required")
	}
	if tenantID == "" {
		return Stats{}, errors.New("tenant id is required")
	}

	fetch := func(ctx context.Context) (string, error) {
		counts, err := s.repo.Counts(ctx, tenantID, s.expiringBefore())
		if err != nil {
			return "", errs.Wrap(err, "dashboard counts")
		}

		var stats Stats
		stats.Assets.Active = counts.ActiveAssets
		stats.Assets.Maintenance = counts.MaintenanceAssets
		stats.Assets.Disposed = counts.DisposedAssets
		stats.Kitchens = counts.Kitchens
		stats.Supplies = counts.Supplies
		stats.ExpiringSupplies = counts.ExpiringSupplies
		stats.LowStockSupplies = counts.LowStockSupplies
		stats.ActiveTrips = counts.ActiveTrips
		stats.GeneratedAt = s.now().UTC().Format(time.RFC3339Nano)

		data, err := json.Marshal(stats)
		if err != nil {
			return "", errs.Wrap(err, "marshal dashboard stats")
		}
		return string(data), nil
	}

	key := statsKey(tenantID)
	var raw string
	var err error
	if force {
		raw, err = s.cache.Refresh(ctx, key, s.cfg.StatsTTL, fetch)
	} else {
		raw, err = s.cache.GetOrFetch(ctx, key, s.cfg.StatsTTL, fetch)
	}
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return Stats{}, errs.Wrap(err, "unmarshal dashboard stats")
	}
	return stats, nil
}

// Spent sums spending between from and to (RFC3339, half-open). An empty
// range defaults to the last 30 days.
func (s *Service) Spent(ctx context.Context, tenantID string, from string, to string) (TotalSpent, error) {
	if ctx == nil {
		return TotalSpent{}, errors.New("context is required")
	}
	if tenantID == "" {
		return TotalSpent{}, errors.New("tenant id is required")
	}

	if to == "" {
		to = s.now().UTC().Format(time.RFC3339Nano)
	}
	if from == "" {
		end, err := time.Parse(time.RFC3339Nano, to)
		if err != nil {
			return TotalSpent{}, errs.Wrap(err, "parse range end")
		}
		from = end.Add(-30 * 24 * time.Hour).Format(time.RFC3339Nano)
	}
	if _, err := time.Parse(time.RFC3339Nano, from); err != nil {
		return TotalSpent{}, errs.Wrap(err, "parse range start")
	}

	fetch := func(ctx context.Context) (string, error) {
		totals, err := s.repo.TotalSpent(ctx, tenantID, from, to)
		if err != nil {
			return "", errs.Wrap(err, "total spent")
		}
		spent := TotalSpent{
			AssetPurchases: totals.AssetPurchases,
			RefillCosts:    totals.RefillCosts,
			DisposalCosts:  totals.DisposalCosts,
			TripCosts:      totals.TripCosts,
			Total:          totals.AssetPurchases + totals.RefillCosts + totals.DisposalCosts + totals.TripCosts,
			From:           from,
			To:             to,
		}
		data, err := json.Marshal(spent)
		if err != nil {
			return "", errs.Wrap(err, "marshal total spent")
		}
		return string(data), nil
	}

	raw, err := s.cache.GetOrFetch(ctx, spentKey(tenantID, from, to), s.cfg.StatsTTL, fetch)
	if err != nil {
		return TotalSpent{}, err
	}

	var spent TotalSpent
	if err := json.Unmarshal([]byte(raw), &spent); err != nil {
		return TotalSpent{}, errs.Wrap(err, "unmarshal total spent")
	}
	return spent, nil
}

func (s *Service) expiringBefore() string {
	return s.now().UTC().Add(s.cfg.ExpiryWindow).Format(time.RFC3339Nano)
}

func statsKey(tenantID string) string {
	return "dashboard:" + tenantID + ":stats"
}

func spentKey(tenantID string, from string, to string) string {
	return "dashboard:" + tenantID + ":spent:" + from + ":" + to
}
