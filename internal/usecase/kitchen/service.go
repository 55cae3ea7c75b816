package kitchen

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"opsdeck/internal/bootstrap/logging"
	domain "opsdeck/internal/domain/kitchen"
	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
)

const (
	defaultNotificationsTTL = time.Minute
	defaultBundleTTL        = 5 * time.Minute
)

type Config struct {
	NotificationsTTL time.Duration
	BundleTTL        time.Duration
	ExpiryWindow     time.Duration
}

type Service struct {
	repo   ports.KitchenRepository
	uow    ports.UnitOfWork
	cache  ports.RequestCache
	events ports.EventPublisher

	notificationsTTL time.Duration
	bundleTTL        time.Duration
	expiryWindow     time.Duration

	now func() time.Time
}

func NewService(repo ports.KitchenRepository, uow ports.UnitOfWork, cache ports.RequestCache, events ports.EventPublisher, cfg Config) *Service {
	if cfg.NotificationsTTL <= 0 {
		cfg.NotificationsTTL = defaultNotificationsTTL
	}
	if cfg.BundleTTL <= 0 {
		cfg.BundleTTL = defaultBundleTTL
	}
	if cfg.ExpiryWindow <= 0 {
		cfg.ExpiryWindow = domain.DefaultExpiryWindow
	}

	return &Service{
		repo:             repo,
		uow:              uow,
		cache:            cache,
		events:           events,
		notificationsTTL: cfg.NotificationsTTL,
		bundleTTL:        cfg.BundleTTL,
		expiryWindow:     cfg.ExpiryWindow,
		now:              time.Now,
	}
}

type SupplyQuery struct {
	TenantID     string
	KitchenID    string
	ExpiringSoon bool
	LowStock     bool
}

func (s *Service) ListSupplies(ctx context.Context, query SupplyQuery) ([]ports.FoodSupplyRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	filter := ports.SupplyFilter{
		KitchenID: query.KitchenID,
		LowStock:  query.LowStock,
	}
	if query.ExpiringSoon {
		filter.ExpiringBefore = s.now().UTC().Add(s.expiryWindow).Format(time.RFC3339Nano)
	}
	return s.repo.ListSupplies(ctx, query.TenantID, filter)
}

func (s *Service) ListKitchens(ctx context.Context, tenantID string) ([]ports.KitchenRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListKitchens(ctx, tenantID)
}

func (s *Service) ListDisposals(ctx context.Context, tenantID string, filter ports.DisposalFilter) ([]ports.FoodDisposalRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListDisposals(ctx, tenantID, filter)
}

func (s *Service) ListRecipes(ctx context.Context, tenantID string, kitchenID string) ([]ports.RecipeRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListRecipes(ctx, tenantID, kitchenID)
}

type RefillInput struct {
	TenantID  string
	SupplyID  string
	Quantity  float64
	ExpiresAt string
}

type RefillResult struct {
	Supply           ports.FoodSupplyRecord
	DisposedQuantity float64
	DisposalCost     float64
}

// Refill restocks a supply and, when the current stock has passed its
// expiry, writes off the expired remainder as a disposal. Stock update,
// disposal and refill row commit atomically.
func (s *Service) Refill(ctx context.Context, input RefillInput) (RefillResult, error) {
	if ctx == nil {
		return RefillResult{}, errors.New("context is required")
	}
	if input.Quantity <= 0 {
		return RefillResult{}, domain.ErrInvalidQuantity
	}

	var result RefillResult
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		supply, err := s.repo.GetSupply(txCtx, input.TenantID, input.SupplyID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		nowText := now.Format(time.RFC3339Nano)

		expiresAt := parseTimestamp(supply.ExpiresAt)
		remainder := domain.ExpiredRemainder(supply.Quantity, expiresAt, now)

		newQuantity := supply.Quantity + input.Quantity
		if remainder > 0 {
			// Expired stock never carries over into the new batch.
			newQuantity = input.Quantity

			cost := domain.DisposalCost(remainder, supply.CostPerUnit)
			if err := s.repo.CreateDisposal(txCtx, ports.FoodDisposalRecord{
				DisposalID: uuid.NewString(),
				TenantID:   supply.TenantID,
				KitchenID:  supply.KitchenID,
				SupplyID:   supply.SupplyID,
				SupplyName: supply.Name,
				Quantity:   remainder,
				Unit:       supply.Unit,
				Reason:     domain.ReasonExpired,
				Cost:       cost,
				DisposedAt: nowText,
			}); err != nil {
				return errs.Wrap(err, "record expired remainder disposal")
			}
			result.DisposedQuantity = remainder
			result.DisposalCost = cost
		}

		newExpiry := supply.ExpiresAt
		if input.ExpiresAt != "" {
			newExpiry = input.ExpiresAt
		}

		if err := s.repo.UpdateSupplyStock(txCtx, input.TenantID, input.SupplyID, newQuantity, newExpiry, nowText); err != nil {
			return errs.Wrap(err, "update supply stock")
		}

		if err := s.repo.CreateRefill(txCtx, ports.FoodRefillRecord{
			RefillID:   uuid.NewString(),
			TenantID:   supply.TenantID,
			KitchenID:  supply.KitchenID,
			SupplyID:   supply.SupplyID,
			Quantity:   input.Quantity,
			Cost:       domain.DisposalCost(input.Quantity, supply.CostPerUnit),
			RefilledAt: nowText,
		}); err != nil {
			return errs.Wrap(err, "record refill")
		}

		supply.Quantity = newQuantity
		supply.ExpiresAt = newExpiry
		supply.UpdatedAt = nowText
		result.Supply = supply
		return nil
	})
	if err != nil {
		return RefillResult{}, err
	}

	s.publish(ctx, "kitchen.refilled", map[string]any{
		"tenantId":         input.TenantID,
		"supplyId":         input.SupplyID,
		"quantity":         input.Quantity,
		"disposedQuantity": result.DisposedQuantity,
	})
	s.invalidateAfterWrite(ctx, input.TenantID, result.Supply.KitchenID)
	return result, nil
}

type DisposeSupplyInput struct {
	TenantID string
	SupplyID string
	Quantity float64
	Reason   string
}

// DisposeSupply records waste against a supply and reduces its stock.
func (s *Service) DisposeSupply(ctx context.Context, input DisposeSupplyInput) (ports.FoodDisposalRecord, error) {
	if ctx == nil {
		return ports.FoodDisposalRecord{}, errors.New("context is required")
	}

	reason := strings.TrimSpace(input.Reason)
	if err := domain.ValidateDisposal(reason, input.Quantity); err != nil {
		return ports.FoodDisposalRecord{}, err
	}

	var disposal ports.FoodDisposalRecord
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		supply, err := s.repo.GetSupply(txCtx, input.TenantID, input.SupplyID)
		if err != nil {
			return err
		}
		if input.Quantity > supply.Quantity {
			return domain.ErrInvalidQuantity
		}

		nowText := s.now().UTC().Format(time.RFC3339Nano)
		disposal = ports.FoodDisposalRecord{
			DisposalID: uuid.NewString(),
			TenantID:   supply.TenantID,
			KitchenID:  supply.KitchenID,
			SupplyID:   supply.SupplyID,
			SupplyName: supply.Name,
			Quantity:   input.Quantity,
			Unit:       supply.Unit,
			Reason:     reason,
			Cost:       domain.DisposalCost(input.Quantity, supply.CostPerUnit),
			DisposedAt: nowText,
		}
		if err := s.repo.CreateDisposal(txCtx, disposal); err != nil {
			return errs.Wrap(err, "record disposal")
		}

		if err := s.repo.UpdateSupplyStock(txCtx, input.TenantID, input.SupplyID, supply.Quantity-input.Quantity, supply.ExpiresAt, nowText); err != nil {
			return errs.Wrap(err, "reduce supply stock")
		}
		return nil
	})
	if err != nil {
		return ports.FoodDisposalRecord{}, err
	}

	s.invalidateAfterWrite(ctx, input.TenantID, disposal.KitchenID)
	return disposal, nil
}

type Notifications struct {
	ExpiringSoon int `json:"expiringSoon"`
	LowStock     int `json:"lowStock"`
}

// Notifications serves the food-supply alert counters through the request
// cache so the widget polling every few seconds does not hammer the
// database.
func (s *Service) Notifications(ctx context.Context, tenantID string) (Notifications, error) {
	if ctx == nil {
		return Notifications{}, errors.New("context is required")
	}

	raw, err := s.cache.GetOrFetch(ctx, "notify:"+tenantID, s.notificationsTTL, func(fetchCtx context.Context) (string, error) {
		expiring, err := s.ListSupplies(fetchCtx, SupplyQuery{TenantID: tenantID, ExpiringSoon: true})
		if err != nil {
			return "", err
		}
		low, err := s.ListSupplies(fetchCtx, SupplyQuery{TenantID: tenantID, LowStock: true})
		if err != nil {
			return "", err
		}

		data, err := json.Marshal(Notifications{ExpiringSoon: len(expiring), LowStock: len(low)})
		if err != nil {
			return "", errs.Wrap(err, "marshal notifications")
		}
		return string(data), nil
	})
	if err != nil {
		return Notifications{}, err
	}

	var out Notifications
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Notifications{}, errs.Wrap(err, "unmarshal notifications")
	}
	return out, nil
}

type Bundle struct {
	Supplies []ports.FoodSupplyRecord `json:"supplies"`
	Recipes  []ports.RecipeRecord    `json:"recipes"`
}

// Bundle returns the resources a kitchen page needs in one call. Each
// sub-resource lives under its own cache key with its own timestamp, so
// one going stale does not force refetching the other.
func (s *Service) Bundle(ctx context.Context, tenantID string, kitchenID string, force bool) (Bundle, error) {
	if ctx == nil {
		return Bundle{}, errors.New("context is required")
	}

	if _, err := s.repo.GetKitchen(ctx, tenantID, kitchenID); err != nil {
		return Bundle{}, err
	}

	prefix := "kitchen:" + tenantID + ":" + kitchenID + ":"

	suppliesRaw, err := s.cached(ctx, prefix+"supplies", force, func(fetchCtx context.Context) (string, error) {
		supplies, err := s.repo.ListSupplies(fetchCtx, tenantID, ports.SupplyFilter{KitchenID: kitchenID})
		if err != nil {
			return "", err
		}
		return marshalJSON(supplies)
	})
	if err != nil {
		return Bundle{}, err
	}

	recipesRaw, err := s.cached(ctx, prefix+"recipes", force, func(fetchCtx context.Context) (string, error) {
		recipes, err := s.repo.ListRecipes(fetchCtx, tenantID, kitchenID)
		if err != nil {
			return "", err
		}
		return marshalJSON(recipes)
	})
	if err != nil {
		return Bundle{}, err
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(suppliesRaw), &bundle.Supplies); err != nil {
		return Bundle{}, errs.Wrap(err, "unmarshal cached supplies")
	}
	if err := json.Unmarshal([]byte(recipesRaw), &bundle.Recipes); err != nil {
		return Bundle{}, errs.Wrap(err, "unmarshal cached recipes")
	}
	return bundle, nil
}

func (s *Service) cached(ctx context.Context, key string, force bool, fetch ports.FetchFunc) (string, error) {
	if force {
		return s.cache.Refresh(ctx, key, s.bundleTTL, fetch)
	}
	return s.cache.GetOrFetch(ctx, key, s.bundleTTL, fetch)
}

func (s *Service) invalidateAfterWrite(ctx context.Context, tenantID string, kitchenID string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, "notify:"+tenantID)
	s.cache.InvalidatePrefix(ctx, "kitchen:"+tenantID+":"+kitchenID+":")
	s.cache.InvalidatePrefix(ctx, "dashboard:"+tenantID+":")
}

func (s *Service) publish(ctx context.Context, subject string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, subject, payload); err != nil {
		logging.Warn(ctx, "publish event failed",
			slog.String("subject", subject), slog.Any("err", errs.Loggable(err)))
	}
}

func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errs.Wrap(err, "marshal cache payload")
	}
	return string(data), nil
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
