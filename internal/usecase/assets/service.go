package assets

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/domain/asset"
	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
)

type Service struct {
	repo   ports.AssetRepository
	events ports.EventPublisher
	cache  ports.RequestCache

	now func() time.Time
}

// NewService wires asset usecases with repository, event publisher and the
// shared request cache (used only for invalidation after writes).
func NewService(repo ports.AssetRepository, events ports.EventPublisher, cache ports.RequestCache) *Service {
	return &Service{
		repo:   repo,
		events: events,
		cache:  cache,
		now:    time.Now,
	}
}

type CreateAssetInput struct {
	TenantID      string
	Name          string
	Category      string
	Floor         string
	Room          string
	Barcode       string
	PurchasePrice float64
}

type UpdateAssetInput struct {
	Name          *string
	Category      *string
	Status        *string
	Floor         *string
	Room          *string
	PurchasePrice *float64
}

func (s *Service) Create(ctx context.Context, input CreateAssetInput) (ports.AssetRecord, error) {
	if ctx == nil {
		return ports.AssetRecord{}, errors.New("context is required")
	}
	if input.TenantID == "" {
		return ports.AssetRecord{}, errors.New("tenant id is required")
	}

	if err := asset.ValidateNew(asset.NewAsset{
		Name:          input.Name,
		Category:      input.Category,
		Floor:         input.Floor,
		Room:          input.Room,
		PurchasePrice: input.PurchasePrice,
	}); err != nil {
		return ports.AssetRecord{}, err
	}

	barcode := asset.NormalizeCode(input.Barcode)
	if barcode == "" {
		barcode = asset.GenerateBarcode()
	}

	now := s.timestamp()
	created, err := s.repo.CreateAsset(ctx, ports.AssetRecord{
		AssetID:       uuid.NewString(),
		TenantID:      input.TenantID,
		Name:          strings.TrimSpace(input.Name),
		Barcode:       barcode,
		Category:      strings.TrimSpace(input.Category),
		Status:        asset.StatusActive,
		Floor:         input.Floor,
		Room:          input.Room,
		PurchasePrice: input.PurchasePrice,
		PurchasedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return ports.AssetRecord{}, errs.Wrap(err, "create asset")
	}

	s.invalidateDashboard(ctx, input.TenantID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, tenantID string, assetID string) (ports.AssetRecord, error) {
	if ctx == nil {
		return ports.AssetRecord{}, errors.New("context is required")
	}
	return s.repo.GetAsset(ctx, tenantID, assetID)
}

func (s *Service) List(ctx context.Context, filter ports.AssetFilter) ([]ports.AssetRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.SearchAssets(ctx, filter)
}

func (s *Service) Update(ctx context.Context, tenantID string, assetID string, input UpdateAssetInput) (ports.AssetRecord, error) {
	if ctx == nil {
		return ports.AssetRecord{}, errors.New("context is required")
	}

	current, err := s.repo.GetAsset(ctx, tenantID, assetID)
	if err != nil {
		return ports.AssetRecord{}, err
	}

	if input.Status != nil {
		if err := asset.CheckTransition(current.Status, *input.Status); err != nil {
			return ports.AssetRecord{}, err
		}
	}
	if input.PurchasePrice != nil && *input.PurchasePrice < 0 {
		return ports.AssetRecord{}, asset.ErrNegativePurchase
	}

	if err := s.repo.UpdateAsset(ctx, tenantID, assetID, ports.AssetUpdate{
		Name:          input.Name,
		Category:      input.Category,
		Status:        input.Status,
		Floor:         input.Floor,
		Room:          input.Room,
		PurchasePrice: input.PurchasePrice,
		UpdatedAt:     s.timestamp(),
	}); err != nil {
		return ports.AssetRecord{}, errs.Wrap(err, "update asset")
	}

	return s.repo.GetAsset(ctx, tenantID, assetID)
}

func (s *Service) Move(ctx context.Context, tenantID string, assetID string, floor string, room string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := asset.ValidateMove(floor, room); err != nil {
		return err
	}

	if err := s.repo.MoveAsset(ctx, tenantID, assetID, floor, room, s.timestamp()); err != nil {
		return errs.Wrap(err, "move asset")
	}
	return nil
}

func (s *Service) Dispose(ctx context.Context, tenantID string, assetID string, reason string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := asset.ValidateDisposal(reason); err != nil {
		return err
	}

	current, err := s.repo.GetAsset(ctx, tenantID, assetID)
	if err != nil {
		return err
	}
	if current.Status == asset.StatusDisposed {
		return asset.ErrAlreadyDisposed
	}

	disposedAt := s.timestamp()
	if err := s.repo.MarkAssetDisposed(ctx, tenantID, assetID, strings.TrimSpace(reason), disposedAt); err != nil {
		return errs.Wrap(err, "dispose asset")
	}

	s.publish(ctx, "asset.disposed", map[string]any{
		"tenantId":   tenantID,
		"assetId":    assetID,
		"reason":     strings.TrimSpace(reason),
		"disposedAt": disposedAt,
	})
	s.invalidateDashboard(ctx, tenantID)
	return nil
}

// Lookup resolves a scanned or typed code. The fast path is an exact match;
// a clean miss stays a miss. Only a failing fast path falls back to the
// broader search.
func (s *Service) Lookup(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error) {
	if ctx == nil {
		return ports.AssetRecord{}, errors.New("context is required")
	}

	normalized := asset.NormalizeCode(code)
	if normalized == "" {
		return ports.AssetRecord{}, errors.New("code is required")
	}

	record, err := s.repo.FindAssetByCode(ctx, tenantID, normalized)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, ports.ErrAssetNotFound) {
		return ports.AssetRecord{}, ports.ErrAssetNotFound
	}

	logging.Warn(ctx, "asset fast path lookup failed, trying search",
		slog.String("code", normalized), slog.Any("err", errs.Loggable(err)))

	matches, searchErr := s.repo.SearchAssets(ctx, ports.AssetFilter{
		TenantID: tenantID,
		Search:   normalized,
		Limit:    1,
	})
	if searchErr != nil {
		return ports.AssetRecord{}, errs.Wrap(searchErr, "fallback asset search")
	}
	if len(matches) == 0 {
		return ports.AssetRecord{}, ports.ErrAssetNotFound
	}
	return matches[0], nil
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
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

func (s *Service) invalidateDashboard(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidatePrefix(ctx, "dashboard:"+tenantID+":")
}
