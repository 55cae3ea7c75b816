package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/domain/trip"
	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
)

var ErrTripInProgress = errors.New("vehicle already has an active trip")

type Service struct {
	repo   ports.VehicleRepository
	kv     ports.KVCache
	cache  ports.RequestCache
	events ports.EventPublisher

	now func() time.Time
}

func NewService(repo ports.VehicleRepository, kv ports.KVCache, cache ports.RequestCache, events ports.EventPublisher) *Service {
	return &Service{
		repo:   repo,
		kv:     kv,
		cache:  cache,
		events: events,
		now:    time.Now,
	}
}

type StartTripInput struct {
	TenantID  string
	VehicleID string
	Driver    string
	Purpose   string
	StartLat  float64
	StartLng  float64
}

func (s *Service) StartTrip(ctx context.Context, input StartTripInput) (ports.TripRecord, error) {
	if ctx == nil {
		return ports.TripRecord{}, errors.New("context is required")
	}
	if err := trip.ValidateCoordinate(input.StartLat, input.StartLng); err != nil {
		return ports.TripRecord{}, err
	}

	if _, err := s.repo.GetVehicle(ctx, input.TenantID, input.VehicleID); err != nil {
		return ports.TripRecord{}, err
	}

	_, err := s.repo.ActiveTrip(ctx, input.TenantID, input.VehicleID)
	if err == nil {
		return ports.TripRecord{}, ErrTripInProgress
	}
	if !errors.Is(err, ports.ErrNoActiveTrip) {
		return ports.TripRecord{}, errs.Wrap(err, "check active trip")
	}

	created, err := s.repo.CreateTrip(ctx, ports.TripRecord{
		TripID:    uuid.NewString(),
		TenantID:  input.TenantID,
		VehicleID: input.VehicleID,
		Driver:    input.Driver,
		Purpose:   input.Purpose,
		Status:    trip.StatusActive,
		StartLat:  input.StartLat,
		StartLng:  input.StartLng,
		StartedAt: s.timestamp(),
	})
	if err != nil {
		return ports.TripRecord{}, errs.Wrap(err, "create trip")
	}
	return created, nil
}

type EndTripInput struct {
	TenantID  string
	VehicleID string
	EndLat    float64
	EndLng    float64
}

// EndTrip closes the vehicle's active trip, computing distance and cost
// server-side from the recorded origin and the reported destination.
func (s *Service) EndTrip(ctx context.Context, input EndTripInput) (ports.TripRecord, error) {
	if ctx == nil {
		return ports.TripRecord{}, errors.New("context is required")
	}
	if err := trip.ValidateCoordinate(input.EndLat, input.EndLng); err != nil {
		return ports.TripRecord{}, err
	}

	active, err := s.repo.ActiveTrip(ctx, input.TenantID, input.VehicleID)
	if err != nil {
		return ports.TripRecord{}, err
	}

	vehicle, err := s.repo.GetVehicle(ctx, input.TenantID, input.VehicleID)
	if err != nil {
		return ports.TripRecord{}, err
	}

	distance := trip.Haversine(active.StartLat, active.StartLng, input.EndLat, input.EndLng)
	cost := trip.Cost(distance, vehicle.CostPerKM)
	endedAt := s.timestamp()

	if err := s.repo.CompleteTrip(ctx, input.TenantID, active.TripID, input.EndLat, input.EndLng, distance, cost, endedAt); err != nil {
		return ports.TripRecord{}, errs.Wrap(err, "complete trip")
	}

	if s.kv != nil {
		if err := s.kv.Delete(ctx, endpointKey(active.TripID)); err != nil {
			logging.Warn(ctx, "drop trip endpoint draft failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	s.publish(ctx, "vehicle.trip_ended", map[string]any{
		"tenantId":   input.TenantID,
		"vehicleId":  input.VehicleID,
		"tripId":     active.TripID,
		"distanceKm": distance,
		"cost":       cost,
		"endedAt":    endedAt,
	})
	if s.cache != nil {
		s.cache.InvalidatePrefix(ctx, "dashboard:"+input.TenantID+":")
	}

	return s.repo.GetTrip(ctx, input.TenantID, active.TripID)
}

func (s *Service) ActiveTrip(ctx context.Context, tenantID string, vehicleID string) (ports.TripRecord, error) {
	if ctx == nil {
		return ports.TripRecord{}, errors.New("context is required")
	}
	return s.repo.ActiveTrip(ctx, tenantID, vehicleID)
}

type TripEndpoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SetTripEndpoint stores a destination draft for an active trip so a client
// interrupted mid-entry can resume. Drafts are durable and expire on their
// own after a day.
func (s *Service) SetTripEndpoint(ctx context.Context, tenantID string, tripID string, endpoint TripEndpoint) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := trip.ValidateCoordinate(endpoint.Lat, endpoint.Lng); err != nil {
		return err
	}

	record, err := s.repo.GetTrip(ctx, tenantID, tripID)
	if err != nil {
		return err
	}
	if record.Status != trip.StatusActive {
		return trip.ErrTripAlreadyEnded
	}

	data, err := json.Marshal(endpoint)
	if err != nil {
		return errs.Wrap(err, "marshal trip endpoint")
	}
	if err := s.kv.Set(ctx, endpointKey(tripID), string(data), 24*time.Hour); err != nil {
		return errs.Wrap(err, "store trip endpoint")
	}
	return nil
}

func (s *Service) TripEndpoint(ctx context.Context, tenantID string, tripID string) (TripEndpoint, bool, error) {
	if ctx == nil {
		return TripEndpoint{}, false, errors.New("context is required")
	}

	if _, err := s.repo.GetTrip(ctx, tenantID, tripID); err != nil {
		return TripEndpoint{}, false, err
	}

	raw, found, err := s.kv.Get(ctx, endpointKey(tripID))
	if err != nil || !found {
		return TripEndpoint{}, false, err
	}

	var endpoint TripEndpoint
	if err := json.Unmarshal([]byte(raw), &endpoint); err != nil {
		return TripEndpoint{}, false, errs.Wrap(err, "unmarshal trip endpoint")
	}
	return endpoint, true, nil
}

func endpointKey(tripID string) string {
	return "trip_endpoint:" + tripID
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
