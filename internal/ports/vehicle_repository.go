package ports

import (
	"context"
	"errors"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrNoActiveTrip    = errors.New("no active trip")
)

type VehicleRecord struct {
	VehicleID string
	TenantID  string
	Name      string
	Plate     string
	CostPerKM float64
	CreatedAt string
}

type TripRecord struct {
	TripID     string
	TenantID   string
	VehicleID  string
	Driver     string
	Purpose    string
	Status     string
	StartLat   float64
	StartLng   float64
	EndLat     *float64
	EndLng     *float64
	DistanceKM float64
	Cost       float64
	StartedAt  string
	EndedAt    *string
}

type VehicleRepository interface {
	CreateVehicle(ctx context.Context, vehicle VehicleRecord) (VehicleRecord, error)
	GetVehicle(ctx context.Context, tenantID string, vehicleID string) (VehicleRecord, error)
	ListVehicles(ctx context.Context, tenantID string) ([]VehicleRecord, error)

	CreateTrip(ctx context.Context, trip TripRecord) (TripRecord, error)
	GetTrip(ctx context.Context, tenantID string, tripID string) (TripRecord, error)
	// ActiveTrip returns ErrNoActiveTrip when the vehicle has no trip in
	// the active state.
	ActiveTrip(ctx context.Context, tenantID string, vehicleID string) (TripRecord, error)
	CompleteTrip(ctx context.Context, tenantID string, tripID string, endLat float64, endLng float64, distanceKM float64, cost float64, endedAt string) error
}
