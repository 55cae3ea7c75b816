package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"opsdeck/internal/domain/trip"
	"opsdeck/internal/errs"
	"opsdeck/internal/infrastructure/persistence/sqlite/model"
	"opsdeck/internal/ports"
)

type VehicleRepository struct {
	db *gorm.DB
}

var _ ports.VehicleRepository = (*VehicleRepository)(nil)

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle ports.VehicleRecord) (ports.VehicleRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.VehicleRecord{}, err
	}

	row := model.Vehicle{
		VehicleID: vehicle.VehicleID,
		TenantID:  vehicle.TenantID,
		Name:      vehicle.Name,
		Plate:     vehicle.Plate,
		CostPerKM: vehicle.CostPerKM,
		CreatedAt: vehicle.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.VehicleRecord{}, errs.Wrap(err, "insert vehicle")
	}
	return mapVehicle(row), nil
}

func (r *VehicleRepository) GetVehicle(ctx context.Context, tenantID string, vehicleID string) (ports.VehicleRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.VehicleRecord{}, err
	}

	var row model.Vehicle
	if err := db.Where("tenant_id = ? AND vehicle_id = ?", tenantID, vehicleID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.VehicleRecord{}, ports.ErrVehicleNotFound
		}
		return ports.VehicleRecord{}, errs.Wrap(err, "query vehicle")
	}
	return mapVehicle(row), nil
}

func (r *VehicleRepository) ListVehicles(ctx context.Context, tenantID string) ([]ports.VehicleRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Vehicle
	if err := db.Where("tenant_id = ?", tenantID).Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query vehicles")
	}

	items := make([]ports.VehicleRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapVehicle(row))
	}
	return items, nil
}

func (r *VehicleRepository) CreateTrip(ctx context.Context, record ports.TripRecord) (ports.TripRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.TripRecord{}, err
	}

	row := tripRow(record)
	if err := db.Create(&row).Error; err != nil {
		return ports.TripRecord{}, errs.Wrap(err, "insert trip")
	}
	return mapTrip(row), nil
}

func (r *VehicleRepository) GetTrip(ctx context.Context, tenantID string, tripID string) (ports.TripRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.TripRecord{}, err
	}

	var row model.Trip
	if err := db.Where("tenant_id = ? AND trip_id = ?", tenantID, tripID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TripRecord{}, ports.ErrTripNotFound
		}
		return ports.TripRecord{}, errs.Wrap(err, "query trip")
	}
	return mapTrip(row), nil
}

func (r *VehicleRepository) ActiveTrip(ctx context.Context, tenantID string, vehicleID string) (ports.TripRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.TripRecord{}, err
	}

	var row model.Trip
	if err := db.
		Where("tenant_id = ? AND vehicle_id = ? AND status = ?", tenantID, vehicleID, trip.StatusActive).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TripRecord{}, ports.ErrNoActiveTrip
		}
		return ports.TripRecord{}, errs.Wrap(err, "query active trip")
	}
	return mapTrip(row), nil
}

func (r *VehicleRepository) CompleteTrip(ctx context.Context, tenantID string, tripID string, endLat float64, endLng float64, distanceKM float64, cost float64, endedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	// Guarding on status makes ending a trip idempotent-safe: a second
	// end request affects zero rows.
	result := db.Model(&model.Trip{}).
		Where("tenant_id = ? AND trip_id = ? AND status = ?", tenantID, tripID, trip.StatusActive).
		Updates(map[string]any{
			"status":      trip.StatusEnded,
			"end_lat":     endLat,
			"end_lng":     endLng,
			"distance_km": distanceKM,
			"cost":        cost,
			"ended_at":    endedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "complete trip")
	}
	if result.RowsAffected == 0 {
		return ports.ErrTripNotFound
	}
	return nil
}

func mapVehicle(row model.Vehicle) ports.VehicleRecord {
	return ports.VehicleRecord{
		VehicleID: row.VehicleID,
		TenantID:  row.TenantID,
		Name:      row.Name,
		Plate:     row.Plate,
		CostPerKM: row.CostPerKM,
		CreatedAt: row.CreatedAt,
	}
}

func tripRow(record ports.TripRecord) model.Trip {
	return model.Trip{
		TripID:     record.TripID,
		TenantID:   record.TenantID,
		VehicleID:  record.VehicleID,
		Driver:     record.Driver,
		Purpose:    record.Purpose,
		Status:     record.Status,
		StartLat:   record.StartLat,
		StartLng:   record.StartLng,
		EndLat:     record.EndLat,
		EndLng:     record.EndLng,
		DistanceKM: record.DistanceKM,
		Cost:       record.Cost,
		StartedAt:  record.StartedAt,
		EndedAt:    record.EndedAt,
	}
}

func mapTrip(row model.Trip) ports.TripRecord {
	return ports.TripRecord{
		TripID:     row.TripID,
		TenantID:   row.TenantID,
		VehicleID:  row.VehicleID,
		Driver:     row.Driver,
		Purpose:    row.Purpose,
		Status:     row.Status,
		StartLat:   row.StartLat,
		StartLng:   row.StartLng,
		EndLat:     row.EndLat,
		EndLng:     row.EndLng,
		DistanceKM: row.DistanceKM,
		Cost:       row.Cost,
		StartedAt:  row.StartedAt,
		EndedAt:    row.EndedAt,
	}
}
