package model

type Trip struct {
	TripID     string   `gorm:"column:trip_id;type:text;primaryKey"`
	TenantID   string   `gorm:"column:tenant_id;type:text;not null;index"`
	VehicleID  string   `gorm:"column:vehicle_id;type:text;not null;index"`
	Driver     string   `gorm:"column:driver;type:text;not null"`
	Purpose    string   `gorm:"column:purpose;type:text;not null"`
	Status     string   `gorm:"column:status;type:text;not null;index"`
	StartLat   float64  `gorm:"column:start_lat;not null"`
	StartLng   float64  `gorm:"column:start_lng;not null"`
	EndLat     *float64 `gorm:"column:end_lat"`
	EndLng     *float64 `gorm:"column:end_lng"`
	DistanceKM float64  `gorm:"column:distance_km;not null;default:0"`
	Cost       float64  `gorm:"column:cost;not null;default:0"`
	StartedAt  string   `gorm:"column:started_at;type:text;not null;index"`
	EndedAt    *string  `gorm:"column:ended_at;type:text"`
}

func (Trip) TableName() string {
	return "trips"
}
