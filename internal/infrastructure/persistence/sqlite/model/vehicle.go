package model

type Vehicle struct {
	VehicleID string  `gorm:"column:vehicle_id;type:text;primaryKey"`
	TenantID  string  `gorm:"column:tenant_id;type:text;not null;index"`
	Name      string  `gorm:"column:name;type:text;not null"`
	Plate     string  `gorm:"column:plate;type:text;not null;uniqueIndex"`
	CostPerKM float64 `gorm:"column:cost_per_km;not null;default:0"`
	CreatedAt string  `gorm:"column:created_at;type:text;not null"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
