package model

type FoodSupply struct {
	SupplyID    string  `gorm:"column:supply_id;type:text;primaryKey"`
	TenantID    string  `gorm:"column:tenant_id;type:text;not null;index"`
	KitchenID   string  `gorm:"column:kitchen_id;type:text;not null;index"`
	Name        string  `gorm:"column:name;type:text;not null"`
	Category    string  `gorm:"column:category;type:text;not null"`
	Quantity    float64 `gorm:"column:quantity;not null;default:0"`
	Unit        string  `gorm:"column:unit;type:text;not null"`
	CostPerUnit float64 `gorm:"column:cost_per_unit;not null;default:0"`
	MinQuantity float64 `gorm:"column:min_quantity;not null;default:0"`
	ExpiresAt   string  `gorm:"column:expires_at;type:text;not null;index"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt   string  `gorm:"column:updated_at;type:text;not null"`
}

func (FoodSupply) TableName() string {
	return "food_supplies"
}
