package model

type FoodRefill struct {
	RefillID   string  `gorm:"column:refill_id;type:text;primaryKey"`
	TenantID   string  `gorm:"column:tenant_id;type:text;not null;index"`
	KitchenID  string  `gorm:"column:kitchen_id;type:text;not null;index"`
	SupplyID   string  `gorm:"column:supply_id;type:text;not null;index"`
	Quantity   float64 `gorm:"column:quantity;not null"`
	Cost       float64 `gorm:"column:cost;not null;default:0"`
	RefilledAt string  `gorm:"column:refilled_at;type:text;not null;index"`
}

func (FoodRefill) TableName() string {
	return "food_refills"
}
