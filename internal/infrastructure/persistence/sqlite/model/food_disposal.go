package model

type FoodDisposal struct {
	DisposalID string  `gorm:"column:disposal_id;type:text;primaryKey"`
	TenantID   string  `gorm:"column:tenant_id;type:text;not null;index"`
	KitchenID  string  `gorm:"column:kitchen_id;type:text;not null;index"`
	SupplyID   string  `gorm:"column:supply_id;type:text;not null;index"`
	SupplyName string  `gorm:"column:supply_name;type:text;not null"`
	Quantity   float64 `gorm:"column:quantity;not null"`
	Unit       string  `gorm:"column:unit;type:text;not null"`
	Reason     string  `gorm:"column:reason;type:text;not null"`
	Cost       float64 `gorm:"column:cost;not null;default:0"`
	DisposedAt string  `gorm:"column:disposed_at;type:text;not null;index"`
}

func (FoodDisposal) TableName() string {
	return "food_disposals"
}
