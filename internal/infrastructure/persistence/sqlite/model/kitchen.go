package model

type Kitchen struct {
	KitchenID string `gorm:"column:kitchen_id;type:text;primaryKey"`
	TenantID  string `gorm:"column:tenant_id;type:text;not null;index"`
	Name      string `gorm:"column:name;type:text;not null"`
	Location  string `gorm:"column:location;type:text;not null"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
}

func (Kitchen) TableName() string {
	return "kitchens"
}
