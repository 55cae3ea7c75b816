package model

type Asset struct {
	AssetID        string  `gorm:"column:asset_id;type:text;primaryKey"`
	TenantID       string  `gorm:"column:tenant_id;type:text;not null;index"`
	Name           string  `gorm:"column:name;type:text;not null"`
	Barcode        string  `gorm:"column:barcode;type:text;not null;uniqueIndex"`
	Category       string  `gorm:"column:category;type:text;not null"`
	Status         string  `gorm:"column:status;type:text;not null;index"`
	Floor          string  `gorm:"column:floor;type:text;not null"`
	Room           string  `gorm:"column:room;type:text;not null"`
	PurchasePrice  float64 `gorm:"column:purchase_price;not null;default:0"`
	PurchasedAt    string  `gorm:"column:purchased_at;type:text;not null"`
	DisposedAt     *string `gorm:"column:disposed_at;type:text"`
	DisposalReason *string `gorm:"column:disposal_reason;type:text"`
	CreatedAt      string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt      string  `gorm:"column:updated_at;type:text;not null"`
}

func (Asset) TableName() string {
	return "assets"
}
