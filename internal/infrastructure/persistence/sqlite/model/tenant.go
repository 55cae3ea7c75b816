package model

type Tenant struct {
	TenantID  string `gorm:"column:tenant_id;type:text;primaryKey"`
	Name      string `gorm:"column:name;type:text;not null"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
}

func (Tenant) TableName() string {
	return "tenants"
}
