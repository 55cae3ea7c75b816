package model

type Recipe struct {
	RecipeID        string `gorm:"column:recipe_id;type:text;primaryKey"`
	TenantID        string `gorm:"column:tenant_id;type:text;not null;index"`
	KitchenID       string `gorm:"column:kitchen_id;type:text;not null;index"`
	Name            string `gorm:"column:name;type:text;not null"`
	Servings        int    `gorm:"column:servings;not null;default:0"`
	IngredientsJSON string `gorm:"column:ingredients_json;type:text;not null"`
	CreatedAt       string `gorm:"column:created_at;type:text;not null"`
}

func (Recipe) TableName() string {
	return "recipes"
}
