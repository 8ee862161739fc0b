package model

import "time"

// Recipe 菜谱模型
type Recipe struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:菜谱标识" json:"id"`
	AuthorID    int64     `gorm:"not null;index:idx_recipes_author_id;comment:作者ID" json:"author_id"`
	Name        string    `gorm:"size:200;not null;comment:名称" json:"name"`
	Image       string    `gorm:"size:500;not null;comment:图片地址" json:"image"`
	Text        string    `gorm:"type:text;not null;comment:描述" json:"text"`
	CookingTime int       `gorm:"not null;comment:烹饪时间（分钟）" json:"cooking_time"`
	PubDate     time.Time `gorm:"autoCreateTime;index:idx_recipes_pub_date;comment:发布时间" json:"pub_date"`

	// 关联关系
	Author      User               `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient 菜谱-食材关联及用量
type RecipeIngredient struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID     int64 `gorm:"not null;uniqueIndex:uq_recipe_ingredient;comment:菜谱ID" json:"recipe_id"`
	IngredientID int64 `gorm:"not null;uniqueIndex:uq_recipe_ingredient;index;comment:食材ID" json:"ingredient_id"`
	Amount       int   `gorm:"not null;comment:用量" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag 菜谱-标签关联表
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey;index"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
