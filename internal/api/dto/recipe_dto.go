package dto

import "time"

// IngredientAmountInput 菜谱请求中的食材及用量
type IngredientAmountInput struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeRequest 创建/更新菜谱请求，更新时 image 可省略
type RecipeRequest struct {
	Ingredients []IngredientAmountInput `json:"ingredients"`
	Tags        []int64                 `json:"tags"`
	Image       string                  `json:"image"`
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	CookingTime int                     `json:"cooking_time"`
}

// RecipeListQuery 菜谱列表过滤参数
type RecipeListQuery struct {
	Tags             []string `form:"tags"`
	Author           int64    `form:"author"`
	IsFavorited      bool     `form:"is_favorited"`
	IsInShoppingCart bool     `form:"is_in_shopping_cart"`
}

// RecipeIngredientInfo 菜谱中的食材（含用量）
type RecipeIngredientInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeInfo 菜谱详情
type RecipeInfo struct {
	ID               int64                  `json:"id"`
	Tags             []TagInfo              `json:"tags"`
	Author           UserInfo               `json:"author"`
	Ingredients      []RecipeIngredientInfo `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
	PubDate          time.Time              `json:"pub_date"`
}

// RecipeShortInfo 菜谱简要信息（收藏/购物车/订阅列表）
type RecipeShortInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}
