package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// RegisteredUser 注册成功返回的用户信息
type RegisteredUser struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserInfo 用户公开信息，is_subscribed 相对当前查看者
type UserInfo struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionInfo 订阅列表项：作者信息 + 菜谱预览
type SubscriptionInfo struct {
	UserInfo
	RecipesCount int64             `json:"recipes_count"`
	Recipes      []RecipeShortInfo `json:"recipes"`
}

// Page 分页结果，next/previous 为页码，不存在时为 null
type Page[T any] struct {
	Count    int64 `json:"count"`
	Next     *int  `json:"next"`
	Previous *int  `json:"previous"`
	Results  []T   `json:"results"`
}

// NewPage 根据总数和当前页构建分页结果
func NewPage[T any](results []T, total int64, page, limit int) *Page[T] {
	if results == nil {
		results = []T{}
	}
	p := &Page[T]{Count: total, Results: results}
	if int64(page*limit) < total {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		p.Previous = &prev
	}
	return p
}
