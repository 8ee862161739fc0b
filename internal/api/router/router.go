package router

import (
	"foodgram-go/internal/api/handler"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"

	"github.com/gin-gonic/gin"
)

// Handlers 业务路由所需的全部 Handler
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Relation *handler.RelationHandler
	Recipe   *handler.RecipeHandler
	Favorite *handler.FavoriteHandler
	Catalog  *handler.CatalogHandler
	Search   *handler.SearchHandler
}

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	h *Handlers,
	tokenChecker middleware.TokenChecker,
	adminMiddleware gin.HandlerFunc,
) {
	response.UseJSONFieldNames()

	authRequired := middleware.AuthRequired(tokenChecker)
	authOptional := middleware.AuthOptional(tokenChecker)

	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth/token")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", authRequired, h.Auth.Logout)
	}

	// --- 用户与订阅 ---
	users := v1.Group("/users")
	{
		users.POST("", h.Auth.Register)
		users.GET("", authOptional, h.User.ListUsers)
		users.GET("/:id", authOptional, h.User.GetUser)

		usersAuth := users.Group("", authRequired)
		{
			usersAuth.GET("/me", h.User.GetMe)
			usersAuth.POST("/set_password", h.Auth.SetPassword)
			usersAuth.GET("/subscriptions", h.Relation.Subscriptions)
			usersAuth.POST("/:id/subscribe", h.Relation.Subscribe)
			usersAuth.DELETE("/:id/subscribe", h.Relation.Unsubscribe)
			usersAuth.DELETE("/:id", adminMiddleware, h.User.DeleteUser)
		}
	}

	// --- 标签与食材 ---
	tags := v1.Group("/tags")
	{
		tags.GET("", h.Catalog.ListTags)
		tags.GET("/:id", h.Catalog.GetTag)
		tags.POST("", authRequired, adminMiddleware, h.Catalog.CreateTag)
	}

	ingredients := v1.Group("/ingredients")
	{
		ingredients.GET("", h.Catalog.ListIngredients)
		ingredients.GET("/:id", h.Catalog.GetIngredient)
		ingredients.POST("", authRequired, adminMiddleware, h.Catalog.CreateIngredient)
	}

	// --- 菜谱模块 ---
	recipes := v1.Group("/recipes")
	{
		recipes.GET("", authOptional, h.Recipe.List)
		recipes.GET("/search", authOptional, h.Search.SearchRecipes)
		recipes.GET("/:id", authOptional, h.Recipe.Get)

		recipesAuth := recipes.Group("", authRequired)
		{
			recipesAuth.POST("", h.Recipe.Create)
			recipesAuth.PATCH("/:id", h.Recipe.Update)
			recipesAuth.DELETE("/:id", h.Recipe.Delete)
			recipesAuth.GET("/download_shopping_cart", h.Recipe.DownloadShoppingCart)

			recipesAuth.POST("/:id/favorite", h.Favorite.AddFavorite)
			recipesAuth.DELETE("/:id/favorite", h.Favorite.RemoveFavorite)
			recipesAuth.POST("/:id/shopping_cart", h.Favorite.AddToCart)
			recipesAuth.DELETE("/:id/shopping_cart", h.Favorite.RemoveFromCart)

			recipesAuth.POST("/search/sync", adminMiddleware, h.Search.SyncIndex)
		}
	}
}
