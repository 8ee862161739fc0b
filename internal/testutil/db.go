// Package testutil 提供测试用的 SQLite 内存数据库与数据构造函数
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"foodgram-go/internal/infra/database"
	"foodgram-go/internal/model"
	"foodgram-go/pkg/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB 为每个测试创建独立的内存数据库（开启外键）并完成迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=1", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 共享缓存的内存库在最后一个连接关闭时销毁
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser 创建用户，密码统一为 "password123"
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &model.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  hash,
		UserRole:  model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateAdmin 创建管理员
func CreateAdmin(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := CreateUser(t, db, username)
	require.NoError(t, db.Model(user).Update("user_role", model.RoleAdmin).Error)
	user.UserRole = model.RoleAdmin
	return user
}

// CreateTag 创建标签
func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *model.Tag {
	t.Helper()

	tag := &model.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// CreateIngredient 创建食材
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()

	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateRecipe 直接写库创建菜谱（绕过校验），amounts 以食材 ID 为键
func CreateRecipe(t *testing.T, db *gorm.DB, authorID int64, name string, tags []*model.Tag, amounts map[int64]int) *model.Recipe {
	t.Helper()

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Image:       "http://images.local/recipes/" + name + ".png",
		Text:        name + " text",
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Tags", "Ingredients", "Author").Create(recipe).Error)

	for _, tag := range tags {
		require.NoError(t, db.Create(&model.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	}
	for ingredientID, amount := range amounts {
		require.NoError(t, db.Create(&model.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredientID,
			Amount:       amount,
		}).Error)
	}
	return recipe
}
