package repository

import (
	"errors"
	"strings"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// List 按名称前缀（不区分大小写）查询食材，prefix 为空返回全部
func (r *IngredientRepository) List(prefix string) ([]model.Ingredient, error) {
	query := r.db.Model(&model.Ingredient{})
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []model.Ingredient
	err := query.Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *IngredientRepository) GetByID(id int64) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := r.db.Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// ExistingIDs 返回 ids 中真实存在的食材 ID 集合
func (r *IngredientRepository) ExistingIDs(ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var existing []int64
	if err := r.db.Model(&model.Ingredient{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	for _, id := range existing {
		found[id] = true
	}
	return found, nil
}

// Exists (name, unit) 是否已存在
func (r *IngredientRepository) Exists(name, unit string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Ingredient{}).
		Where("name = ? AND measurement_unit = ?", name, unit).
		Count(&count).Error
	return count > 0, err
}

func (r *IngredientRepository) Create(ing *model.Ingredient) error {
	return r.db.Create(ing).Error
}

// FirstOrCreate 按 (name, unit) 查找，不存在则创建；返回是否新建
func (r *IngredientRepository) FirstOrCreate(name, unit string) (*model.Ingredient, bool, error) {
	var ing model.Ingredient
	err := r.db.Where("name = ? AND measurement_unit = ?", name, unit).First(&ing).Error
	if err == nil {
		return &ing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	ing = model.Ingredient{Name: name, MeasurementUnit: unit}
	if err := r.db.Create(&ing).Error; err != nil {
		return nil, false, err
	}
	return &ing, true, nil
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
