package repository

import (
	"strings"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// RecipeFilter 菜谱列表过滤条件，零值字段不参与过滤
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
}

// IngredientTotal 购物清单中按 (名称, 单位) 汇总后的一行
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

// Create 在同一事务中写入菜谱及其标签、食材关联
func (r *RecipeRepository) Create(recipe *model.Recipe, tagIDs []int64, items []model.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		return replaceRelations(tx, recipe.ID, tagIDs, items)
	})
}

// Update 更新菜谱字段并整体替换标签、食材集合
func (r *RecipeRepository) Update(recipeID int64, fields map[string]interface{}, tagIDs []int64, items []model.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			result := tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Updates(fields)
			if result.Error != nil {
				return result.Error
			}
		}
		return replaceRelations(tx, recipeID, tagIDs, items)
	})
}

// replaceRelations 先删后插，调用方负责事务
func replaceRelations(tx *gorm.DB, recipeID int64, tagIDs []int64, items []model.RecipeIngredient) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}

	if len(tagIDs) > 0 {
		links := make([]model.RecipeTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			links = append(links, model.RecipeTag{RecipeID: recipeID, TagID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}

	if len(items) > 0 {
		rows := make([]model.RecipeIngredient, 0, len(items))
		for _, item := range items {
			rows = append(rows, model.RecipeIngredient{
				RecipeID:     recipeID,
				IngredientID: item.IngredientID,
				Amount:       item.Amount,
			})
		}
		if err := tx.Omit("Ingredient").Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete 删除菜谱及所有依赖行
func (r *RecipeRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteRecipes(tx, []int64{id})
	})
}

// deleteRecipes 级联删除一组菜谱，调用方负责事务
func deleteRecipes(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	for _, m := range []interface{}{
		&model.RecipeTag{},
		&model.RecipeIngredient{},
		&model.Favorite{},
		&model.ShoppingCart{},
	} {
		if err := tx.Where("recipe_id IN ?", ids).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&model.Recipe{}).Error
}

// preloadDetail 详情所需的关联预加载
func preloadDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient")
}

// GetByID 查询菜谱详情（作者、标签、食材）
func (r *RecipeRepository) GetByID(id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := preloadDetail(r.db).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetPlain 只查询菜谱本身，不加载关联
func (r *RecipeRepository) GetPlain(id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetByIDs 批量查询菜谱详情，按 ids 顺序返回，缺失的跳过
func (r *RecipeRepository) GetByIDs(ids []int64) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []model.Recipe
	if err := preloadDetail(r.db).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Recipe, len(recipes))
	for _, rc := range recipes {
		byID[rc.ID] = rc
	}
	ordered := make([]model.Recipe, 0, len(recipes))
	for _, id := range ids {
		if rc, ok := byID[id]; ok {
			ordered = append(ordered, rc)
		}
	}
	return ordered, nil
}

// List 按过滤条件分页查询菜谱，按发布时间倒序
func (r *RecipeRepository) List(filter RecipeFilter, skip, limit int) ([]model.Recipe, int64, error) {
	query := r.db.Model(&model.Recipe{})

	if len(filter.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags AS rt").
			Select("rt.recipe_id").
			Joins("JOIN tags t ON t.id = rt.tag_id").
			Where("t.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", sub)
	}
	if filter.AuthorID > 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy > 0 {
		sub := r.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", sub)
	}
	if filter.InCartOf > 0 {
		sub := r.db.Model(&model.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf)
		query = query.Where("recipes.id IN (?)", sub)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := preloadDetail(query).
		Order("recipes.pub_date DESC").Order("recipes.id DESC").
		Offset(skip).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// SearchByName 数据库兜底搜索：名称包含关键字（不区分大小写）
func (r *RecipeRepository) SearchByName(keyword string, skip, limit int) ([]model.Recipe, int64, error) {
	query := r.db.Model(&model.Recipe{}).
		Where("LOWER(recipes.name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(keyword))+"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := preloadDetail(query).
		Order("recipes.pub_date DESC").Order("recipes.id DESC").
		Offset(skip).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListAll 分批遍历全部菜谱（全量重建索引用）
func (r *RecipeRepository) ListAll(batchSize int, fn func([]model.Recipe) error) error {
	var batch []model.Recipe
	result := preloadDetail(r.db.Model(&model.Recipe{})).
		Order("id ASC").
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		})
	return result.Error
}

// ListByAuthor 作者最新的菜谱，limit<=0 表示不限
func (r *RecipeRepository) ListByAuthor(authorID int64, limit int) ([]model.Recipe, error) {
	query := r.db.Where("author_id = ?", authorID).Order("pub_date DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []model.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

// CountByAuthors 批量统计作者的菜谱数量
func (r *RecipeRepository) CountByAuthors(authorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID int64
		Count    int64
	}
	err := r.db.Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS count").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Count
	}
	return counts, nil
}

// ShoppingList 汇总用户购物车中全部菜谱的食材用量，按 (名称, 单位) 分组、名称升序
func (r *RecipeRepository) ShoppingList(userID int64) ([]IngredientTotal, error) {
	var totals []IngredientTotal
	err := r.db.Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, CAST(SUM(ri.amount) AS BIGINT) AS amount").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_carts sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name ASC").Order("i.measurement_unit ASC").
		Scan(&totals).Error
	return totals, err
}
