package repository

import (
	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// List 全部标签，按名称排序
func (r *TagRepository) List() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) GetByID(id int64) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// CountByIDs 统计存在的标签数量（用于校验引用）
func (r *TagRepository) CountByIDs(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&model.Tag{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// ExistsConflict 名称、颜色、slug 任一已被占用
func (r *TagRepository) ExistsConflict(name, color, slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Tag{}).
		Where("name = ? OR color = ? OR slug = ?", name, color, slug).
		Count(&count).Error
	return count > 0, err
}

func (r *TagRepository) Create(tag *model.Tag) error {
	return r.db.Create(tag).Error
}
