package repository

import (
	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create 创建订阅关系
func (r *FollowRepository) Create(userID, authorID int64) (*model.Follow, error) {
	follow := &model.Follow{
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.Omit("User", "Author").Create(follow).Error; err != nil {
		return nil, err
	}
	return follow, nil
}

// Delete 删除订阅关系
func (r *FollowRepository) Delete(userID, authorID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查订阅关系是否存在
func (r *FollowRepository) Exists(userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingList 获取用户订阅的作者 ID（分页）及总数
func (r *FollowRepository) GetFollowingList(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Follow{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authorIDs []int64
	err := query.
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Pluck("author_id", &authorIDs).Error
	return authorIDs, total, err
}

// BatchCheckFollowing 批量检查订阅状态
func (r *FollowRepository) BatchCheckFollowing(userID int64, authorIDs []int64) (map[int64]bool, error) {
	if len(authorIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var followedIDs []int64
	err := r.db.Model(&model.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &followedIDs).Error
	if err != nil {
		return nil, err
	}

	followedSet := make(map[int64]bool, len(followedIDs))
	for _, id := range followedIDs {
		followedSet[id] = true
	}

	result := make(map[int64]bool, len(authorIDs))
	for _, id := range authorIDs {
		result[id] = followedSet[id]
	}
	return result, nil
}
