package service

import (
	"errors"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repository.UserRepository
	viewer   *ViewerStates
	images   ImageStorage
}

// NewUserService images 为 nil 时删除用户不清理菜谱图片
func NewUserService(userRepo *repository.UserRepository, viewer *ViewerStates, images ImageStorage) *UserService {
	return &UserService{userRepo: userRepo, viewer: viewer, images: images}
}

// GetUser 获取用户信息，is_subscribed 相对 viewerID
func (s *UserService) GetUser(viewerID, id int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscribed, err := s.viewer.ForUsers(viewerID, []int64{id})
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user, subscribed[id])
	return &info, nil
}

// ListUsers 分页用户列表
func (s *UserService) ListUsers(viewerID int64, page, limit int) (*dto.Page[dto.UserInfo], error) {
	users, total, err := s.userRepo.List((page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	subscribed, err := s.viewer.ForUsers(viewerID, ids)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, ToUserInfo(&users[i], subscribed[users[i].ID]))
	}
	return dto.NewPage(infos, total, page, limit), nil
}

// IsAdmin 查询用户是否管理员
func (s *UserService) IsAdmin(userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

// DeleteUser 删除用户及其全部数据（管理员）
func (s *UserService) DeleteUser(id int64) error {
	images, err := s.userRepo.RecipeImagesByAuthor(id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	deleteImages(s.images, images...)

	logger.Info("User deleted", zap.Int64("user_id", id), zap.Int("recipe_images", len(images)))
	return nil
}
