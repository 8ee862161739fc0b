package service

import (
	"errors"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCannotFollowSelf  = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("you are already subscribed to this author")
	ErrNotSubscribed     = errors.New("you are not subscribed to this author")
)

type RelationService struct {
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
	recipeRepo *repository.RecipeRepository
	viewer     *ViewerStates
}

func NewRelationService(
	followRepo *repository.FollowRepository,
	userRepo *repository.UserRepository,
	recipeRepo *repository.RecipeRepository,
	viewer *ViewerStates,
) *RelationService {
	return &RelationService{
		followRepo: followRepo,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		viewer:     viewer,
	}
}

// Subscribe 订阅作者，返回带菜谱预览的作者信息
func (s *RelationService) Subscribe(userID, authorID int64, recipesLimit int) (*dto.SubscriptionInfo, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if userID == authorID {
		return nil, ErrCannotFollowSelf
	}

	exists, err := s.followRepo.Exists(userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	if _, err := s.followRepo.Create(userID, authorID); err != nil {
		if again, checkErr := s.followRepo.Exists(userID, authorID); checkErr == nil && again {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	items, err := s.buildSubscriptions(userID, []model.User{*author}, []int64{authorID}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Unsubscribe 取消订阅
func (s *RelationService) Unsubscribe(userID, authorID int64) error {
	if _, err := s.userRepo.GetByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	deleted, err := s.followRepo.Delete(userID, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotSubscribed
	}
	return nil
}

// Subscriptions 当前用户订阅的作者（分页），recipesLimit<=0 表示不限制预览数量
func (s *RelationService) Subscriptions(userID int64, page, limit, recipesLimit int) (*dto.Page[dto.SubscriptionInfo], error) {
	authorIDs, total, err := s.followRepo.GetFollowingList(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	items, err := s.buildSubscriptions(userID, users, authorIDs, recipesLimit)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, total, page, limit), nil
}

// buildSubscriptions 按 orderedIDs 顺序组装订阅项
func (s *RelationService) buildSubscriptions(viewerID int64, users []model.User, orderedIDs []int64, recipesLimit int) ([]dto.SubscriptionInfo, error) {
	userMap := make(map[int64]*model.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	subscribed, err := s.viewer.ForUsers(viewerID, orderedIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.recipeRepo.CountByAuthors(orderedIDs)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubscriptionInfo, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		user, ok := userMap[id]
		if !ok {
			continue
		}

		recipes, err := s.recipeRepo.ListByAuthor(id, recipesLimit)
		if err != nil {
			return nil, err
		}
		previews := make([]dto.RecipeShortInfo, 0, len(recipes))
		for i := range recipes {
			previews = append(previews, ToRecipeShortInfo(&recipes[i]))
		}

		items = append(items, dto.SubscriptionInfo{
			UserInfo:     ToUserInfo(user, subscribed[id]),
			RecipesCount: counts[id],
			Recipes:      previews,
		})
	}
	return items, nil
}
