package service

import (
	"context"
	"errors"
	"time"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/config"
	infraKafka "foodgram-go/internal/infra/kafka"
	infraMinio "foodgram-go/internal/infra/minio"
	"foodgram-go/internal/metrics"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrRecipeForbidden = errors.New("you do not have permission to modify this recipe")
)

const imageTimeout = 30 * time.Second

type RecipeService struct {
	recipeRepo     *repository.RecipeRepository
	tagRepo        *repository.TagRepository
	ingredientRepo *repository.IngredientRepository
	userRepo       *repository.UserRepository
	viewer         *ViewerStates
	images         ImageStorage
	events         EventPublisher
}

// NewRecipeService images 为 nil 时图片字段原样保存，events 为 nil 时不发布事件
func NewRecipeService(
	recipeRepo *repository.RecipeRepository,
	tagRepo *repository.TagRepository,
	ingredientRepo *repository.IngredientRepository,
	userRepo *repository.UserRepository,
	viewer *ViewerStates,
	images ImageStorage,
	events EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		userRepo:       userRepo,
		viewer:         viewer,
		images:         images,
		events:         events,
	}
}

// Create 创建菜谱
func (s *RecipeService) Create(authorID int64, req *dto.RecipeRequest) (*dto.RecipeInfo, error) {
	input, verr := validateRecipeInput(req, config.GetRecipe(), true)
	if verr != nil {
		return nil, verr
	}
	if err := s.checkReferences(input); err != nil {
		return nil, err
	}

	imageURL, err := s.saveImage(input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       imageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}
	if err := s.recipeRepo.Create(recipe, input.TagIDs, input.Items); err != nil {
		s.deleteImage(imageURL)
		return nil, err
	}

	logger.Info("Recipe created", zap.Int64("recipe_id", recipe.ID), zap.Int64("author_id", authorID))
	s.publish(infraKafka.RecipeCreated, recipe.ID, authorID)

	return s.Get(recipe.ID, authorID)
}

// Update 整体更新菜谱（作者或管理员），image 省略时保留原图
func (s *RecipeService) Update(actorID, recipeID int64, req *dto.RecipeRequest) (*dto.RecipeInfo, error) {
	recipe, err := s.getForModify(actorID, recipeID)
	if err != nil {
		return nil, err
	}

	input, verr := validateRecipeInput(req, config.GetRecipe(), false)
	if verr != nil {
		return nil, verr
	}
	if err := s.checkReferences(input); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"name":         input.Name,
		"text":         input.Text,
		"cooking_time": input.CookingTime,
	}

	var newImage string
	if input.Image != "" {
		if newImage, err = s.saveImage(input.Image); err != nil {
			return nil, err
		}
		fields["image"] = newImage
	}

	if err := s.recipeRepo.Update(recipeID, fields, input.TagIDs, input.Items); err != nil {
		s.deleteImage(newImage)
		return nil, err
	}
	if newImage != "" {
		s.deleteImage(recipe.Image)
	}

	logger.Info("Recipe updated", zap.Int64("recipe_id", recipeID), zap.Int64("actor_id", actorID))
	s.publish(infraKafka.RecipeUpdated, recipeID, recipe.AuthorID)

	return s.Get(recipeID, actorID)
}

// Delete 删除菜谱（作者或管理员），级联删除收藏、购物车和食材行
func (s *RecipeService) Delete(actorID, recipeID int64) error {
	recipe, err := s.getForModify(actorID, recipeID)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	s.deleteImage(recipe.Image)

	logger.Info("Recipe deleted", zap.Int64("recipe_id", recipeID), zap.Int64("actor_id", actorID))
	s.publish(infraKafka.RecipeDeleted, recipeID, recipe.AuthorID)
	return nil
}

// Get 菜谱详情，viewerID 为 0 表示匿名
func (s *RecipeService) Get(recipeID, viewerID int64) (*dto.RecipeInfo, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	infos, err := s.viewer.toRecipeInfos(viewerID, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &infos[0], nil
}

// List 菜谱列表；收藏/购物车过滤只对登录用户生效
func (s *RecipeService) List(viewerID int64, query *dto.RecipeListQuery, page, limit int) (*dto.Page[dto.RecipeInfo], error) {
	filter := repository.RecipeFilter{
		TagSlugs: query.Tags,
		AuthorID: query.Author,
	}
	if viewerID != 0 {
		if query.IsFavorited {
			filter.FavoritedBy = viewerID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipeRepo.List(filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	infos, err := s.viewer.toRecipeInfos(viewerID, recipes)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(infos, total, page, limit), nil
}

// ShoppingList 生成购物清单文本
func (s *RecipeService) ShoppingList(userID int64) (string, error) {
	items, err := s.recipeRepo.ShoppingList(userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(items), nil
}

// getForModify 读取菜谱并检查修改权限
func (s *RecipeService) getForModify(actorID, recipeID int64) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID == actorID {
		return recipe, nil
	}

	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeForbidden
		}
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrRecipeForbidden
	}
	return recipe, nil
}

func (s *RecipeService) saveImage(dataURI string) (string, error) {
	if s.images == nil {
		return dataURI, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
	defer cancel()

	url, err := s.images.SaveImage(ctx, dataURI)
	if err != nil {
		if errors.Is(err, infraMinio.ErrInvalidImage) {
			return "", fieldError("image", err.Error())
		}
		return "", err
	}
	return url, nil
}

func (s *RecipeService) deleteImage(url string) {
	deleteImages(s.images, url)
}

// deleteImages 尽力删除，失败只记日志
func deleteImages(images ImageStorage, urls ...string) {
	if images == nil {
		return
	}

	for _, url := range urls {
		if url == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
		if err := images.DeleteImage(ctx, url); err != nil {
			logger.Warn("Failed to delete recipe image", zap.String("url", url), zap.Error(err))
		}
		cancel()
	}
}

// publish 发布失败不影响请求结果
func (s *RecipeService) publish(eventType string, recipeID, authorID int64) {
	if s.events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := &infraKafka.RecipeEvent{Type: eventType, RecipeID: recipeID, AuthorID: authorID}
	err := s.events.PublishRecipeEvent(ctx, event)
	metrics.RecordRecipeEvent(eventType, err)
	if err != nil {
		logger.Warn("Failed to publish recipe event",
			zap.String("type", eventType),
			zap.Int64("recipe_id", recipeID),
			zap.Error(err),
		)
	}
}
