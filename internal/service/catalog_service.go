package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"foodgram-go/internal/api/dto"
	infraRedis "foodgram-go/internal/infra/redis"
	"foodgram-go/internal/metrics"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

const cacheTimeout = 2 * time.Second

// CatalogService 标签与食材目录，读取走缓存（若配置）
type CatalogService struct {
	tagRepo        *repository.TagRepository
	ingredientRepo *repository.IngredientRepository
	cache          CatalogCache
}

// NewCatalogService cache 为 nil 时直接读库
func NewCatalogService(tagRepo *repository.TagRepository, ingredientRepo *repository.IngredientRepository, cache CatalogCache) *CatalogService {
	return &CatalogService{tagRepo: tagRepo, ingredientRepo: ingredientRepo, cache: cache}
}

// ListTags 全部标签
func (s *CatalogService) ListTags() ([]dto.TagInfo, error) {
	key := infraRedis.CatalogKey("tags")

	var cached []dto.TagInfo
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	tags, err := s.tagRepo.List()
	if err != nil {
		return nil, err
	}
	infos := make([]dto.TagInfo, 0, len(tags))
	for i := range tags {
		infos = append(infos, ToTagInfo(&tags[i]))
	}

	s.cacheSet(key, infos)
	return infos, nil
}

func (s *CatalogService) GetTag(id int64) (*dto.TagInfo, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	info := ToTagInfo(tag)
	return &info, nil
}

// CreateTag 创建标签（管理员）
func (s *CatalogService) CreateTag(req *dto.CreateTagRequest) (*dto.TagInfo, error) {
	tag := &model.Tag{
		Name:  strings.TrimSpace(req.Name),
		Color: strings.ToUpper(req.Color),
		Slug:  strings.TrimSpace(req.Slug),
	}
	if !slugPattern.MatchString(tag.Slug) {
		return nil, fieldError("slug", "enter a valid slug consisting of letters, numbers, underscores or hyphens")
	}

	conflict, err := s.tagRepo.ExistsConflict(tag.Name, tag.Color, tag.Slug)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fieldError("non_field_errors", "tag with this name, color or slug already exists")
	}

	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}
	s.invalidate(infraRedis.CatalogKey("tags"))

	info := ToTagInfo(tag)
	return &info, nil
}

// ListIngredients 按名称前缀过滤食材
func (s *CatalogService) ListIngredients(prefix string) ([]dto.IngredientInfo, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	key := infraRedis.CatalogKey("ingredients", prefix)

	var cached []dto.IngredientInfo
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	ingredients, err := s.ingredientRepo.List(prefix)
	if err != nil {
		return nil, err
	}
	infos := make([]dto.IngredientInfo, 0, len(ingredients))
	for i := range ingredients {
		infos = append(infos, ToIngredientInfo(&ingredients[i]))
	}

	s.cacheSet(key, infos)
	return infos, nil
}

func (s *CatalogService) GetIngredient(id int64) (*dto.IngredientInfo, error) {
	ing, err := s.ingredientRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	info := ToIngredientInfo(ing)
	return &info, nil
}

// CreateIngredient 创建食材（管理员）
func (s *CatalogService) CreateIngredient(req *dto.CreateIngredientRequest) (*dto.IngredientInfo, error) {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.MeasurementUnit)

	exists, err := s.ingredientRepo.Exists(name, unit)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fieldError("non_field_errors", "ingredient with this name and measurement unit already exists")
	}

	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	if err := s.ingredientRepo.Create(ing); err != nil {
		return nil, err
	}
	s.invalidate(infraRedis.CatalogKey("ingredients"))

	info := ToIngredientInfo(ing)
	return &info, nil
}

// cacheGet 缓存出错视为未命中
func (s *CatalogService) cacheGet(key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		hit = false
	}
	metrics.RecordCacheLookup(hit)
	return hit
}

func (s *CatalogService) cacheSet(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := s.cache.Set(ctx, key, value); err != nil {
		logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) invalidate(prefix string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := s.cache.Invalidate(ctx, prefix); err != nil {
		logger.Warn("Catalog cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}

// ImportIngredients 批量导入食材，已存在的 (name, unit) 跳过
func (s *CatalogService) ImportIngredients(items []dto.CreateIngredientRequest) (created, skipped int, err error) {
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		unit := strings.TrimSpace(item.MeasurementUnit)
		if name == "" || unit == "" {
			skipped++
			continue
		}

		_, isNew, err := s.ingredientRepo.FirstOrCreate(name, unit)
		if err != nil {
			return created, skipped, err
		}
		if isNew {
			created++
		} else {
			skipped++
		}
	}

	if created > 0 {
		s.invalidate(infraRedis.CatalogKey("ingredients"))
	}
	logger.Info("Ingredients imported", zap.Int("created", created), zap.Int("skipped", skipped))
	return created, skipped, nil
}
