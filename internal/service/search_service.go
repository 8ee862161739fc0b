package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodgram-go/internal/api/dto"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/metrics"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const syncBatchSize = 500

type SearchService struct {
	recipeRepo *repository.RecipeRepository
	viewer     *ViewerStates
	index      string
}

func NewSearchService(recipeRepo *repository.RecipeRepository, viewer *ViewerStates, index string) *SearchService {
	return &SearchService{recipeRepo: recipeRepo, viewer: viewer, index: index}
}

// SearchRecipes 搜索菜谱（ES 优先，不可用或失败则降级到 DB）
func (s *SearchService) SearchRecipes(viewerID int64, q string, page, limit int) (*dto.Page[dto.RecipeInfo], error) {
	q = strings.TrimSpace(q)

	var (
		recipes []model.Recipe
		total   int64
		err     error
	)
	if infraES.Ready() && q != "" {
		recipes, total, err = s.searchFromES(q, page, limit)
		if err != nil {
			logger.Warn("ES search failed, fallback to DB", zap.Error(err))
			metrics.SearchFallbacks.Inc()
			recipes, total, err = s.recipeRepo.SearchByName(q, (page-1)*limit, limit)
		}
	} else {
		recipes, total, err = s.recipeRepo.SearchByName(q, (page-1)*limit, limit)
	}
	if err != nil {
		return nil, err
	}

	infos, err := s.viewer.toRecipeInfos(viewerID, recipes)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(infos, total, page, limit), nil
}

func (s *SearchService) searchFromES(q string, page, limit int) ([]model.Recipe, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ids, total, err := infraES.SearchRecipeIDs(ctx, s.index, BuildRecipeQuery(q, page, limit))
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return nil, total, nil
	}

	recipes, err := s.recipeRepo.GetByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// BuildRecipeQuery 名称权重高于描述和食材，同分按发布时间倒序
func BuildRecipeQuery(q string, page, limit int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q,
				"fields":    []string{"name^3", "ingredients^2", "text"},
				"type":      "best_fields",
				"operator":  "or",
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    (page - 1) * limit,
		"size":    limit,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"pub_date": map[string]string{"order": "desc"}},
		},
	}
}

// HandleRecipeEvent 根据菜谱事件同步索引（worker 使用）
func (s *SearchService) HandleRecipeEvent(ctx context.Context, event *infraKafka.RecipeEvent) error {
	if event.Type == infraKafka.RecipeDeleted {
		return infraES.DeleteRecipe(ctx, s.index, event.RecipeID)
	}

	recipe, err := s.recipeRepo.GetByID(event.RecipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 事件积压期间菜谱已被删除
			return infraES.DeleteRecipe(ctx, s.index, event.RecipeID)
		}
		return err
	}
	return infraES.IndexRecipe(ctx, s.index, recipe)
}

// SyncAll 全量重建索引
func (s *SearchService) SyncAll() (*dto.SyncResult, error) {
	if !infraES.Ready() {
		return nil, infraES.ErrNotInitialized
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := &dto.SyncResult{}
	err := s.recipeRepo.ListAll(syncBatchSize, func(batch []model.Recipe) error {
		success, failed, err := infraES.BulkIndexRecipes(ctx, s.index, batch)
		result.Success += success
		result.Failed += failed
		return err
	})
	if err != nil {
		return result, err
	}

	logger.Info("Recipe index rebuilt", zap.Int("success", result.Success), zap.Int("failed", result.Failed))
	return result, nil
}
