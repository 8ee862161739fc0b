package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"foodgram-go/internal/model"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// RecipeDoc ES 菜谱文档结构
type RecipeDoc struct {
	ID             int64    `json:"id"`
	AuthorID       int64    `json:"author_id"`
	AuthorUsername string   `json:"author_username"`
	Name           string   `json:"name"`
	Text           string   `json:"text"`
	Tags           []string `json:"tags"`
	Ingredients    []string `json:"ingredients"`
	CookingTime    int      `json:"cooking_time"`
	PubDate        string   `json:"pub_date"`
}

// NewRecipeDoc 由预加载了作者、标签、食材的菜谱构建文档
func NewRecipeDoc(r *model.Recipe) *RecipeDoc {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Slug)
	}
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, ri.Ingredient.Name)
	}
	return &RecipeDoc{
		ID:             r.ID,
		AuthorID:       r.AuthorID,
		AuthorUsername: r.Author.Username,
		Name:           r.Name,
		Text:           r.Text,
		Tags:           tags,
		Ingredients:    ingredients,
		CookingTime:    r.CookingTime,
		PubDate:        r.PubDate.UTC().Format(time.RFC3339),
	}
}

// IndexRecipe 写入（覆盖）单个菜谱文档
func IndexRecipe(ctx context.Context, indexName string, r *model.Recipe) error {
	body, err := json.Marshal(NewRecipeDoc(r))
	if err != nil {
		return err
	}

	resp, err := Index(ctx, indexName, strconv.FormatInt(r.ID, 10), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Recipe synced to ES", zap.Int64("recipe_id", r.ID))
	return nil
}

// DeleteRecipe 从 ES 删除菜谱，文档不存在不算错误
func DeleteRecipe(ctx context.Context, indexName string, recipeID int64) error {
	resp, err := Delete(ctx, indexName, strconv.FormatInt(recipeID, 10))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BuildBulkBody 生成 bulk index 请求体（NDJSON）
func BuildBulkBody(indexName string, recipes []model.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	for i := range recipes {
		meta := map[string]map[string]string{
			"index": {"_index": indexName, "_id": strconv.FormatInt(recipes[i].ID, 10)},
		}
		metaLine, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		docLine, err := json.Marshal(NewRecipeDoc(&recipes[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(metaLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// BulkIndexRecipes 批量同步菜谱到 ES
func BulkIndexRecipes(ctx context.Context, indexName string, recipes []model.Recipe) (success, failed int, err error) {
	if len(recipes) == 0 {
		return 0, 0, nil
	}

	body, err := BuildBulkBody(indexName, recipes)
	if err != nil {
		return 0, len(recipes), err
	}

	resp, err := Bulk(ctx, bytes.NewReader(body))
	if err != nil {
		return 0, len(recipes), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(recipes), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return len(recipes), 0, nil
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}

// SearchRecipeIDs 执行查询，返回命中的菜谱 ID（按得分排序）和总数
func SearchRecipeIDs(ctx context.Context, indexName string, query map[string]interface{}) ([]int64, int64, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, 0, err
	}

	resp, err := Search(ctx, indexName, bytes.NewReader(queryJSON))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, esResp.Hits.Total.Value, nil
}
