package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/config"
	"foodgram-go/internal/model"
)

// validatedRecipe 通过校验的菜谱输入
type validatedRecipe struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []int64
	Items       []model.RecipeIngredient
}

// validateRecipeInput 只做形状与取值范围校验，不访问数据库
func validateRecipeInput(req *dto.RecipeRequest, bounds *config.RecipeConfig, requireImage bool) (*validatedRecipe, *ValidationError) {
	verr := &ValidationError{}

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		verr.Add("name", "this field is required")
	case bounds.NameMaxLength > 0 && utf8.RuneCountInString(name) > bounds.NameMaxLength:
		verr.Add("name", fmt.Sprintf("ensure this field has no more than %d characters", bounds.NameMaxLength))
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		verr.Add("text", "this field is required")
	}

	image := strings.TrimSpace(req.Image)
	switch {
	case image == "" && requireImage:
		verr.Add("image", "this field is required")
	case image != "" && !strings.HasPrefix(image, "data:image/"):
		verr.Add("image", "image must be a base64 encoded data URI")
	}

	if req.CookingTime < bounds.MinCookingTime {
		verr.Add("cooking_time", fmt.Sprintf("cooking time must be at least %d minute(s)", bounds.MinCookingTime))
	} else if req.CookingTime > bounds.MaxCookingTime {
		verr.Add("cooking_time", fmt.Sprintf("cooking time must not exceed %d minutes", bounds.MaxCookingTime))
	}

	if len(req.Tags) == 0 {
		verr.Add("tags", "at least one tag is required")
	} else if hasDuplicates(req.Tags) {
		verr.Add("tags", "tags must not repeat")
	}

	items := make([]model.RecipeIngredient, 0, len(req.Ingredients))
	if len(req.Ingredients) == 0 {
		verr.Add("ingredients", "at least one ingredient is required")
	} else {
		ids := make([]int64, 0, len(req.Ingredients))
		for i, in := range req.Ingredients {
			ids = append(ids, in.ID)
			field := fmt.Sprintf("ingredients[%d].amount", i)
			if in.Amount < bounds.MinAmount {
				verr.Add(field, fmt.Sprintf("amount must be at least %d", bounds.MinAmount))
			} else if in.Amount > bounds.MaxAmount {
				verr.Add(field, fmt.Sprintf("amount must not exceed %d", bounds.MaxAmount))
			}
			items = append(items, model.RecipeIngredient{IngredientID: in.ID, Amount: in.Amount})
		}
		if hasDuplicates(ids) {
			verr.Add("ingredients", "ingredients must not repeat")
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return &validatedRecipe{
		Name:        name,
		Text:        text,
		Image:       image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Items:       items,
	}, nil
}

// checkReferences 校验引用的标签和食材存在
func (s *RecipeService) checkReferences(v *validatedRecipe) error {
	verr := &ValidationError{}

	tagCount, err := s.tagRepo.CountByIDs(v.TagIDs)
	if err != nil {
		return err
	}
	if tagCount != int64(len(v.TagIDs)) {
		verr.Add("tags", "one or more tags do not exist")
	}

	ids := make([]int64, 0, len(v.Items))
	for _, item := range v.Items {
		ids = append(ids, item.IngredientID)
	}
	existing, err := s.ingredientRepo.ExistingIDs(ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !existing[id] {
			verr.Add("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
		}
	}

	return verr.OrNil()
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
