package service

import (
	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
)

// RecipeViewerState 菜谱相对当前查看者的状态
type RecipeViewerState struct {
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// ViewerStates 批量计算查看者相关的布尔字段，viewerID 为 0 表示匿名
type ViewerStates struct {
	favoriteRepo *repository.FavoriteRepository
	cartRepo     *repository.ShoppingCartRepository
	followRepo   *repository.FollowRepository
}

func NewViewerStates(
	favoriteRepo *repository.FavoriteRepository,
	cartRepo *repository.ShoppingCartRepository,
	followRepo *repository.FollowRepository,
) *ViewerStates {
	return &ViewerStates{favoriteRepo: favoriteRepo, cartRepo: cartRepo, followRepo: followRepo}
}

// ForRecipes 每个菜谱的收藏/购物车/作者订阅状态
func (v *ViewerStates) ForRecipes(viewerID int64, recipes []model.Recipe) (map[int64]RecipeViewerState, error) {
	states := make(map[int64]RecipeViewerState, len(recipes))
	if viewerID == 0 || len(recipes) == 0 {
		return states, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	favorited, err := v.favoriteRepo.BatchCheckFavorited(viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := v.cartRepo.BatchCheckInCart(viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := v.followRepo.BatchCheckFollowing(viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for i := range recipes {
		states[recipes[i].ID] = RecipeViewerState{
			IsFavorited:      favorited[recipes[i].ID],
			IsInShoppingCart: inCart[recipes[i].ID],
			AuthorSubscribed: subscribed[recipes[i].AuthorID],
		}
	}
	return states, nil
}

// ForUsers 查看者是否订阅了各用户
func (v *ViewerStates) ForUsers(viewerID int64, userIDs []int64) (map[int64]bool, error) {
	if viewerID == 0 || len(userIDs) == 0 {
		return map[int64]bool{}, nil
	}
	return v.followRepo.BatchCheckFollowing(viewerID, userIDs)
}

func ToTagInfo(t *model.Tag) dto.TagInfo {
	return dto.TagInfo{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ToIngredientInfo(i *model.Ingredient) dto.IngredientInfo {
	return dto.IngredientInfo{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func ToUserInfo(u *model.User, subscribed bool) dto.UserInfo {
	return dto.UserInfo{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func ToRecipeShortInfo(r *model.Recipe) dto.RecipeShortInfo {
	return dto.RecipeShortInfo{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// ToRecipeInfo 菜谱需预加载作者、标签、食材
func ToRecipeInfo(r *model.Recipe, state RecipeViewerState) dto.RecipeInfo {
	tags := make([]dto.TagInfo, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, ToTagInfo(&r.Tags[i]))
	}

	ingredients := make([]dto.RecipeIngredientInfo, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, dto.RecipeIngredientInfo{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	return dto.RecipeInfo{
		ID:               r.ID,
		Tags:             tags,
		Author:           ToUserInfo(&r.Author, state.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      state.IsFavorited,
		IsInShoppingCart: state.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}

// toRecipeInfos 批量转换并附加查看者状态
func (v *ViewerStates) toRecipeInfos(viewerID int64, recipes []model.Recipe) ([]dto.RecipeInfo, error) {
	states, err := v.ForRecipes(viewerID, recipes)
	if err != nil {
		return nil, err
	}
	infos := make([]dto.RecipeInfo, 0, len(recipes))
	for i := range recipes {
		infos = append(infos, ToRecipeInfo(&recipes[i], states[recipes[i].ID]))
	}
	return infos, nil
}
