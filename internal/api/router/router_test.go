package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"foodgram-go/internal/api/handler"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/config"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.Set(config.Default())
	t.Cleanup(func() { config.Set(nil) })

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	followRepo := repository.NewFollowRepository(db)
	viewer := service.NewViewerStates(favoriteRepo, cartRepo, followRepo)

	authService := service.NewAuthService(userRepo, &memoryRevoker{revoked: map[string]bool{}})
	userService := service.NewUserService(userRepo, viewer, nil)

	r := gin.New()
	Setup(r, &Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Relation: handler.NewRelationHandler(service.NewRelationService(followRepo, userRepo, recipeRepo, viewer)),
		Recipe:   handler.NewRecipeHandler(service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, userRepo, viewer, nil, nil)),
		Favorite: handler.NewFavoriteHandler(service.NewFavoriteService(favoriteRepo, cartRepo, recipeRepo)),
		Catalog:  handler.NewCatalogHandler(service.NewCatalogService(tagRepo, ingredientRepo, nil)),
		Search:   handler.NewSearchHandler(service.NewSearchService(recipeRepo, viewer, "recipes")),
	}, authService, middleware.AdminRequired(userService.IsAdmin))

	return &testServer{t: t, db: db, engine: r}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// login 以 testutil 默认密码登录
func (s *testServer) login(user *model.User) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/token/login", "", map[string]string{
		"email":    user.Email,
		"password": "password123",
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AuthToken string `json:"auth_token"`
		} `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Data.AuthToken)
	return resp.Data.AuthToken
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    int                 `json:"code"`
		Message string              `json:"message"`
		Fields  map[string][]string `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Ann",
		"last_name":  "Cook",
		"password":   "long-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/auth/token/login", "", map[string]string{
		"email":    "cook@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"email":    "not-an-email",
		"username": "x",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Contains(t, env.Error.Fields, "email")
	assert.Contains(t, env.Error.Fields, "password")
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "cook")
	token := s.login(user)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/users/me", token, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/v1/auth/token/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", "", nil).Code)
}

func TestRecipeLifecycle(t *testing.T) {
	s := newTestServer(t)
	author := testutil.CreateUser(t, s.db, "chef")
	fan := testutil.CreateUser(t, s.db, "fan")
	tag := testutil.CreateTag(t, s.db, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, s.db, "Salt", "g")
	authorToken := s.login(author)
	fanToken := s.login(fan)

	payload := map[string]interface{}{
		"ingredients":  []map[string]int64{{"id": salt.ID, "amount": 5}},
		"tags":         []int64{tag.ID},
		"image":        pngDataURI,
		"name":         "Salted water",
		"text":         "Boil.",
		"cooking_time": 5,
	}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/recipes", "", payload).Code)

	w := s.do(http.MethodPost, "/api/v1/recipes", authorToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	recipePath := fmt.Sprintf("/api/v1/recipes/%d", created.ID)

	w = s.do(http.MethodPost, recipePath+"/favorite", fanToken, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, recipePath+"/favorite", fanToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "recipe already added", decode(t, w).Error.Message)

	w = s.do(http.MethodGet, recipePath, fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		IsFavorited      bool `json:"is_favorited"`
		IsInShoppingCart bool `json:"is_in_shopping_cart"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &detail))
	assert.True(t, detail.IsFavorited)
	assert.False(t, detail.IsInShoppingCart)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, recipePath+"/shopping_cart", fanToken, nil).Code)
	w = s.do(http.MethodGet, "/api/v1/recipes/download_shopping_cart", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shopping list:\nSalt (g) - 5", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="shopping_list.txt"`)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	payload["name"] = "Hijacked"
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, recipePath, fanToken, payload).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, recipePath, fanToken, nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, recipePath, authorToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, recipePath, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, recipePath+"/favorite", fanToken, nil).Code)
}

func TestRecipeValidationErrors(t *testing.T) {
	s := newTestServer(t)
	author := testutil.CreateUser(t, s.db, "chef")
	tag := testutil.CreateTag(t, s.db, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, s.db, "Salt", "g")
	token := s.login(author)

	w := s.do(http.MethodPost, "/api/v1/recipes", token, map[string]interface{}{
		"ingredients":  []map[string]int64{{"id": salt.ID, "amount": 0}},
		"tags":         []int64{tag.ID, tag.ID},
		"image":        pngDataURI,
		"name":         "Bad",
		"text":         "Bad.",
		"cooking_time": 0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w).Error.Fields
	assert.Contains(t, fields, "cooking_time")
	assert.Contains(t, fields, "tags")
	assert.Contains(t, fields, "ingredients[0].amount")
}

func TestRecipeListPagination(t *testing.T) {
	s := newTestServer(t)
	author := testutil.CreateUser(t, s.db, "chef")
	tag := testutil.CreateTag(t, s.db, "Lunch", "#49B64E", "lunch")
	for i := 0; i < 8; i++ {
		testutil.CreateRecipe(t, s.db, author.ID, fmt.Sprintf("Recipe %d", i), []*model.Tag{tag}, nil)
	}

	w := s.do(http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count    int64             `json:"count"`
		Next     *int              `json:"next"`
		Previous *int              `json:"previous"`
		Results  []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Equal(t, int64(8), page.Count)
	assert.Len(t, page.Results, 6)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
	assert.Nil(t, page.Previous)

	w = s.do(http.MethodGet, "/api/v1/recipes?page=2&limit=5&tags=lunch", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Len(t, page.Results, 3)
	assert.Nil(t, page.Next)
}

func TestSubscriptionEndpoints(t *testing.T) {
	s := newTestServer(t)
	author := testutil.CreateUser(t, s.db, "chef")
	fan := testutil.CreateUser(t, s.db, "fan")
	token := s.login(fan)

	selfPath := fmt.Sprintf("/api/v1/users/%d/subscribe", fan.ID)
	authorPath := fmt.Sprintf("/api/v1/users/%d/subscribe", author.ID)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, selfPath, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, authorPath, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/v1/users/999/subscribe", token, nil).Code)

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, authorPath, token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, authorPath, token, nil).Code)

	w := s.do(http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Equal(t, int64(1), page.Count)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", author.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user struct {
		IsSubscribed bool `json:"is_subscribed"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &user))
	assert.True(t, user.IsSubscribed)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, authorPath, token, nil).Code)
}

func TestAdminOnlyEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "plain")
	admin := testutil.CreateAdmin(t, s.db, "boss")
	tag := map[string]string{"name": "Dinner", "color": "#112233", "slug": "dinner"}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/tags", "", tag).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/tags", s.login(user), tag).Code)

	adminToken := s.login(admin)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/tags", adminToken, tag).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/tags", adminToken, tag).Code)

	w := s.do(http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &tags))
	assert.Len(t, tags, 1)

	w = s.do(http.MethodPost, "/api/v1/ingredients", adminToken, map[string]string{"name": "Salt", "measurement_unit": "g"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodGet, "/api/v1/ingredients?name=sa", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodPost, "/api/v1/recipes/search/sync", adminToken, nil).Code)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", user.ID), s.login(user), nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", user.ID), adminToken, nil).Code)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	s := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "leaver")
	author := testutil.CreateUser(t, s.db, "chef")
	admin := testutil.CreateAdmin(t, s.db, "boss")
	recipe := testutil.CreateRecipe(t, s.db, author.ID, "Soup", nil, nil)

	token := s.login(user)
	w := s.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", user.ID), s.login(admin), nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/favorite", recipe.ID), token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	assert.Equal(t, "user not found", decode(t, w).Error.Message)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/subscribe", author.ID), token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/recipes", token, nil).Code)
}

func TestPasswordOverBcryptLimit(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Ann",
		"last_name":  "Cook",
		"password":   strings.Repeat("p", 100),
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w).Error.Fields, "password")

	user := testutil.CreateUser(t, s.db, "baker")
	w = s.do(http.MethodPost, "/api/v1/users/set_password", s.login(user), map[string]string{
		"new_password":     strings.Repeat("n", 100),
		"current_password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w).Error.Fields, "new_password")
}
