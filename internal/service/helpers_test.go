package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"foodgram-go/internal/config"
	infraKafka "foodgram-go/internal/infra/kafka"
	infraMinio "foodgram-go/internal/infra/minio"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/testutil"

	"gorm.io/gorm"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

type fakeImages struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failNew bool
}

func (f *fakeImages) SaveImage(_ context.Context, dataURI string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", infraMinio.ErrInvalidImage
	}
	if f.failNew {
		return "", errors.New("storage down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "http://images.test/recipes/" + string(rune('a'+len(f.saved))) + ".png"
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImages) DeleteImage(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []infraKafka.RecipeEvent
	err    error
}

func (f *fakeEvents) PublishRecipeEvent(_ context.Context, event *infraKafka.RecipeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return f.err
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
	hits  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	raw, ok := f.items[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = raw
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.items {
		if strings.HasPrefix(k, prefix) {
			delete(f.items, k)
		}
	}
	return nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[jti]
	return ok, nil
}

// fixture 基于内存 SQLite 的完整服务集合
type fixture struct {
	db        *gorm.DB
	images    *fakeImages
	events    *fakeEvents
	recipes   *RecipeService
	favorites *FavoriteService
	relations *RelationService
	users     *UserService
	search    *SearchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

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
	viewer := NewViewerStates(favoriteRepo, cartRepo, followRepo)

	images := &fakeImages{}
	events := &fakeEvents{}
	return &fixture{
		db:        db,
		images:    images,
		events:    events,
		recipes:   NewRecipeService(recipeRepo, tagRepo, ingredientRepo, userRepo, viewer, images, events),
		favorites: NewFavoriteService(favoriteRepo, cartRepo, recipeRepo),
		relations: NewRelationService(followRepo, userRepo, recipeRepo, viewer),
		users:     NewUserService(userRepo, viewer, images),
		search:    NewSearchService(recipeRepo, viewer, "recipes"),
	}
}
