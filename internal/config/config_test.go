package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Recipe.MinCookingTime)
	assert.Equal(t, 4320, cfg.Recipe.MaxCookingTime)
	assert.Equal(t, 1, cfg.Recipe.MinAmount)
	assert.Equal(t, 1000, cfg.Recipe.MaxAmount)
	assert.Equal(t, 6, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.Equal(t, "recipe-events", cfg.Kafka.RecipeEventsTopic())
	assert.Equal(t, "recipes", cfg.Elasticsearch.RecipesIndex())
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  name: foodgram-test
  port: 9000
database:
  host: db.internal
  port: 6543
recipe:
  max_cooking_time: 600
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("RECIPES_DATABASE_HOST", "db.from.env")

	cfg, err := Load(path)
	require.NoError(t, err)
	t.Cleanup(func() { Set(nil) })

	assert.Equal(t, "foodgram-test", cfg.App.Name)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "db.from.env", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 600, cfg.Recipe.MaxCookingTime)
	// 未在文件中出现的字段使用默认值
	assert.Equal(t, 1, cfg.Recipe.MinCookingTime)
	assert.Same(t, cfg, Get())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", d.DSN())
}
