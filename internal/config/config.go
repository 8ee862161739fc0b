package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Recipe        RecipeConfig        `mapstructure:"recipe"`
	Pagination    PaginationConfig    `mapstructure:"pagination"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Log           LogConfig           `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置，Enabled=false 时目录缓存和令牌吊销都退化为直连数据库/不吊销
type RedisConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	PoolSize        int    `mapstructure:"pool_size"`
	CatalogCacheTTL int    `mapstructure:"catalog_cache_ttl"` // 秒
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CatalogTTL 返回目录缓存过期时间
func (r *RedisConfig) CatalogTTL() time.Duration {
	return time.Duration(r.CatalogCacheTTL) * time.Second
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	UseSSL      bool   `mapstructure:"use_ssl"`
	ImageBucket string `mapstructure:"image_bucket"`
	PublicURL   string `mapstructure:"public_url"` // 为空时使用 endpoint 拼接
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
	GroupID string            `mapstructure:"group_id"`
}

// RecipeEventsTopic 返回菜谱事件 topic
func (k *KafkaConfig) RecipeEventsTopic() string {
	if t := k.Topics["recipe_events"]; t != "" {
		return t
	}
	return "recipe-events"
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts []string          `mapstructure:"hosts"`
	Index map[string]string `mapstructure:"index"`
}

// RecipesIndex 返回菜谱索引名
func (e *ElasticsearchConfig) RecipesIndex() string {
	if name := e.Index["recipes"]; name != "" {
		return name
	}
	return "recipes"
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// ExpireDuration 返回过期时间
func (j *JWTConfig) ExpireDuration() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// RecipeConfig 菜谱校验边界
type RecipeConfig struct {
	MinCookingTime int `mapstructure:"min_cooking_time"`
	MaxCookingTime int `mapstructure:"max_cooking_time"`
	MinAmount      int `mapstructure:"min_amount"`
	MaxAmount      int `mapstructure:"max_amount"`
	NameMaxLength  int `mapstructure:"name_max_length"`
}

// PaginationConfig 分页配置（page + limit）
type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// 全局配置实例
var globalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "foodgram")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("app.port", 8000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "foodgram")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.catalog_cache_ttl", 600)

	v.SetDefault("minio.image_bucket", "recipe-images")

	v.SetDefault("kafka.topics", map[string]string{"recipe_events": "recipe-events"})
	v.SetDefault("kafka.group_id", "foodgram-search-indexer")

	v.SetDefault("elasticsearch.index", map[string]string{"recipes": "recipes"})

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.expire_hours", 72)

	v.SetDefault("recipe.min_cooking_time", 1)
	v.SetDefault("recipe.max_cooking_time", 4320)
	v.SetDefault("recipe.min_amount", 1)
	v.SetDefault("recipe.max_amount", 1000)
	v.SetDefault("recipe.name_max_length", 200)

	v.SetDefault("pagination.default_limit", 6)
	v.SetDefault("pagination.max_limit", 100)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Load 加载配置文件，环境变量 RECIPES_DATABASE_HOST 之类可覆盖文件中的值
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("recipes")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Default 仅由默认值构建配置（不读文件、不设置全局变量）
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return &cfg
}

// Set 替换全局配置
func Set(cfg *Config) {
	globalConfig = cfg
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}

func GetApp() *AppConfig {
	return &Get().App
}

func GetJWT() *JWTConfig {
	return &Get().JWT
}

func GetRecipe() *RecipeConfig {
	return &Get().Recipe
}

func GetPagination() *PaginationConfig {
	return &Get().Pagination
}
