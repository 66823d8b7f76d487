package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Env      string
	Port     string
	SiteName string
	SiteURL  string

	DatabaseDriver string
	DatabaseURL    string
	SeedGroups     bool

	SessionSecret string

	PageSize int

	CacheBackend  string
	CacheTTL      time.Duration
	CacheSize     int
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MediaRoot string
	MediaURL  string
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "8080")
	v.SetDefault("SITE_NAME", "PenHub")
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=penhub port=5432 sslmode=disable")
	v.SetDefault("SEED_GROUPS", true)
	v.SetDefault("SESSION_SECRET", "secret_key_change_me")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("CACHE_BACKEND", CacheMemory)
	v.SetDefault("CACHE_TTL", 20*time.Second)
	v.SetDefault("CACHE_SIZE", 500)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("MEDIA_URL", "/media")
}

// Load 读取 .env 文件与环境变量，返回校验后的配置
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:            strings.ToLower(v.GetString("APP_ENV")),
		Port:           v.GetString("PORT"),
		SiteName:       v.GetString("SITE_NAME"),
		SiteURL:        strings.TrimRight(v.GetString("SITE_URL"), "/"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		SeedGroups:     v.GetBool("SEED_GROUPS"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		PageSize:       v.GetInt("PAGE_SIZE"),
		CacheBackend:   strings.ToLower(v.GetString("CACHE_BACKEND")),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
		CacheSize:      v.GetInt("CACHE_SIZE"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		MediaRoot:      v.GetString("MEDIA_ROOT"),
		MediaURL:       strings.TrimRight(v.GetString("MEDIA_URL"), "/"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("config: unsupported CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("config: PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("config: CACHE_SIZE must be positive, got %d", c.CacheSize)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: CACHE_TTL must not be negative")
	}
	return nil
}
