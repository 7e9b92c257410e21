package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store types
const (
	StorePostgres = "postgres"
	StoreSupabase = "supabase"
)

// Cache types
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// StoreConfig selects and configures the offer store
type StoreConfig struct {
	Type         string  `mapstructure:"type"` // "postgres" or "supabase"
	PostgresDSN  string  `mapstructure:"postgres_dsn"`
	SupabaseURL  string  `mapstructure:"supabase_url"`
	SupabaseKey  string  `mapstructure:"supabase_key"`
	MaxOpenConns int     `mapstructure:"max_open_conns"`
	MaxIdleConns int     `mapstructure:"max_idle_conns"`
	RateLimit    float64 `mapstructure:"rate_limit"`
}

// CacheConfig holds catalog snapshot cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "none", "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig tunes the matcher and seller ranking
type MatchingConfig struct {
	PenaltyPrice          float64  `mapstructure:"penalty_price"`
	PartialFullThreshold  float64  `mapstructure:"partial_full_threshold"`
	PartialCleanThreshold float64  `mapstructure:"partial_clean_threshold"`
	StopWords             []string `mapstructure:"stop_words"`
	Workers               int      `mapstructure:"workers"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/korzina/")
	}

	v.SetEnvPrefix("KORZINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional unless given explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory without overriding
// variables already set. A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", "15s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Store defaults
	v.SetDefault("store.type", StoreSupabase)
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("store.supabase_url", "")
	v.SetDefault("store.supabase_key", "")
	v.SetDefault("store.max_open_conns", 10)
	v.SetDefault("store.max_idle_conns", 5)
	v.SetDefault("store.rate_limit", 10)

	// Cache defaults
	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "5m")

	// Matching defaults
	v.SetDefault("matching.penalty_price", 1000.0)
	v.SetDefault("matching.partial_full_threshold", 0.6)
	v.SetDefault("matching.partial_clean_threshold", 0.6)
	v.SetDefault("matching.stop_words", []string{})
	v.SetDefault("matching.workers", 4)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Store.Type {
	case StorePostgres:
		if config.Store.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is required (set KORZINA_STORE_POSTGRES_DSN)")
		}
	case StoreSupabase:
		if config.Store.SupabaseURL == "" || config.Store.SupabaseKey == "" {
			return fmt.Errorf("supabase URL and key are required (set KORZINA_STORE_SUPABASE_URL and KORZINA_STORE_SUPABASE_KEY)")
		}
	default:
		return fmt.Errorf("store type must be 'postgres' or 'supabase', got: %s", config.Store.Type)
	}

	switch config.Cache.Type {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'none', 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if !inUnitInterval(config.Matching.PartialFullThreshold) {
		return fmt.Errorf("matching.partial_full_threshold must be in (0,1], got: %v", config.Matching.PartialFullThreshold)
	}
	if !inUnitInterval(config.Matching.PartialCleanThreshold) {
		return fmt.Errorf("matching.partial_clean_threshold must be in (0,1], got: %v", config.Matching.PartialCleanThreshold)
	}
	if config.Matching.PenaltyPrice < 0 {
		return fmt.Errorf("matching.penalty_price must not be negative, got: %v", config.Matching.PenaltyPrice)
	}

	return nil
}

func inUnitInterval(v float64) bool {
	return v > 0 && v <= 1
}
