package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	Catalog        CatalogConfig
	Images         ImagesConfig
	Cache          CacheConfig
	RateLimit      RateLimitConfig
	Recommendation RecommendationConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int64    `mapstructure:"max_upload_mb"`
}

// CatalogConfig points at catalog files; empty paths use the embedded defaults
type CatalogConfig struct {
	NutritionFile       string `mapstructure:"nutrition_file"`
	RecommendationsFile string `mapstructure:"recommendations_file"`
}

// ImagesConfig holds image source configuration
type ImagesConfig struct {
	SearchBaseURL     string        `mapstructure:"search_base_url"`
	ScrapeBaseURL     string        `mapstructure:"scrape_base_url"`
	PlaceholderURL    string        `mapstructure:"placeholder_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	// AllowPrivateNetworks lets page inspection reach internal addresses
	AllowPrivateNetworks bool `mapstructure:"allow_private_networks"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	// MaxEntries bounds the memory cache; ignored for redis
	MaxEntries int `mapstructure:"max_entries"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// RecommendationConfig holds recommendation configuration
type RecommendationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
	Parallelism  int `mapstructure:"parallelism"`
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutriview/")

	// Environment variable settings
	v.SetEnvPrefix("NUTRIVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment win over the file.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.max_upload_mb", 10)

	// Catalog defaults (embedded data)
	v.SetDefault("catalog.nutrition_file", "")
	v.SetDefault("catalog.recommendations_file", "")

	// Image source defaults
	v.SetDefault("images.search_base_url", "https://source.unsplash.com/800x600/")
	v.SetDefault("images.scrape_base_url", "https://www.bing.com/images/search")
	v.SetDefault("images.placeholder_url", "https://placehold.co/400x300?text=No+Image")
	v.SetDefault("images.user_agent", "NutriView/1.0 (+food image resolver)")
	v.SetDefault("images.timeout", "10s")
	v.SetDefault("images.requests_per_second", 5)
	v.SetDefault("images.burst", 5)
	v.SetDefault("images.allow_private_networks", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 10000)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Recommendation defaults
	v.SetDefault("recommendation.default_limit", 5)
	v.SetDefault("recommendation.max_limit", 50)
	v.SetDefault("recommendation.parallelism", 4)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis' (set NUTRIVIEW_CACHE_REDIS_URL)")
	}

	if config.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries must not be negative, got: %d", config.Cache.MaxEntries)
	}

	if config.Images.Timeout <= 0 {
		return fmt.Errorf("images timeout must be positive, got: %s", config.Images.Timeout)
	}

	if config.Images.RequestsPerSecond < 0 {
		return fmt.Errorf("images requests_per_second must not be negative")
	}

	if config.Recommendation.DefaultLimit <= 0 {
		return fmt.Errorf("recommendation default_limit must be positive, got: %d", config.Recommendation.DefaultLimit)
	}

	if config.Recommendation.MaxLimit < config.Recommendation.DefaultLimit {
		return fmt.Errorf("recommendation max_limit (%d) must be at least default_limit (%d)",
			config.Recommendation.MaxLimit, config.Recommendation.DefaultLimit)
	}

	return nil
}
