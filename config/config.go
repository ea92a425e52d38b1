package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects where inventory snapshots are saved
type StorageConfig struct {
	Type      string        `mapstructure:"type"` // "memory", "file" or "redis"
	Dir       string        `mapstructure:"dir"`
	RedisURL  string        `mapstructure:"redis_url"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"` // 0 keeps snapshots forever
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stockkeep/")

	// STOCKKEEP_STORAGE_TYPE -> storage.type
	v.SetEnvPrefix("STOCKKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.key_prefix", "stockkeep:snapshot:")
	v.SetDefault("storage.ttl", "0s")

	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Storage.Type {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("storage type must be 'memory', 'file' or 'redis', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "file" && config.Storage.Dir == "" {
		return fmt.Errorf("storage dir is required when storage type is 'file'")
	}

	if config.Storage.Type == "redis" && config.Storage.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when storage type is 'redis'")
	}

	if config.Storage.TTL < 0 {
		return fmt.Errorf("storage ttl must not be negative, got: %s", config.Storage.TTL)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit per_ip and burst must be positive")
	}

	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
