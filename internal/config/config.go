package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	AI       AIConfig       `mapstructure:"ai"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // "debug" or "release"
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "mysql" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// AIConfig configures the external text-completion service. The client is
// OpenAI-compatible, so any provider reachable through base_url works.
type AIConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Model               string        `mapstructure:"model"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	CategorizeMaxTokens int           `mapstructure:"categorize_max_tokens"`
	QueryMaxTokens      int           `mapstructure:"query_max_tokens"`
	AutoAssignThreshold float64       `mapstructure:"auto_assign_threshold"`
}

// LoadConfig reads .env, config.yaml and SPENDWISE_* environment overrides,
// in that order of increasing precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; godotenv only seeds the process environment.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SPENDWISE")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("jwt.access_token_ttl", time.Hour)
	viper.SetDefault("jwt.refresh_token_ttl", 7*24*time.Hour)
	viper.SetDefault("ai.request_timeout", 30*time.Second)
	viper.SetDefault("ai.categorize_max_tokens", 100)
	viper.SetDefault("ai.query_max_tokens", 500)
	viper.SetDefault("ai.auto_assign_threshold", 0.8)

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional when everything comes from the environment.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on anything that would otherwise surface mid-request,
// most importantly the completion-service credential.
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return errors.New("ai.api_key is required (set SPENDWISE_AI_API_KEY)")
	}
	if c.AI.Model == "" {
		return errors.New("ai.model is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (set SPENDWISE_JWT_SECRET)")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	return nil
}
