// Package config resolves application configuration from viper into
// explicit typed values. Components receive their configuration through
// constructors; nothing reads viper after startup.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/model"
)

// Config is the full application configuration.
type Config struct {
	Server         ServerConfig
	Logging        LoggingConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Endpoints      EndpointsConfig
	GenAI          GenAIConfig
	Knowledge      KnowledgeConfig
	Classification ClassificationConfig
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string
	APIKeys         []string
	Port            int
	ShutdownTimeout time.Duration
	Development     bool
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string
	Format string
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string
}

// RedisConfig locates the session cache.
type RedisConfig struct {
	URL        string
	SessionTTL time.Duration
}

// EndpointAuth carries client-credentials auth for the managed endpoints.
type EndpointAuth struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// EndpointsConfig names the managed model endpoints.
type EndpointsConfig struct {
	Classification string
	Prediction     string
	Training       string
	Timeout        time.Duration
	Auth           EndpointAuth
}

// GenAIConfig configures the generative-text client.
type GenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	RateLimit   int
	Temperature float64
}

// KnowledgeConfig configures the vector-store knowledge base.
type KnowledgeConfig struct {
	BaseURL    string
	Collection string
}

// ClassificationConfig tunes the classification decision core.
type ClassificationConfig struct {
	// JarOverrides supplements or replaces entries in the default
	// category-to-jar table without a code change.
	JarOverrides     map[string]model.JarType
	ReviewThreshold  float64
	BatchConcurrency int
}

// Load resolves the configuration from the given viper instance,
// applying defaults for anything unset.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			APIKeys:         v.GetStringSlice("server.api_keys"),
			Development:     v.GetBool("server.development"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Redis: RedisConfig{
			URL:        v.GetString("redis.url"),
			SessionTTL: v.GetDuration("redis.session_ttl"),
		},
		Endpoints: EndpointsConfig{
			Classification: v.GetString("endpoints.classification"),
			Prediction:     v.GetString("endpoints.prediction"),
			Training:       v.GetString("endpoints.training"),
			Timeout:        v.GetDuration("endpoints.timeout"),
			Auth: EndpointAuth{
				TokenURL:     v.GetString("endpoints.auth.token_url"),
				ClientID:     v.GetString("endpoints.auth.client_id"),
				ClientSecret: v.GetString("endpoints.auth.client_secret"),
			},
		},
		GenAI: GenAIConfig{
			BaseURL:     v.GetString("genai.base_url"),
			APIKey:      v.GetString("genai.api_key"),
			Model:       v.GetString("genai.model"),
			MaxTokens:   v.GetInt("genai.max_tokens"),
			Temperature: v.GetFloat64("genai.temperature"),
			RateLimit:   v.GetInt("genai.rate_limit"),
		},
		Knowledge: KnowledgeConfig{
			BaseURL:    v.GetString("knowledge.base_url"),
			Collection: v.GetString("knowledge.collection"),
		},
		Classification: ClassificationConfig{
			ReviewThreshold:  v.GetFloat64("classification.review_threshold"),
			BatchConcurrency: v.GetInt("classification.batch_concurrency"),
			JarOverrides:     loadJarOverrides(v),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadJarOverrides(v *viper.Viper) map[string]model.JarType {
	raw := v.GetStringMapString("classification.jar_overrides")
	if len(raw) == 0 {
		return nil
	}

	overrides := make(map[string]model.JarType, len(raw))
	for category, jar := range raw {
		overrides[category] = model.JarType(jar)
	}
	return overrides
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.development", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", "data/jarflow.db")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.session_ttl", 24*time.Hour)
	v.SetDefault("endpoints.timeout", 30*time.Second)
	v.SetDefault("genai.model", "claude-3-sonnet-20240229")
	v.SetDefault("genai.max_tokens", 1000)
	v.SetDefault("genai.temperature", 0.3)
	v.SetDefault("genai.rate_limit", 60)
	v.SetDefault("knowledge.collection", "financial_knowledge")
	v.SetDefault("classification.review_threshold", 0.7)
	v.SetDefault("classification.batch_concurrency", 5)
}

// Validate checks the configuration for values that would misbehave at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", common.ErrInvalidConfig, c.Server.Port)
	}
	if c.Classification.ReviewThreshold < 0 || c.Classification.ReviewThreshold > 1 {
		return fmt.Errorf("%w: classification.review_threshold %.2f must be in [0,1]",
			common.ErrInvalidConfig, c.Classification.ReviewThreshold)
	}
	if c.Classification.BatchConcurrency <= 0 {
		return fmt.Errorf("%w: classification.batch_concurrency must be positive", common.ErrInvalidConfig)
	}
	for category, jar := range c.Classification.JarOverrides {
		if !jar.Valid() {
			return fmt.Errorf("%w: jar override for %q names unknown jar %q",
				common.ErrInvalidConfig, category, jar)
		}
	}
	if !c.Server.Development && len(c.Server.APIKeys) == 0 {
		return fmt.Errorf("%w: server.api_keys required outside development mode", common.ErrMissingConfig)
	}
	return nil
}
