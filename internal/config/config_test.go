package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixjars/jarflow/internal/common"
	"github.com/sixjars/jarflow/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	v.Set("server.development", true)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "data/jarflow.db", cfg.Database.Path)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.Endpoints.Timeout)
	assert.Equal(t, 1000, cfg.GenAI.MaxTokens)
	assert.Equal(t, "financial_knowledge", cfg.Knowledge.Collection)
	assert.InDelta(t, 0.7, cfg.Classification.ReviewThreshold, 1e-9)
	assert.Equal(t, 5, cfg.Classification.BatchConcurrency)
	assert.Nil(t, cfg.Classification.JarOverrides)
}

func TestLoadExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("server.development", true)
	v.Set("server.port", 9090)
	v.Set("classification.review_threshold", 0.85)
	v.Set("classification.jar_overrides", map[string]string{
		"Dining": "necessities",
	})
	v.Set("endpoints.classification", "https://models.internal/classification")
	v.Set("endpoints.auth.token_url", "https://auth.internal/token")
	v.Set("endpoints.auth.client_id", "jarflow")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.85, cfg.Classification.ReviewThreshold, 1e-9)
	assert.Equal(t, model.JarNecessities, cfg.Classification.JarOverrides["dining"])
	assert.Equal(t, "https://models.internal/classification", cfg.Endpoints.Classification)
	assert.Equal(t, "https://auth.internal/token", cfg.Endpoints.Auth.TokenURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		mutate  func(v *viper.Viper)
		wantErr error
		name    string
	}{
		{
			name:    "port out of range",
			mutate:  func(v *viper.Viper) { v.Set("server.port", 70000) },
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "negative port",
			mutate:  func(v *viper.Viper) { v.Set("server.port", -1) },
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "review threshold above one",
			mutate:  func(v *viper.Viper) { v.Set("classification.review_threshold", 1.5) },
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "zero batch concurrency",
			mutate:  func(v *viper.Viper) { v.Set("classification.batch_concurrency", 0) },
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "unknown jar in override",
			mutate: func(v *viper.Viper) {
				v.Set("classification.jar_overrides", map[string]string{"dining": "slush_fund"})
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "api keys required outside development",
			mutate:  func(v *viper.Viper) { v.Set("server.development", false) },
			wantErr: common.ErrMissingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("server.development", true)
			tt.mutate(v)

			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateProductionWithAPIKeys(t *testing.T) {
	v := viper.New()
	v.Set("server.development", false)
	v.Set("server.api_keys", []string{"secret-key"})

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"secret-key"}, cfg.Server.APIKeys)
}
