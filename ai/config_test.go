package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "none", cfg.APIToken)
	assert.Equal(t, 64, cfg.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://custom:8080/v1"),
			WithEmbeddingModel("custom-embed"),
			WithAPIToken("secret"),
			WithBatchSize(8),
			WithRequestTimeout(time.Second),
		)

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "custom-embed", cfg.EmbeddingModel)
		assert.Equal(t, "secret", cfg.APIToken)
		assert.Equal(t, 8, cfg.BatchSize)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "already has /v1", host: "http://localhost:11434/v1", expected: "http://localhost:11434/v1"},
		{name: "missing /v1", host: "http://localhost:11434", expected: "http://localhost:11434/v1"},
		{name: "has trailing slash", host: "http://localhost:11434/", expected: "http://localhost:11434/v1"},
		{name: "empty host", host: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, "none", cfg.APIToken)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			EmbeddingHost:  "http://localhost:11434",
			EmbeddingModel: "embeddinggemma",
			BatchSize:      16,
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing host", mutate: func(c *Config) { c.EmbeddingHost = "" }, wantErr: "EmbeddingHost"},
		{name: "missing model", mutate: func(c *Config) { c.EmbeddingModel = "" }, wantErr: "EmbeddingModel"},
		{name: "zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: "BatchSize"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }, wantErr: "RequestTimeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigModelID(t *testing.T) {
	a := NewConfig(WithEmbeddingModel("m1"), WithEmbeddingHost("http://a:1"))
	b := NewConfig(WithEmbeddingModel("m1"), WithEmbeddingHost("http://a:1/v1"))
	c := NewConfig(WithEmbeddingModel("m2"), WithEmbeddingHost("http://a:1/v1"))
	require.NoError(t, a.Validate())

	assert.Equal(t, a.ModelID(), b.ModelID())
	assert.NotEqual(t, a.ModelID(), c.ModelID())
	assert.Equal(t, "m1@http://a:1", a.ModelID())
}

func TestConfigValidate_Integration(t *testing.T) {
	require.NoError(t, NewConfig().Validate())
	require.NoError(t, DefaultConfig().Validate())
}
