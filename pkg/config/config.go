// Package config loads remotevec configuration from the environment.
//
// All state lives at the remote provider, so configuration is just the
// credentials and knobs needed to reach it:
//
//   - OPENAI_API_KEY: API key (required)
//   - OPENAI_API_BASE: API base URL (default: https://api.openai.com/v1)
//   - EMBEDDING_MODEL: embedding model name (default: text-embedding-3-small)
//   - EMBEDDING_DIMENSION: embedding dimensionality, used only for the
//     placeholder zero vector (default: 1536)
//   - VECTORSTORE_PAGE_SIZE: bound on emulated listing (default: 1000)
//   - LOG_LEVEL: zap level name (default: info)
//   - LOG_FORMAT: "json" or "console" (default: json)
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig indicates missing or invalid configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Defaults applied when the environment leaves a value unset.
const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "text-embedding-3-small"
	DefaultDimension = 1536
	DefaultPageSize  = 1000
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Config holds the complete remotevec configuration.
type Config struct {
	// APIKey authenticates against the provider. Required.
	APIKey string `koanf:"openai_api_key"`

	// BaseURL overrides the provider API base URL.
	BaseURL string `koanf:"openai_api_base"`

	// Model is the embedding model name.
	Model string `koanf:"embedding_model"`

	// Dimension is the embedding dimensionality, used only to build the
	// placeholder zero vector for emulated listing.
	Dimension int `koanf:"embedding_dimension"`

	// PageSize bounds emulated listing.
	PageSize int `koanf:"vectorstore_page_size"`

	// LogLevel is the zap level name for loggers built from this config.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder, "json" or "console".
	LogFormat string `koanf:"log_format"`
}

// Load loads configuration from environment variables with defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	// empty variables are treated as unset so defaults survive
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{
		BaseURL:   DefaultBaseURL,
		Model:     DefaultModel,
		Dimension: DefaultDimension,
		PageSize:  DefaultPageSize,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY required", ErrInvalidConfig)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", ErrInvalidConfig)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidConfig)
	}
	return nil
}
