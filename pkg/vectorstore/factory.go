package vectorstore

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/remotevec/pkg/config"
	"github.com/fyrsmithlabs/remotevec/pkg/logging"
	"github.com/fyrsmithlabs/remotevec/pkg/openai"
)

// NewStore creates an OpenAIStore from loaded configuration.
//
// The config's APIKey and BaseURL feed the API client; Model, Dimension,
// and PageSize feed the store. logger may be nil, in which case one is
// built from the config's LogLevel and LogFormat.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := vectorstore.NewStore(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewStore(cfg *config.Config, logger *zap.Logger) (*OpenAIStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config required", ErrInvalidConfig)
	}

	if logger == nil {
		var err error
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
	}

	client, err := openai.NewClient(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	}, logger)
	if err != nil {
		return nil, err
	}

	return NewOpenAIStore(client, Config{
		Model:     cfg.Model,
		Dimension: cfg.Dimension,
		PageSize:  cfg.PageSize,
	}, logger)
}

// NewStoreFromEnv loads configuration from the environment and builds a
// store from it. logger may be nil, as with NewStore.
func NewStoreFromEnv(logger *zap.Logger) (*OpenAIStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewStore(cfg, logger)
}
