package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/gig-matcher/internal/ai/gemini"
	"github.com/spigell/gig-matcher/internal/cache"
	"github.com/spigell/gig-matcher/internal/logger"
	"github.com/spigell/gig-matcher/internal/marketplace"
	"github.com/spigell/gig-matcher/internal/secrets"
	"github.com/spigell/gig-matcher/internal/voice"
)

// setup builds the logger and reads the config shared by every command.
func setup() (*zap.Logger, *Config, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("getting a config: %w", err)
	}

	return log, config, nil
}

// newBackend returns a backend client when a backend url is configured.
// The returned cleanup func is never nil.
func newBackend(ctx context.Context, config *Config, log *zap.Logger) (*marketplace.Client, func(), error) {
	noop := func() {}
	if config.Backend == nil || strings.TrimSpace(config.Backend.URL) == "" {
		return nil, noop, nil
	}

	token, err := secrets.Load(secrets.Source{
		Name: "backend token",
		File: config.Backend.TokenFile,
		Env:  "GIG_MATCHER_TOKEN",
	})
	if err != nil {
		// The marketplace listing is public; only some backends want a token.
		log.Debug("backend token is not set", zap.Error(err))
	}

	client := marketplace.New(config.Backend.URL, token, logger.Named(log, "backend"))
	if config.Backend.UserAgent != "" {
		client.UserAgent = config.Backend.UserAgent
	}
	if config.Backend.Timeout > 0 {
		client.HTTPClient.Timeout = config.Backend.Timeout
	}

	if config.Cache == nil || !config.Cache.Enabled {
		return client, noop, nil
	}

	c, err := cache.New(ctx, cache.Options{
		Addr:     config.Cache.Addr,
		Password: config.Cache.Password,
		DB:       config.Cache.DB,
	}, logger.Named(log, "cache"))
	if err != nil {
		log.Warn("continuing without cache", zap.Error(err))
		return client, noop, nil
	}

	client.WithCache(c, config.Cache.TTL)
	if config.Cache.Refresh {
		client.WithRefresh()
	}

	return client, func() { c.Close() }, nil
}

// loadRoster picks the roster source: a roster file, then the backend, then the demo roster.
func loadRoster(ctx context.Context, config *Config, log *zap.Logger) (*marketplace.Roster, error) {
	if path := strings.TrimSpace(config.RosterFile); path != "" {
		roster, err := marketplace.LoadRosterFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading roster file %q: %w", path, err)
		}
		log.Info("loaded roster", zap.String("source", path), zap.Int("count", roster.Len()))
		return roster, nil
	}

	client, cleanup, err := newBackend(ctx, config, log)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if client != nil {
		roster, err := client.GetWorkers(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching roster: %w", err)
		}
		log.Info("loaded roster", zap.String("source", client.APIURL), zap.Int("count", roster.Len()))
		return roster, nil
	}

	roster, err := marketplace.DemoRoster()
	if err != nil {
		return nil, err
	}
	log.Info("loaded roster", zap.String("source", "demo"), zap.Int("count", roster.Len()))
	return roster, nil
}

func newInterpreter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (voice.Interpreter, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewInterpreter(generator, cfg.Gemini.MaxLogLength, logger.WithAI(log, "gemini", generator.Model())), nil
}
