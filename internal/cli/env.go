package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"risk-scorecard/internal/adapter"
	"risk-scorecard/internal/cache"
	"risk-scorecard/internal/catalog"
	"risk-scorecard/internal/classifier"
	"risk-scorecard/internal/config"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/logger"

	"go.uber.org/zap"
)

// environment is what every subcommand needs after startup.
type environment struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	classifier *classifier.Guarded
	closers    []func()
}

func (e *environment) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func (o *globalOptions) load(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.classifierMode != "" {
		cfg.Classifier.Mode = o.classifierMode
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	// stdout belongs to the questionnaire
	loggerCfg := cfg.Logger
	loggerCfg.Stderr = true
	if err := logger.Initialize(loggerCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	env := &environment{cfg: cfg, closers: []func(){func() { _ = logger.Sync() }}}

	catalogPath := o.catalogPath
	if catalogPath == "" {
		catalogPath = cfg.Questionnaire.CatalogFile
	}
	env.catalog, err = catalog.Load(catalogPath)
	if err != nil {
		env.close()
		return nil, err
	}

	var store domain.Cache
	if cfg.Redis.Address != "" && cfg.Classifier.Mode != config.ClassifierModeKeyword {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		client, err := cache.NewRedisClient(pingCtx, cfg.Redis)
		cancel()
		if err != nil {
			logger.Get().Warn("Verdict cache unavailable, continuing without it", zap.Error(err))
		} else {
			redisAdapter := adapter.NewRedisCacheAdapter(client)
			store = redisAdapter
			env.closers = append(env.closers, func() { _ = redisAdapter.Close() })
		}
	}

	httpClient := &http.Client{Timeout: cfg.Classifier.Timeout + 5*time.Second}
	env.classifier, err = classifier.Build(cfg.Classifier, store, httpClient)
	if err != nil {
		env.close()
		return nil, err
	}
	return env, nil
}
