package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/config"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/infrastructure/cache"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/infrastructure/catalog"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/logger"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/usecase"
	"go.uber.org/zap"
)

// app bundles the wired services shared by every subcommand
type app struct {
	cfg            *config.Config
	logger         *zap.Logger
	catalog        *usecase.CatalogService
	recommendation *usecase.RecommendationService
	closers        []func() error
}

// newApp loads configuration, builds the logger and loads the catalog.
// withCache selects whether ranked results are cached.
func newApp(ctx context.Context, withCache bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log}

	source := catalog.NewSource(cfg.Catalog.Path, catalog.HTTPSourceConfig{
		Timeout:        cfg.Catalog.Timeout,
		RequestsPerMin: cfg.RateLimit.Catalog,
	}, log)
	a.catalog = usecase.NewCatalogService(source, catalog.NewNormalizer(log), log)

	snap, err := a.catalog.Load(ctx)
	if err != nil {
		var formatErr *domain.CatalogFormatError
		if errors.As(err, &formatErr) {
			return nil, fmt.Errorf("catalog %s is not usable: %w", formatErr.Source, err)
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog ready",
		zap.String("source", snap.Source),
		zap.Int("cards", len(snap.Cards)),
	)

	var resultCache domain.CacheRepository
	if withCache {
		resultCache, err = a.buildCache(ctx)
		if err != nil {
			a.close()
			return nil, err
		}
	}

	a.recommendation = usecase.NewRecommendationService(
		a.catalog,
		usecase.NewScoringEngine(cfg.Ranking.Workers),
		resultCache,
		usecase.RecommendationServiceConfig{
			TopN:     cfg.Ranking.TopN,
			CacheTTL: cfg.Cache.TTL,
		},
		log,
	)

	return a, nil
}

func (a *app) buildCache(ctx context.Context) (domain.CacheRepository, error) {
	switch a.cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, a.cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, redisCache.Close)
		a.logger.Info("result cache enabled", zap.String("type", "redis"), zap.Duration("ttl", a.cfg.Cache.TTL))
		return redisCache, nil
	default:
		memoryCache := cache.NewMemoryCache(0)
		a.closers = append(a.closers, memoryCache.Close)
		a.logger.Info("result cache enabled", zap.String("type", "memory"), zap.Duration("ttl", a.cfg.Cache.TTL))
		return memoryCache, nil
	}
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
