package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/persistence/sqlite"
	"talent-match/internal/pkg/logger"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB         database.DB
	Redis      *cache.Redis
	Scores     repository.ScoreRepository
	ScoreCache *usecase.ScoreCache
	Matching   *usecase.MatchingService

	closers []io.Closer
	pingers map[string]handler.Pinger
}

func NewContainer(ctx context.Context, cfg config.Config, l *zap.Logger) (*Container, error) {
	l = logger.OrNop(l)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  l,
		DB:      db,
		closers: []io.Closer{db},
		pingers: map[string]handler.Pinger{},
	}

	switch cfg.Store.Driver {
	case config.StoreSQLite:
		store, err := sqlite.Open(connectCtx, cfg.Store.SQLitePath)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("open sqlite score store: %w", err)
		}
		c.Scores = store
		c.closers = append(c.closers, store)
		c.pingers["score_store"] = store
	default:
		c.Scores = repository.NewPostgresScoreRepository(db)
	}

	c.Redis = cache.NewRedis(cfg.Redis, l)
	c.closers = append(c.closers, c.Redis)
	c.pingers["redis"] = c.Redis

	mc := cfg.Matching
	c.ScoreCache = usecase.NewScoreCache(c.Scores, mc.CacheTTL, mc.CacheMaxEntries, l)
	c.Matching = usecase.NewMatchingService(
		repository.NewPostgresCandidateRepository(db),
		repository.NewPostgresOpportunityRepository(db),
		c.Scores,
		c.ScoreCache,
		matching.NewEngine(),
		c.Redis,
		usecase.MatchingOptions{
			BatchSize:         mc.BatchSize,
			BatchDelay:        mc.BatchDelay,
			Concurrency:       mc.Concurrency,
			MinCompleteness:   mc.MinCompleteness,
			RecalcLockTTL:     mc.RecalcLockTTL,
			AnalyticsCacheTTL: mc.AnalyticsCacheTTL,
		},
		l,
	)

	l.Info("container ready",
		zap.String("score_store", storeName(cfg.Store.Driver)),
		zap.Bool("redis", c.Redis.Available()),
	)
	return c, nil
}

// Pingers are the optional dependencies reported by the health endpoint.
func (c *Container) Pingers() map[string]handler.Pinger {
	return c.pingers
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func storeName(driver string) string {
	if driver == config.StoreSQLite {
		return config.StoreSQLite
	}
	return config.StorePostgres
}
