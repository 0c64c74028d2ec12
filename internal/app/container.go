package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"skillstack/internal/config"
	"skillstack/internal/database"
	"skillstack/internal/database/migration"
	dbpostgres "skillstack/internal/database/postgres"
	"skillstack/internal/database/sqlite"
	"skillstack/internal/infrastructure/cache"
	"skillstack/internal/infrastructure/llm"
	"skillstack/internal/pkg/jwt"
	"skillstack/internal/repository"
	"skillstack/internal/usecase"
	"skillstack/internal/ws"
)

type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   *jwt.HMACService

	Skills     *usecase.Skill
	Summarizer *usecase.Summarizer

	stopHub context.CancelFunc
}

// OpenDatabase connects to the configured store and brings its schema up to
// date.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	var (
		db  database.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = dbpostgres.Connect(ctx, cfg)
	case config.DriverSQLite, "":
		db, err = sqlite.Open(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Printf("database ready | driver=%s", db.Driver())

	c := &Container{Config: cfg, Logger: logger, DB: db}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	c.Hub = ws.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	c.Skills = usecase.NewSkillUsecase(
		repository.NewSQLSkillRepository(db),
		c.Cache,
		ws.NewNotifier(c.Hub),
		logger,
	)

	provider, err := llm.NewProvider(cfg.Summarizer, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	var sp usecase.SummaryProvider
	if provider != nil {
		sp = provider
	} else {
		logger.Printf("summarizer disabled | provider=%s reason=missing_api_key", cfg.Summarizer.Provider)
	}
	c.Summarizer = usecase.NewSummarizer(sp, usecase.SummarizerOptions{
		Credential: cfg.Summarizer.APIKey,
		Timeout:    cfg.Summarizer.Timeout,
		Cache:      c.Cache,
		CacheTTL:   cfg.Redis.TTL,
		Logger:     logger,
	})

	if cfg.Auth.Enabled() {
		c.JWT = jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.App.AppName, cfg.Auth.TokenTTL)
	}

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
