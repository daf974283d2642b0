// Package app assembles the mood-rx service from configuration: storage,
// quota counters, the AI generator, tracing and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/mood-rx-backend/internal/ai"
	"github.com/tbourn/mood-rx-backend/internal/config"
	httpapi "github.com/tbourn/mood-rx-backend/internal/http"
	"github.com/tbourn/mood-rx-backend/internal/http/middleware"
	"github.com/tbourn/mood-rx-backend/internal/memstore"
	"github.com/tbourn/mood-rx-backend/internal/observability"
	"github.com/tbourn/mood-rx-backend/internal/ratelimit"
	"github.com/tbourn/mood-rx-backend/internal/repo"
	"github.com/tbourn/mood-rx-backend/internal/services"
)

// shutdownGrace bounds graceful shutdown after the run context ends.
const shutdownGrace = 10 * time.Second

// App is a fully wired service instance.
type App struct {
	Config config.Config
	Engine *gin.Engine
	Server *http.Server

	closers []func(context.Context) error
}

// New builds every collaborator named by cfg. On error, anything already
// opened is released before returning.
func New(ctx context.Context, cfg config.Config, version string) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return nil, fmt.Errorf("otel: %w", err)
	}
	a.closers = append(a.closers, shutdownOTel)

	var (
		rxStore   services.PrescriptionStore
		idemStore services.IdempotencyStore
		quota     ratelimit.Store
		checks    []func(context.Context) error
		db        *gorm.DB
	)

	if cfg.DB.Driver == config.DBMemory {
		rxStore = memstore.NewPrescriptions()
		idemStore = memstore.NewIdempotency()
	} else {
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return repo.Close(db) })
		if err = repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		rxStore = repo.PrescriptionStore{DB: db}
		idemStore = repo.IdempotencyStore{DB: db}
		checks = append(checks, func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}

	switch cfg.Quota.Store {
	case config.StoreDB:
		if db == nil {
			return nil, errors.New("quota store db needs a SQL database")
		}
		quota = repo.CounterStore{DB: db}
	case config.StoreRedis:
		rs, err := ratelimit.NewRedisStore(cfg.Quota.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rs.Close() })
		quota = rs
		checks = append(checks, rs.Ping)
	default:
		quota = memstore.NewCounters()
	}

	gen, err := newGenerator(cfg.AI)
	if err != nil {
		return nil, err
	}

	loc := cfg.Quota.Location
	if loc == nil {
		loc = time.UTC
	}
	rx := &services.PrescriptionService{
		Store:     rxStore,
		Limiter:   ratelimit.New(quota, cfg.Quota.AnonLimit, cfg.Quota.AuthLimit, loc),
		Generator: gen,
		Idem:      idemStore,
		AITimeout: cfg.AI.Timeout,
		IdemTTL:   cfg.IdempotencyTTL,
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	a.Engine = gin.New()
	httpapi.RegisterRoutes(a.Engine, httpapi.Deps{
		Prescriptions: rx,
		Shares:        &services.ShareService{Store: rxStore},
		IdemLookup:    idempotencyLookup(idemStore),
		Ready:         readiness(checks),
	}, cfg)

	a.Server = &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           a.Engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	return a, nil
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.Server.Addr).Msg("http server listening")
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.Server.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Migrate opens the configured SQL database and applies the schema.
func Migrate(cfg config.Config) error {
	if cfg.DB.Driver == config.DBMemory {
		return errors.New("nothing to migrate for the memory driver")
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close(db) }()
	return repo.AutoMigrate(db)
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(repo.Options{
		Driver:  cfg.DB.Driver,
		Path:    cfg.DB.Path,
		URL:     cfg.DB.URL,
		Tracing: cfg.OTEL.Enabled,
		Silent:  cfg.LogLevel != "debug",
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}
	return db, nil
}

func newGenerator(cfg config.AIConfig) (ai.Generator, error) {
	switch cfg.Provider {
	case config.AIClaude:
		g, err := ai.NewClaudeGenerator(ai.ClaudeConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.AIMock, "":
		return ai.NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// idempotencyLookup adapts an idempotency store to the middleware's replay
// check. A missing row is not an error.
func idempotencyLookup(store services.IdempotencyStore) middleware.IdempotencyLookup {
	return func(ctx context.Context, identity, key string, now time.Time) (bool, error) {
		rec, err := store.Get(ctx, identity, key, now)
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return rec != nil, nil
	}
}

func readiness(checks []func(context.Context) error) func(context.Context) error {
	if len(checks) == 0 {
		return nil
	}
	return func(ctx context.Context) error {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
