// Package app wires configuration, the cache store, the enrichment engine
// and the HTTP server into one runnable unit.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"score-enricher/internal/cache"
	"score-enricher/internal/common/logging"
	"score-enricher/internal/config"
	"score-enricher/internal/enrichment"
	"score-enricher/internal/ratelimit"
	"score-enricher/internal/server"
)

// App owns every long-lived component of the service.
type App struct {
	cfg     *config.Config
	store   cache.Store
	engine  *enrichment.Engine
	server  *server.Server
	sweeper *cron.Cron
	logger  logging.Logger
}

// New builds the application from validated configuration. Construction
// fails fast: a broken cache store or invalid config never yields a
// half-started app.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cache.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := enrichment.NewEngine(cfg, store, ratelimit.NewLimiter(), &http.Client{})
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		store:  store,
		engine: engine,
		server: server.New(cfg, engine, store),
		logger: logging.GetGlobalLogger().WithFields(logging.String("component", "app")),
	}

	if cfg.CacheSweepSchedule != "" {
		if err := a.scheduleSweep(cfg.CacheSweepSchedule); err != nil {
			store.Close()
			return nil, err
		}
	}

	return a, nil
}

// Engine exposes the enrichment engine for one-shot command modes.
func (a *App) Engine() *enrichment.Engine {
	return a.engine
}

// scheduleSweep registers the periodic expired-row sweep.
func (a *App) scheduleSweep(schedule string) error {
	a.sweeper = cron.New()
	_, err := a.sweeper.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		removed, err := a.store.Sweep(ctx)
		if err != nil {
			a.logger.Warn("Cache sweep failed", logging.NamedError("sweep_error", err))
			return
		}
		a.logger.Info("Cache sweep finished", logging.Int64("removed", removed))
	})
	return err
}

// Start runs the sweeper and the HTTP server, blocking until the server
// stops.
func (a *App) Start() error {
	if a.sweeper != nil {
		a.sweeper.Start()
	}
	return a.server.Start()
}

// Shutdown drains the server, stops the sweeper and closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	err := a.server.Shutdown(ctx)

	if closeErr := a.store.Close(); err == nil {
		err = closeErr
	}
	return err
}
