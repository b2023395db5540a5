package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/netchat-server/internal/auth"
	"github.com/vovakirdan/netchat-server/internal/config"
	"github.com/vovakirdan/netchat-server/internal/core"
	"github.com/vovakirdan/netchat-server/internal/metrics"
	"github.com/vovakirdan/netchat-server/internal/store"
	"github.com/vovakirdan/netchat-server/internal/store/postgres"
	"github.com/vovakirdan/netchat-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/netchat-server/internal/transport/http"
	transporttcp "github.com/vovakirdan/netchat-server/internal/transport/tcp"
)

// App wires together store, core, and transport layers.
type App struct {
	chat            *transporttcp.Server
	admin           *stdhttp.Server
	store           store.UserStore
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("driver", cfg.DatabaseDriver).Msg("credential store initialized")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	presence := core.NewRegistry()
	executor := core.NewExecutor(presence, collector, logger)

	authService := auth.NewService(st)
	negotiator := auth.NewNegotiator(authService, logger)

	chat := transporttcp.NewServer(cfg.Addr, negotiator, presence, executor, collector, logger)
	admin := transporthttp.NewServer(cfg.AdminAddr, presence, registry, logger)

	return &App{
		chat:            chat,
		admin:           admin,
		store:           st,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

func newStore(cfg config.Config) (store.UserStore, error) {
	switch cfg.DatabaseDriver {
	case "sqlite", "":
		return sqlite.New(cfg.DatabasePath)
	case "postgres":
		return postgres.New(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// Run starts both servers and blocks until context cancellation or a
// fatal listener error.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- a.chat.ListenAndServe(runCtx) }()
	go func() {
		err := a.admin.ListenAndServe()
		if errors.Is(err, stdhttp.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		firstErr error
		received int
	)
	select {
	case firstErr = <-errCh:
		received++
		cancel() // bring the other server down too
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer shutdownCancel()

	a.log.Info().Msg("shutting down")
	if err := a.admin.Shutdown(shutdownCtx); err != nil {
		a.log.Warn().Err(err).Msg("admin server shutdown")
	}

collect:
	for ; received < 2; received++ {
		select {
		case err := <-errCh:
			if firstErr == nil {
				firstErr = err
			}
		case <-shutdownCtx.Done():
			a.log.Warn().Msg("shutdown timeout reached, some sessions may still be draining")
			break collect
		}
	}

	a.cleanup()
	return firstErr
}

// cleanup closes the credential store.
func (a *App) cleanup() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close store")
		return
	}
	a.log.Info().Msg("store closed")
}
