// Package app wires configuration, storage, the credential issuer and the
// HTTP gateway into one runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"account_service/internal/auth"
	"account_service/internal/clock"
	"account_service/internal/config"
	"account_service/internal/handler"
	"account_service/internal/logger"
	"account_service/internal/service"
	"account_service/internal/storage"
	"account_service/internal/storage/memory"
	"account_service/internal/storage/mongo"
	"account_service/internal/storage/postgres"
	"account_service/internal/storage/redis"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.Config
	log     *slog.Logger
	storage storage.Storage
	server  *http.Server
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	const op = "app.New"

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clk := clock.New()

	tokens, err := auth.NewTokenIssuer(cfg.JWT.Secret, clk)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	srvc := service.NewService(st, tokens, clk)

	h := handler.NewHandler(srvc, tokens, log, handler.Options{
		StaticDir:      cfg.HTTPServer.StaticDir,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr(),
		Handler:      h.InitRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		cfg:     cfg,
		log:     log,
		storage: st,
		server:  server,
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	var (
		st  storage.Storage
		err error
	)

	switch cfg.Storage.Driver {
	case "memory":
		st = memory.New()
	case "postgres":
		st, err = postgres.NewPostgresStorage(ctx, cfg.DB.DbURL)
	case "redis":
		st, err = redis.New(ctx, cfg.Redis.URL)
	case "mongo":
		st, err = mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	return st, nil
}

// Handler exposes the routed gateway.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts the server down and closes storage.
func (a *App) Run(ctx context.Context) error {
	const op = "app.Run"

	defer func() {
		if err := a.storage.Close(); err != nil {
			a.log.Error("failed to close storage", logger.Err(err))
		}
	}()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("server started",
		slog.String("addr", ln.Addr().String()),
		slog.String("storage", a.cfg.Storage.Driver),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("server stopped")

	return nil
}
