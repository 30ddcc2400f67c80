package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "recipe-costing/internal/adapters/web"
	"recipe-costing/internal/app"
	"recipe-costing/internal/config"
	"recipe-costing/internal/core"
	"recipe-costing/internal/db"
	"recipe-costing/internal/logger"
	"recipe-costing/internal/store/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.C()

	if err := logger.Init(cfg.Logger.Level(), cfg.Logger.AsJSON()); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := config.RegisterUnits(cfg.Units.File()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	svc := app.NewAppService(postgres.NewCatalogStore(pool), core.DefaultCostingPolicy)
	handler := webAdapter.NewHandler(svc, cfg.Server.AllowedOrigins(), cfg.Server.BodyLimitBytes())

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", logger.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
