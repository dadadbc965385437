package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpDelivery "github.com/BigChungus31/Credit-Card-Recommendation-System/internal/delivery/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("starting cardmatch",
		zap.String("environment", a.cfg.Server.Environment),
		zap.String("port", a.cfg.Server.Port),
		zap.String("cacheType", a.cfg.Cache.Type),
		zap.Int("topN", a.cfg.Ranking.TopN),
		zap.Int("workers", a.cfg.Ranking.Workers),
	)

	if a.cfg.Catalog.ReloadInterval > 0 {
		a.logger.Info("periodic catalog reload enabled", zap.Duration("interval", a.cfg.Catalog.ReloadInterval))
		go a.catalog.Watch(ctx, a.cfg.Catalog.ReloadInterval)
	}

	handler, err := httpDelivery.NewHandler(a.recommendation, a.catalog, a.logger)
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}
	router := httpDelivery.SetupRouter(a.cfg, handler, a.logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
