package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawzo/lawzo/bootstrap"
	"lawzo/lawzo/config"
	"lawzo/lawzo/controllers"
	"lawzo/lawzo/routes"
	"lawzo/lawzo/utils/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	sessionIdleTimeout = 30 * time.Minute
	evictInterval      = 5 * time.Minute
)

func main() {
	logging.InitLogger("./logs")
	defer logging.Sync()
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	app, err := bootstrap.Build(startCtx, cfg)
	cancel()
	if err != nil {
		logging.ErrorLogger.Error("startup failed", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
	defer app.Close()

	checks := map[string]controllers.Check{"database": app.DB.Ping}
	if app.Redis != nil {
		checks["redis"] = app.Redis.Ping
	}
	ctrls := routes.Controllers{
		Health:     controllers.NewHealthController(checks),
		Categories: controllers.NewCategoryController(app.Catalog),
		Chat:       controllers.NewChatController(app.Pipeline, app.Conversations, app.Catalog, cfg),
		Sources:    controllers.NewSourceController(nil),
		Documents:  controllers.NewDocumentController(app.Actions, nil, app.Catalog),
	}
	if app.Storage != nil {
		ctrls.Sources = controllers.NewSourceController(app.Storage)
		ctrls.Documents = controllers.NewDocumentController(app.Actions, app.Storage, app.Catalog)
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           routes.NewRouter(ctrls, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(evictInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := app.Memory.Evict(sessionIdleTimeout); n > 0 {
					logging.AppLogger.Info("evicted idle sessions", zap.Int("count", n))
				}
				if app.MemoryCounter != nil {
					app.MemoryCounter.Sweep()
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
			return err
		}
		logging.AppLogger.Info("server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.ErrorLogger.Error("server stopped", zap.Error(err))
	}
}
