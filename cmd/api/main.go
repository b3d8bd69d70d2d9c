// @title       Kanso Fit Engine API
// @version     1.0
// @description Activity logging, XP, levels, streaks, achievements and progress reports.
// @BasePath    /api/v1
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}

	code := serve(cfg, logger)
	_ = logger.Sync()
	os.Exit(code)
}

// serve runs the server and returns the process exit code. Failures are
// logged at error level so main can still flush the logger before exiting.
func serve(cfg *config.Config, logger *zap.Logger) int {
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return 1
	}
	logger.Info("server stopped gracefully")
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
	db, err := repository.NewPostgresDB(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("database ready")

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory report cache and no rate limiting", zap.Error(err))
		} else {
			defer rdb.Close()
			logger.Info("redis connected")
		}
	}

	a := newApp(cfg, db, rdb, logger)
	if err := a.start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("kanso fit engine listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stop()
		a.wait()
		return err
	case <-ctx.Done():
	}

	logger.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.wait()
	return nil
}
