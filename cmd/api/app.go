package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/config"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/services"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/workers"
)

// app is the wired server: HTTP router plus its background workers.
type app struct {
	router    *gin.Engine
	worker    *workers.ProgressWorker
	scheduler *workers.ReportScheduler
	logger    *zap.Logger
}

// newApp wires repositories, services and handlers. rdb may be nil, in which
// case targets are read straight from Postgres and reports are cached in memory.
func newApp(cfg *config.Config, db *sqlx.DB, rdb *redis.Client, logger *zap.Logger) *app {
	userRepo := repository.NewPostgresUserRepository(db)
	activityRepo := repository.NewPostgresActivityRepository(db)
	progressRepo := repository.NewPostgresProgressRepository(db)

	var profileRepo domain.ProfileRepository = repository.NewPostgresProfileRepository(db)
	var reportCache domain.ReportCache
	if rdb != nil {
		profileRepo = repository.NewCachedProfileRepository(profileRepo, rdb, logger)
		reportCache = cache.NewRedisReportCache(rdb, cfg.Redis.ReportTTL)
	} else {
		reportCache = repository.NewInMemoryReportCache()
	}

	authService := services.NewAuthService(userRepo, logger)
	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenDuration, userRepo)
	profileService := services.NewProfileService(profileRepo, logger)
	progressService := services.NewProgressService(activityRepo, progressRepo, profileService, reportCache, logger)

	worker := workers.NewProgressWorker(progressService, logger, cfg.Worker.QueueSize)

	activityService := services.NewActivityService(activityRepo, worker, progressService, reportCache, logger)
	reportService := services.NewReportService(activityRepo, profileService, progressService, reportCache, logger)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		ProfileHandler:  adapterHTTP.NewProfileHandler(profileService),
		ActivityHandler: adapterHTTP.NewActivityHandler(activityService),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService),
		ReportHandler:   adapterHTTP.NewReportHandler(reportService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           rdb,
		Logger:          logger,
		RateLimit:       cfg.Server.RateLimit,
		RateWindow:      cfg.Server.RateWindow,
		StartTime:       time.Now(),
	})

	a := &app{
		router: router,
		worker: worker,
		logger: logger,
	}
	if cfg.Scheduler.Enabled {
		a.scheduler = workers.NewReportScheduler(reportService, logger, cfg.Scheduler.Schedule)
	}
	return a
}

// start launches the background workers. They stop when ctx is cancelled.
func (a *app) start(ctx context.Context) error {
	a.worker.Start(ctx)
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// wait blocks until the progress worker has stopped.
func (a *app) wait() {
	a.worker.Wait()
}
