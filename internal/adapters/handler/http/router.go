package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/comitanigiacomo/kanso-fit-engine/docs"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/services"
)

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	ProfileHandler  *ProfileHandler
	ActivityHandler *ActivityHandler
	ProgressHandler *ProgressHandler
	ReportHandler   *ReportHandler
	TokenService    *services.TokenService
	DB              *sqlx.DB
	// Redis is optional. Without it there is no rate limiting.
	// Public routes are limited per IP, protected routes per user.
	Redis      *redis.Client
	Logger     *zap.Logger
	RateLimit  int
	RateWindow time.Duration
	StartTime  time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
	)

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "X-Request-ID", "Authorization"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID", "Retry-After"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", healthHandler(deps))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit := func(group *gin.RouterGroup) {
		if deps.Redis != nil && deps.RateLimit > 0 {
			group.Use(middleware.RateLimiterMiddleware(deps.Redis, middleware.RateLimitConfig{
				Limit:  deps.RateLimit,
				Window: deps.RateWindow,
			}, deps.Logger))
		}
	}

	apiV1 := router.Group("/api/v1")

	public := apiV1.Group("")
	limit(public)
	deps.AuthHandler.RegisterRoutes(public)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))
	limit(protected)
	{
		deps.ProfileHandler.RegisterRoutes(protected)
		deps.ActivityHandler.RegisterRoutes(protected)
		deps.ProgressHandler.RegisterRoutes(protected)
		deps.ReportHandler.RegisterRoutes(protected)
	}

	return router
}

func healthHandler(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		dbStatus := "connected"
		if deps.DB == nil || deps.DB.PingContext(ctx) != nil {
			dbStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		status := "ok"
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}
