package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/auth"
	"github.com/aperdana/networth/internal/cache"
	"github.com/aperdana/networth/internal/clock"
	"github.com/aperdana/networth/internal/config"
	"github.com/aperdana/networth/internal/domain/user"
	"github.com/aperdana/networth/internal/http/handlers"
	"github.com/aperdana/networth/internal/http/middlewares"
	"github.com/aperdana/networth/internal/observability"
	"github.com/aperdana/networth/internal/redisclient"
	"github.com/aperdana/networth/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(
	cfg config.Config,
	log *slog.Logger,
	pool *pgxpool.Pool,
	rdb *redisclient.Client,
	clk clock.Clock,
	reg *prometheus.Registry,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(otelgin.Middleware("networth-api"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.MaxBodyBytes(10 << 10)) // 10 KB, payloads here are tiny
	r.Use(middlewares.RequireJSON())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health ping

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	// wire up repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	assetsRepo := postgres.NewAssetsRepo(pool, prom)
	snapshotsRepo := postgres.NewSnapshotsRepo(pool, prom)
	auditRepo := postgres.NewAuditRepo(pool, prom)

	recorder := audit.NewRecorder(auditRepo, log)
	series := cache.New(30 * time.Second)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL)
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// general burst guard across the API, stricter redis window on login

	apiLimiter := middlewares.NewRateLimiter(300, 15*time.Minute)
	loginLimiter := middlewares.NewLoginLimiter(rdb.Raw(), 5, 10*time.Minute, log)

	// handlers

	healthHandler := handlers.NewHealthHandler(ping)
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, recorder)
	usersHandler := handlers.NewUsersHandler(usersRepo, recorder)
	assetsHandler := handlers.NewAssetsHandler(assetsRepo, recorder, series)
	snapshotsHandler := handlers.NewSnapshotsHandler(snapshotsRepo, recorder, clk, series, prom)
	dashboardHandler := handlers.NewDashboardHandler(snapshotsRepo, clk, series)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditRepo)

	api := r.Group("/api")
	api.Use(apiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	api.Use(middlewares.APIKeyGate(cfg.APIKey, cfg.AllowedOrigins, "/api/health"))

	api.GET("/health", healthHandler.Health)
	api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

	authed := api.Group("")
	authed.Use(authMW.RequireAuth())

	authed.GET("/assets", assetsHandler.ListAssets)
	authed.POST("/assets", assetsHandler.CreateAsset)
	authed.PUT("/assets/:id", assetsHandler.UpdateAsset)

	authed.GET("/snapshots", snapshotsHandler.ListSnapshots)
	authed.POST("/snapshots", snapshotsHandler.CreateSnapshot)
	authed.PUT("/snapshots/:id", snapshotsHandler.UpdateSnapshot)
	authed.DELETE("/snapshots/:id", snapshotsHandler.DeleteSnapshot)

	authed.GET("/dashboard/net-worth", dashboardHandler.NetWorth)

	admin := authed.Group("")
	admin.Use(authMW.RequireRole(user.RoleAdmin))

	admin.DELETE("/assets/:id", assetsHandler.DeleteAsset)
	admin.GET("/admin/users", usersHandler.ListUsers)
	admin.POST("/admin/users", usersHandler.CreateUser)
	admin.GET("/admin/logs", auditLogsHandler.ListLogs)

	return r
}
