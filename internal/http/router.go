package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/auth"
	"github.com/ntokozo078/logistics-fleet-manager/internal/cache"
	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/http/handlers"
	"github.com/ntokozo078/logistics-fleet-manager/internal/http/middlewares"
	"github.com/ntokozo078/logistics-fleet-manager/internal/observability"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue"
	"github.com/ntokozo078/logistics-fleet-manager/internal/redisclient"
	"github.com/ntokozo078/logistics-fleet-manager/internal/repo/postgres"
	"github.com/ntokozo078/logistics-fleet-manager/internal/session"
	"github.com/ntokozo078/logistics-fleet-manager/internal/upload"
)

type RouterDeps struct {
	Cfg   config.Config
	Log   *slog.Logger
	Pool  *pgxpool.Pool
	Redis *redisclient.Client
	Prom  *observability.Prom
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("logistics-fleet-manager"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(10 << 20)) // photo uploads

	if len(deps.Cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(deps.Cfg.AllowedOrigins))
	}

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// server-rendered pages + uploaded files
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static(deps.Cfg.UploadBasePath, deps.Cfg.UploadDir)

	// health + metrics
	pingDB := func() error {
		if deps.Pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Pool.Ping(ctx)
	}
	pingRedis := func() error {
		if deps.Redis == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Redis.Ping(ctx)
	}

	hh := handlers.NewHealthHandler(pingDB, pingRedis)
	r.GET("/healthz", hh.Healthz)
	r.GET("/readyz", hh.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})))

	// wire up repositories and services
	usersRepo := postgres.NewUsersRepo(deps.Pool, deps.Prom)
	jobsRepo := postgres.NewJobsRepo(deps.Pool, deps.Prom)

	jwtManager := auth.NewManager(deps.Cfg.SessionSecret, deps.Cfg.SessionTTL)
	sessions := session.NewStore(deps.Redis.Raw())
	notifyQueue := queue.New(deps.Redis.Raw())
	uploads := upload.NewSaver(deps.Cfg.UploadDir, deps.Cfg.UploadBasePath)
	statsCache := cache.New(5 * time.Second)

	authMw := middlewares.NewAuthMiddleware(jwtManager, sessions)
	loginLimiter := middlewares.NewRateLimiter(deps.Cfg.LoginRateLimit, deps.Cfg.LoginRateWindow)

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, sessions, deps.Cfg)
	dashboardHandler := handlers.NewDashboardHandler(usersRepo, jobsRepo, statsCache)
	jobsHandler := handlers.NewJobsHandler(jobsRepo, usersRepo, uploads, notifyQueue)
	driversHandler := handlers.NewDriversHandler(usersRepo, uploads)
	exportHandler := handlers.NewExportHandler(jobsRepo)

	// public pages
	r.GET("/", dashboardHandler.Home)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// everything below needs a live session
	authed := r.Group("", authMw.RequireSession())

	authed.GET("/dashboard", dashboardHandler.Dashboard)
	authed.GET("/create_job", jobsHandler.CreateJobPage)
	authed.POST("/create_job", jobsHandler.CreateJob)
	authed.GET("/job_details/:id", jobsHandler.JobDetails)
	authed.GET("/update_job/:id", jobsHandler.UpdateJobPage)
	authed.POST("/update_job/:id", jobsHandler.UpdateJob)

	// management only
	authed.GET("/export_csv", authMw.RequireManagement(), exportHandler.ExportCSV)

	// admin only
	authed.GET("/create_driver", authMw.RequireAdmin(), driversHandler.CreateDriverPage)
	authed.POST("/create_driver", authMw.RequireAdmin(), driversHandler.CreateDriver)

	return r
}
