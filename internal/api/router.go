package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/glowlab/dermalyze/internal/api/docs"
	"github.com/glowlab/dermalyze/internal/api/handler"
	"github.com/glowlab/dermalyze/internal/api/middleware"
	"github.com/glowlab/dermalyze/internal/cache"
	"github.com/glowlab/dermalyze/internal/config"
	"github.com/glowlab/dermalyze/internal/entitlement"
	"github.com/glowlab/dermalyze/internal/metrics"
	"github.com/glowlab/dermalyze/internal/provider"
	"github.com/glowlab/dermalyze/internal/ratelimit"
	"github.com/glowlab/dermalyze/internal/repository"
	"github.com/glowlab/dermalyze/internal/routine"
	"github.com/glowlab/dermalyze/internal/service"
	"github.com/glowlab/dermalyze/internal/storage"
	"github.com/glowlab/dermalyze/internal/usage"
)

type Dependencies struct {
	Config         *config.Config
	UserRepo       *repository.UserRepository
	AnalysisRepo   *repository.AnalysisRepository
	FaceDetector   provider.FaceDetector
	ColorExtractor provider.ColorExtractor
	Routines       *routine.Generator
	Images         storage.ImageStore
	DB             *pgxpool.Pool
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Dermalyze API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Prometheus metrics (no auth required)
	r.app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	))

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group with authentication
	v1 := r.app.Group("/v1")

	// Only configure authenticated routes if dependencies were provided
	if r.deps != nil {
		cfg := r.deps.Config

		// Auth middleware
		v1.Use(middleware.Auth(r.deps.UserRepo))

		// Rate limiting (per user) - must come after auth to have user context
		r.rateLimiter = middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
		v1.Use(r.rateLimiter.Handler())

		// Entitlements backed by the Postgres TTL cache
		pgCache := cache.NewPGCache(r.deps.DB)
		entitlementService := entitlement.NewService(r.deps.UserRepo, pgCache, cfg.EntitlementTTL, r.logger)

		// Daily quota accounting
		usageRepo := usage.NewRepository(r.deps.DB)
		usageService := usage.NewService(usageRepo, cfg.FreeDailyQuota, cfg.PremiumDailyQuota)

		// Burst limiter for the similarity search endpoint
		searchLimiter := ratelimit.NewRateLimiter(r.deps.DB, cfg.SimilarSearchWindow)

		// Analysis service
		analysisService := service.NewAnalysisService(
			r.deps.AnalysisRepo,
			usageService,
			entitlementService,
			r.deps.FaceDetector,
			r.deps.ColorExtractor,
			r.deps.Routines,
			r.deps.Images,
			cfg.FreeHistoryDepth,
			r.logger,
		)

		// Analysis handler
		analysisHandler := handler.NewAnalysisHandler(analysisService, searchLimiter, cfg.SimilarSearchLimit, r.logger)

		// Analysis routes
		v1.Post("/analyses", analysisHandler.Analyze)
		v1.Get("/analyses", analysisHandler.List)
		v1.Get("/analyses/:id", analysisHandler.Get)
		v1.Post("/analyses/:id/report", analysisHandler.Report)
		v1.Get("/analyses/:id/similar", analysisHandler.Similar)

		// Entitlement route
		v1.Get("/entitlement", analysisHandler.Entitlement)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
