// Package server contains the HTTP handlers and routing for the vault API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "brainvault/docs" // swagger docs
	"brainvault/internal/cache"
	"brainvault/internal/config"
	"brainvault/internal/database"
	"brainvault/internal/middleware"
	"brainvault/internal/models"
	"brainvault/internal/observability"
	"brainvault/internal/repository"
	"brainvault/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "brainvault-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	credentials    *service.CredentialService
	tokens         *service.TokenService
	contents       *service.ContentService
	shares         *service.ShareService
}

// NewServer connects to the database and Redis described by cfg and wires
// the services on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.NewClient(context.Background(), cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, which disables the share resolution cache.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	return newServer(cfg, db, redisClient, 0)
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, bcryptCost int) (*Server, error) {
	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	timeout := repository.WithQueryTimeout(cfg.DBQueryTimeout)
	userRepo := repository.NewUserRepository(db, timeout)
	contentRepo := repository.NewContentRepository(db, timeout)
	shareRepo := repository.NewShareLinkRepository(db, timeout)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		userRepo:       userRepo,
		credentials:    service.NewCredentialService(userRepo, bcryptCost),
		tokens:         tokens,
		contents:       service.NewContentService(contentRepo),
		shares:         service.NewShareService(shareRepo, redisClient),
	}, nil
}

// NewApp returns a fiber app with the error handler, middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Brainvault API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler keeps fiber's own errors (404 route, 405, body too large) and
// turns anything else into a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
	}
	observability.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New())

	// Tracing runs before ContextMiddleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	// Bearer tokens travel in a header, so cookies are never needed cross-origin.
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(observability.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api/v1")

	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Post("/signup", s.Signup)
	api.Post("/signin", s.Signin)

	guard := middleware.SessionGuard(s.tokens)

	api.Post("/content", guard, s.CreateContent)
	api.Get("/content", guard, s.ListContent)
	api.Delete("/content", guard, s.DeleteContent)

	api.Post("/brain/share", guard, s.UpdateShare)
	// Public: the share hash is the only credential.
	api.Get("/brain/:shareLink", s.GetSharedBrain)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: a
// server running without it is still ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port until Shutdown.
func (s *Server) Start() error {
	s.app = s.NewApp()
	observability.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close sql DB: %w", cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", rerr))
		}
	}

	observability.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
