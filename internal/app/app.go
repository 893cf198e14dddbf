// Package app wires the HTTP service together.
package app

import (
	"context"
	"errors"
	"time"

	"markethub/internal/config"
	"markethub/internal/handlers"
	"markethub/internal/middleware"
	"markethub/internal/reconcile"
	"markethub/internal/repositories"
	"markethub/internal/services"
	"markethub/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the assembled service.
type App struct {
	Fiber  *fiber.App
	Runner *reconcile.Runner
	Auth   *services.AuthService
}

// New builds the service over db. publisher may be nil.
func New(cfg *config.Config, db *gorm.DB, files storage.FileStore, publisher reconcile.Publisher, log *zap.Logger) *App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	activityRepo := repositories.NewGORMActivityLogRepository(db)

	// --- Reconciliation ---
	runner := reconcile.NewStandardRunner(db, files, reconcile.Options{
		FallbackVendorID: cfg.FallbackVendorID,
		Images: reconcile.ImageOptions{
			Prefixes:   cfg.Images.Prefixes,
			PoolDir:    cfg.Images.PoolDir,
			FuzzyMatch: cfg.Images.FuzzyMatch,
		},
		RoutingKey: cfg.ReconcileQueue,
	}, log.Named("reconcile"), publisher)

	// --- Services ---
	authService := services.NewAuthService(userRepo, activityRepo, cfg.JWTSecret, log)
	catalogService := services.NewCatalogService(catalogRepo, services.CatalogOptions{
		FeaturedLimit:    cfg.Catalog.FeaturedLimit,
		RelatedLimit:     cfg.Catalog.RelatedLimit,
		PerPage:          cfg.Catalog.PerPage,
		PlaceholderImage: cfg.Catalog.PlaceholderImage,
	})
	userService := services.NewUserService(userRepo, reconcile.NewStatusSync(db))
	addressService := services.NewAddressService(addressRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, log)
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)
	addressHandler := handlers.NewAddressHandler(addressService, log)
	adminHandler := handlers.NewAdminHandler(runner, userService, log)

	app := fiber.New(fiber.Config{
		AppName:      "markethub",
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protected := apiV1.Group("", middleware.AuthRequired(authService, log))
	addressHandler.RegisterRoutes(protected)
	adminHandler.RegisterRoutes(protected.Group("", middleware.AdminOnly()))

	// --- Health Check Endpoint ---
	app.Get("/health", healthHandler(db))

	return &App{Fiber: app, Runner: runner, Auth: authService}
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"time":     time.Now().Format(time.RFC3339),
				"database": "down",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "up",
		})
	}
}

// errorHandler renders errors that escape the handlers, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, message = fe.Code, fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}
