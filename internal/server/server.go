// Package server assembles the HTTP application: middleware, repositories,
// services and routes.
package server

import (
	"errors"

	"gudang/internal/config"
	"gudang/internal/handlers"
	"gudang/internal/metrics"
	"gudang/internal/middleware"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server is the wired application.
type Server struct {
	App         *fiber.App
	AuthService *services.AuthService
}

// New builds the fiber app on top of db. events may be nil, in which case
// inventory events are not published.
func New(cfg *config.Config, db *gorm.DB, events services.EventPublisher, log *zap.SugaredLogger) *Server {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	inventoryRepo := repositories.NewGORMInventoryRepository(db)
	supplierRepo := repositories.NewGORMSupplierRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL, log)
	inventoryService := services.NewInventoryService(inventoryRepo, events, log)
	supplierService := services.NewSupplierService(supplierRepo)
	signer := services.NewSessionSigner(cfg.SessionSecret)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, signer, log, handlers.AuthHandlerConfig{
		SecureCookies: cfg.Production(),
		RateLimit:     cfg.AuthRateLimit,
	})
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, log, cfg.MaxPageLimit)
	supplierHandler := handlers.NewSupplierHandler(supplierService, log, cfg.MaxPageLimit)

	app := fiber.New(fiber.Config{
		AppName:      "gudang",
		ErrorHandler: errorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Content-Type, Authorization",
		AllowMethods:     "POST, GET, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
		MaxAge:           600,
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.RequestLogger(log))

	app.Get("/health_check", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", metrics.Handler())

	// --- API Routes ---
	auth := middleware.AuthRequired(authService, signer)
	api := app.Group("/api")
	authHandler.RegisterRoutes(api, auth)
	inventoryHandler.RegisterRoutes(api, auth)
	supplierHandler.RegisterRoutes(api, auth)

	return &Server{
		App:         app,
		AuthService: authService,
	}
}

// errorHandler renders errors that escape the handlers as {"message": ...}.
// Only fiber errors keep their message; anything else is a generic 500.
func errorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"message": fe.Message,
			})
		}
		log.Errorw("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal Server Error",
		})
	}
}
