package app

import (
	"io"
	"time"

	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options holds the collaborators of the HTTP application. Events may be
// nil to disable change events.
type Options struct {
	DB        *gorm.DB
	Events    services.EventPublisher
	Log       *logger.Logger
	AccessLog io.Writer
	StaticDir string
}

// New assembles the Fiber application with all routes under /api.
func New(opts Options) *fiber.App {
	gw := repositories.NewGORMGateway(opts.DB)
	productRepo := repositories.NewSQLProductRepository(gw)
	categoryRepo := repositories.NewSQLCategoryRepository(gw)

	productService := services.NewProductService(productRepo, categoryRepo, opts.Events, opts.Log.With(zap.String("service", "products")))
	categoryService := services.NewCategoryService(categoryRepo, productRepo, opts.Events, opts.Log.With(zap.String("service", "categories")))

	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: handlers.ErrorHandler,
	})

	middleware.Setup(app, opts.Log, opts.AccessLog)

	app.Get("/health", health(opts))

	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "API is working!"})
	})
	productHandler.RegisterRoutes(api)
	categoryHandler.RegisterRoutes(api)

	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}

	app.Use(middleware.NotFound)
	return app
}

func health(opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		database := "connected"
		if sqlDB, err := opts.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
			database = "unreachable"
		}
		events := "disabled"
		if opts.Events != nil {
			events = "enabled"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"events":   events,
		})
	}
}
