package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"gudang/internal/handlers"
	"gudang/internal/repositories"
	"gudang/internal/services"
)

// NewApp assembles the Fiber application: repositories and the transaction
// manager over db, services, handlers and the app-level error handler.
// events may be nil, in which case order event publishing is skipped.
func NewApp(db *gorm.DB, events services.EventPublisher, env string) *fiber.App {
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	txManager := repositories.NewGORMTxManager(db)

	productService := services.NewProductService(productRepo, txManager)
	orderService := services.NewOrderService(orderRepo, txManager, events)

	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.NewErrorHandler(env),
	})
	app.Use(logger.New())

	// Routes live at the root; the paths are the wire contract.
	productHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}
