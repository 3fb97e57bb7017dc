package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/r4diorusak/InventoryHub/internal/config"
	"github.com/r4diorusak/InventoryHub/internal/handlers"
	"github.com/r4diorusak/InventoryHub/internal/middleware"
	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/internal/repositories"
	"github.com/r4diorusak/InventoryHub/internal/services"
	"github.com/r4diorusak/InventoryHub/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Event publishing (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.EventsQueue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL is not set. Product events will not be published.")
	}

	// --- Store ---
	productRepo := repositories.NewMemoryProductRepository(nil)
	if cfg.SeedProducts {
		seedProducts(productRepo)
	}

	app := newApp(cfg, productRepo, publisher)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires the service, handlers and middleware around repo.
func newApp(cfg *config.Config, repo repositories.ProductRepository, publisher services.EventPublisher) *fiber.App {
	productService := services.NewProductService(repo,
		services.WithLatency(cfg.OperationLatency),
		services.WithEventPublisher(publisher),
	)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New(fiber.Config{
		AppName:      "InventoryHub",
		ErrorHandler: handlers.ErrorHandler,
	})
	middleware.Register(app)

	productHandler.RegisterRoutes(app.Group("/api"))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// seedProducts populates the repository with the example catalogue.
func seedProducts(repo repositories.ProductRepository) {
	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: decimal.RequireFromString("1200.00"), StockQuantity: 15, ReorderLevel: 5, Category: "Electronics"},
		{Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("25.99"), StockQuantity: 3, ReorderLevel: 10, Category: "Accessories"},
		{Name: "Mechanical Keyboard", Description: "RGB mechanical keyboard", Price: decimal.RequireFromString("89.99"), StockQuantity: 8, ReorderLevel: 8, Category: "Accessories"},
		{Name: "27\" Monitor", Description: "4K IPS monitor", Price: decimal.RequireFromString("349.50"), StockQuantity: 12, ReorderLevel: 4, Category: "Electronics"},
		{Name: "USB-C Hub", Description: "7-in-1 USB-C hub", Price: decimal.RequireFromString("39.00"), StockQuantity: 0, ReorderLevel: 6, Category: "Accessories"},
	}

	for i := range products {
		if err := repo.Insert(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %d)", products[i].Name, products[i].ID)
		}
	}
}
