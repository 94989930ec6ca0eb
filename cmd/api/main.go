package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stock-ledger/internal/handler"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/service"
	"go-stock-ledger/internal/ws"
	"go-stock-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database. \n", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	ledgerRepo := repository.NewLedgerRepo(db)
	ledgerService := service.NewLedgerService(ledgerRepo, db, wsHub)
	stockHandler := handler.NewStockHandler(ledgerService)
	salesHandler := handler.NewSalesHandler(ledgerService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stock Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// 6. Routes
	app.Post("/stocks", stockHandler.CreateStock)
	app.Get("/stocks", stockHandler.GetStocks)
	app.Get("/stocks/:item", stockHandler.GetStock)
	app.Delete("/stocks", stockHandler.DeleteStocks)
	app.Post("/sales", salesHandler.CreateSale)
	app.Get("/sales", salesHandler.GetSales)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
