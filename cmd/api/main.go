package main

import (
	"os"
	"os/signal"
	"syscall"

	"estoque-api/internal/handler"
	"estoque-api/internal/model"
	"estoque-api/internal/repository"
	"estoque-api/internal/repository/memory"
	"estoque-api/internal/service"
	"estoque-api/internal/ws"
	"estoque-api/pkg/config"
	"estoque-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found")
	}
	cfg := config.Load()

	// 2. Setup storage: Postgres by default, in-memory for standalone use
	var (
		productRepo repository.ProductRepository
		txRepo      repository.TransactionRepository
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.New()
		productRepo = memory.NewProductRepo(store)
		txRepo = memory.NewTransactionRepo(store)
		log.Info().Msg("using in-memory store")
	default:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := db.AutoMigrate(&model.Product{}, &model.Transaction{}); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate schema")
		}
		productRepo = repository.NewProductRepo(db)
		txRepo = repository.NewTransactionRepo(db)
		log.Info().Msg("database connection established")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	catalogService := service.NewCatalogService(productRepo, wsHub)
	ledgerService := service.NewLedgerService(txRepo, wsHub)
	reportService := service.NewReportService(productRepo, txRepo, cfg.Stock.LowThreshold)

	productHandler := handler.NewProductHandler(catalogService)
	txHandler := handler.NewTransactionHandler(ledgerService, reportService)
	reportHandler := handler.NewReportHandler(reportService)
	exportHandler := handler.NewExportHandler(catalogService, reportService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Controle de Estoque API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Product Routes (catalog)
	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	// Transaction Routes (ledger)
	api.Get("/transactions", txHandler.GetTransactions)
	api.Get("/transactions/:id", txHandler.GetTransaction)
	api.Post("/transactions", txHandler.CreateTransaction)

	// Report Routes
	api.Get("/reports/low-stock", reportHandler.GetLowStock)
	api.Get("/reports/daily-flow", reportHandler.GetDailyFlow)
	api.Get("/reports/stats", reportHandler.GetStats)

	// CSV Export Routes
	api.Get("/export/products.csv", exportHandler.ExportProducts)
	api.Get("/export/transactions.csv", exportHandler.ExportTransactions)

	// WebSocket Route (live change feed)
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
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
