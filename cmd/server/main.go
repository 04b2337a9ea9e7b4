package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pdao-carelink/internal/adapters/http/middleware"
	"pdao-carelink/internal/adapters/http/routes"
	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/config"
	"pdao-carelink/internal/pkg/cache"

	"github.com/gofiber/fiber/v2"

	_ "pdao-carelink/docs" // Swagger docs
)

// @title PDAO CareLink API
// @version 1.0
// @description Municipal disability affairs office API: member registry, benefit distribution and QR-verified redemption
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@pdao.gov.ph

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host carelink.pdao.gov.ph
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed master data and default accounts
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to run seeders: %v", err)
	}

	// Background cache syncer (dashboard and other warm views)
	syncer := cache.NewSyncer(cache.New())
	defer syncer.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PDAO CareLink API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, syncer)

	// Prime registered cache jobs and start polling
	syncer.Start()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
