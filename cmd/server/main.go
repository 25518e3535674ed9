package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/routes"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/adapters/persistence/models"
	"github.com/914h/BabImmob-sub000/internal/adapters/persistence/repositories"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/services"
	"github.com/914h/BabImmob-sub000/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	_ "github.com/914h/BabImmob-sub000/docs" // Swagger docs
)

// @title BabImmob Web API
// @version 1.0
// @description Session and listing endpoints of the BabImmob web front-end
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@babimmob.ma

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.IsDev()})

	// Connect to the session database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to database")
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to auto migrate")
	}
	log.Info().Msg("✅ Database migration completed")

	// BabImmob API client shared by every request
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, api.WithLogger(log.Logger))

	sessionService := services.NewSessionService(
		repositories.NewSessionRepository(db),
		api.NewAuthGateway(client),
		cfg,
	)

	// Expired sessions are swept on a schedule
	cronService, err := services.NewCronService(sessionService, cfg.Session.SweepSpec)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule the session sweeper")
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BabImmob Web v1.0",
		Views:        views.NewEngine(cfg.IsDev()),
		BodyLimit:    forms.MaxRequestBytes(cfg.Upload.MaxBytes),
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, sessionService, client, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).
		Str("permitted_roles", cfg.PermittedRolesCSV()).Msg("🚀 Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("❌ Failed to start server")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("❌ Error during shutdown")
	}
	log.Info().Msg("✅ Server stopped gracefully")
}
