package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"course-platform/cmd"
	"course-platform/internal/data/repository"
	"course-platform/internal/wire"
	"course-platform/pkg/database"
	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("db_driver", config.Database.Driver),
		zap.String("storage_driver", config.Storage.Driver),
	)

	// Initialize repositories
	var repos *repository.Repository
	switch config.Database.Driver {
	case utils.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		repos = repository.NewMemoryRepository(logger)
	default:
		if config.Database.AutoMigrate {
			if err := database.Migrate(ctx, database.ConnString(config.Database)); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}
			logger.Info("Database migrations applied")
		}

		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connected successfully")
		repos = repository.NewRepository(db, logger)
	}

	// Wire all dependencies
	app, err := wire.Wiring(ctx, repos, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
