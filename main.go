package main

import (
	"context"
	"log"

	"cinema-reservations/cmd"
	"cinema-reservations/internal/data/repository"
	"cinema-reservations/internal/wire"
	"cinema-reservations/pkg/cache"
	"cinema-reservations/pkg/database"
	"cinema-reservations/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to redis for availability snapshots
	cacheStore, err := cache.InitCache(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer cacheStore.Close()

	logger.Info("Cache connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, cacheStore, config, logger)

	// The sweeper reclaims expired holds and marks no-shows in the
	// background for the life of the process.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go app.Service.Sweeper.Run(sweepCtx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
