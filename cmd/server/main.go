package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/internal/app/controller"
	"github.com/superae99/salesmap-backend/internal/app/identity"
	"github.com/superae99/salesmap-backend/internal/app/repository"
	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/internal/middleware"
	"github.com/superae99/salesmap-backend/internal/router"
	"github.com/superae99/salesmap-backend/internal/scheduler"
	"github.com/superae99/salesmap-backend/internal/storage"
	"github.com/superae99/salesmap-backend/internal/websocket"
	"github.com/superae99/salesmap-backend/pkg/logger"
	"github.com/superae99/salesmap-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SALESMAP Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Redis is optional. Without it the edit history and filter
	// preferences live in process memory and logout blacklisting is off.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory repositories", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Initialize storage gateway
	gateway, err := storage.NewGateway(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage gateway", err)
	}
	logger.Info("Storage gateway ready", map[string]interface{}{
		"backend": gateway.Name(),
	})

	// Initialize repositories
	var historyRepo repository.EditHistoryRepository
	var preferenceRepo repository.PreferenceRepository
	if client := redis.GetClient(); client != nil {
		historyRepo = repository.NewRedisHistoryRepository(client, cfg.History.MaxEntries)
		preferenceRepo = repository.NewRedisPreferenceRepository(client)
	} else {
		historyRepo = repository.NewMemoryHistoryRepository(cfg.History.MaxEntries)
		preferenceRepo = repository.NewMemoryPreferenceRepository()
	}

	// Initialize websocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	joinService := service.NewJoinService()
	datasetService := service.NewDatasetService(
		gateway,
		joinService,
		identity.NewHashResolver(),
		cfg.Storage.RosterPath,
	)
	facetService := service.NewFacetService()
	editService := service.NewEditService(datasetService, historyRepo, hub)
	historyService := service.NewHistoryService(historyRepo)
	authService := service.NewAuthService(cfg.Auth)
	preferenceService := service.NewPreferenceService(preferenceRepo)

	// Warm the dataset before accepting traffic. A failed initial load is
	// not fatal; requests retry the load until the backend comes up.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := datasetService.Refresh(loadCtx); err != nil {
		logger.Warn("Initial dataset load failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		stats := datasetService.Stats()
		logger.Info("Dataset loaded", map[string]interface{}{
			"records":    stats.Total,
			"matched":    stats.Matched,
			"match_rate": stats.MatchRate(),
		})
	}
	cancelLoad()

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	datasetController := controller.NewDatasetController(datasetService, facetService)
	editController := controller.NewEditController(editService, datasetService)
	historyController := controller.NewHistoryController(historyService)
	preferenceController := controller.NewPreferenceController(preferenceService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	// Periodic dataset refresh (disabled unless DATA_REFRESH_CRON is set)
	refreshScheduler := scheduler.NewDatasetRefreshScheduler(datasetService, cfg.Scheduler.RefreshSpec)
	refreshScheduler.Start()
	defer refreshScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		datasetController,
		editController,
		historyController,
		preferenceController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
