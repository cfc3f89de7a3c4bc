package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/ghstats/internal/handlers"
	"github.com/alimgiray/ghstats/internal/middleware"
	"github.com/alimgiray/ghstats/internal/services"
	"github.com/alimgiray/ghstats/pkg/config"
	"github.com/alimgiray/ghstats/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(config.AppConfig.Server.Mode)

	// Initialize logger
	logger.Init()

	// Initialize dependencies
	statsService := services.NewStatsService(
		config.AppConfig.GitHub.GraphQLURL,
		time.Duration(config.AppConfig.GitHub.StatsTimeout)*time.Second,
	)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// Setup routes
	setupRoutes(router, statsService)

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: ", err)
	}
	logger.Info("Server stopped")
}

func setupRoutes(router *gin.Engine, statsService *services.StatsService) {
	// Initialize handlers
	statsHandler := handlers.NewStatsHandler(
		statsService,
		config.AppConfig.GitHub.Username,
		config.AppConfig.GitHub.Token,
	)
	healthHandler := handlers.NewHealthHandler()

	// API routes
	api := router.Group("/api")
	{
		api.GET("/stats", statsHandler.GetStats)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)
}
