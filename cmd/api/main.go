package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"io.gospelera.push/internal/config"
	"io.gospelera.push/internal/db"
	firebaseutil "io.gospelera.push/internal/firebase"
	"io.gospelera.push/internal/handlers"
	"io.gospelera.push/internal/middleware"
	"io.gospelera.push/internal/push"
	"io.gospelera.push/internal/tokens"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	ctx := context.Background()

	// Initialize Firebase; an absent or malformed service account only
	// disables the native channel
	firebaseApp, fcmClient := firebaseutil.InitFirebase(ctx,
		cfg.Firebase.CredentialsJSON, cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID, logger)

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres()
	if err != nil {
		logger.Fatalw("Failed to initialize PostgreSQL", "error", err)
	}
	defer postgresDB.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis()
	if err != nil {
		logger.Fatalw("Failed to initialize Redis", "error", err)
	}
	defer redisClient.Close()

	// Wire up the push subsystem
	registry := tokens.NewRegistry(postgresDB, redisClient, logger)
	nativeChannel := push.NewFCMChannel(fcmClient, logger)
	browserChannel := push.NewWebPushChannel(cfg.WebPush, logger)
	dispatcher := push.NewDispatcher(registry, nativeChannel, browserChannel, cfg.SendTimeout, logger)
	broadcaster := push.NewBroadcaster(registry, dispatcher, postgresDB, redisClient, logger)

	// Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware for web and mobile clients
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	notificationsHandler := handlers.NewNotificationsHandler(registry, dispatcher, broadcaster, redisClient, logger)

	// Define routes
	v1 := router.Group("/api/v1")
	{
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthMiddleware(firebaseApp, logger))
		{
			notifications.POST("/register-token", notificationsHandler.RegisterPushToken)
			notifications.POST("/remove-token", notificationsHandler.RemovePushToken)
			notifications.POST("/update-preferences", notificationsHandler.UpdateNotificationPrefs)
			notifications.GET("/stats", notificationsHandler.GetNotificationStats)
		}
	}

	// Internal routes for the application backend and ops tooling
	internal := router.Group("/internal/v1")
	internal.Use(middleware.InternalAuthMiddleware(cfg.InternalSecret))
	{
		internal.POST("/notify", notificationsHandler.HandleNotifyEvent)
		internal.POST("/broadcast-daily", notificationsHandler.TriggerDailyBroadcast)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Schedule the daily verse broadcast
	cronManager := cron.New(cron.WithLocation(time.UTC))
	if _, err := cronManager.AddFunc(cfg.DailyBroadcastCron, func() {
		broadcaster.SendDailyBroadcast(context.Background())
	}); err != nil {
		logger.Fatalw("Failed to schedule daily broadcast", "cron", cfg.DailyBroadcastCron, "error", err)
	}
	cronManager.Start()
	defer cronManager.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infow("Shutting down server")

	// Give a 5 second timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalw("Server forced to shutdown", "error", err)
	}

	logger.Infow("Server exited")
}
