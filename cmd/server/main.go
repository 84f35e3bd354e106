package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"ledger_service/internal/api"        // Custom package for API handlers
	"ledger_service/internal/config"     // Custom package for configuration
	"ledger_service/internal/ledger"     // Request pipeline
	"ledger_service/internal/middleware" // Custom package for middleware
	"ledger_service/internal/moderation" // Content classifier

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the isolated ledger schema with the elevated service
	// credentials; this connection is handed to the store adapter and is
	// the only place those credentials exist in the process
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Assemble the request pipeline: store adapter, classifier, dispatcher
	store := ledger.NewGormStore(db)                      // Only holder of the elevated connection
	classifier := moderation.NewMockClassifier()          // Mock classifier until a real backend exists
	dispatcher := ledger.NewDispatcher(store, classifier) // Routes envelopes to operation handlers

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// CORS runs before everything else so preflight is answered
	// unconditionally, authenticated or not
	r.Use(middleware.CORS())

	// Identity provider routes (issue the bearer tokens the verifier checks)
	r.POST("/user", api.RegisterHandler(db))            // Registration endpoint
	r.GET("/user", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	// The single authenticated ledger entry point
	r.POST("/ledger", middleware.BearerAuth(cfg.JWTSecret), api.LedgerHandler(dispatcher, redisClient))

	// Advisory moderation endpoint, same classifier the ledger core uses
	r.POST("/moderate", middleware.BearerAuth(cfg.JWTSecret), api.ModerationHandler(classifier))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
