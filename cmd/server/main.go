package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // errors package for server close detection
	"net/http"  // HTTP server
	"os"        // Signal values
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Server timeouts

	"creator_support/internal/api"        // Custom package for API handlers
	"creator_support/internal/config"     // Custom package for configuration
	"creator_support/internal/db"         // Database connection
	"creator_support/internal/middleware" // Custom package for middleware
	"creator_support/internal/store"      // Data access layer
	"creator_support/internal/utils"      // Cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	}
	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is empty; authenticated routes will answer 500")
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Redis is optional; without it responses are simply not cached
	var cache utils.Cache = utils.NopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = utils.NewRedisCache(redisClient)
	}

	done := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	limiter.StartCleanup(10*time.Minute, 10000, done)

	r := api.NewRouter(api.Deps{
		Store: store.New(gdb),
		Cache: cache,
		Auth: api.AuthConfig{
			Secret:     cfg.JWTSecret,
			TTL:        cfg.TokenTTL,
			BcryptCost: cfg.BcryptCost,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		AuthLimiter:    limiter,
		TrustedProxies: []string{"127.0.0.1"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(done)
	logrus.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}
