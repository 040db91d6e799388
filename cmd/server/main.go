package main

import (
	"context" // Redis ping
	"time"    // Server location

	"rootine/internal/api"     // HTTP handlers and router
	"rootine/internal/config"  // Configuration
	"rootine/internal/db"      // Database
	"rootine/internal/service" // Image store interface
	"rootine/internal/storage" // Image stores
	"rootine/internal/utils"   // Logger and clock setup
	"rootine/internal/verify"  // Image verifier

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	utils.SetupLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			logrus.Fatalf("invalid APP_TIMEZONE %q: %v", cfg.Timezone, err)
		}
		utils.SetLocation(loc) // Calendar days and award dates use this zone
	}

	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	var store service.ImageStore
	uploadDir := ""
	if cfg.CloudinaryURL != "" {
		store, err = storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.UploadFolder)
		if err != nil {
			logrus.Fatalf("failed to configure Cloudinary: %v", err)
		}
	} else {
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			logrus.Fatalf("failed to prepare upload dir: %v", err)
		}
		store, uploadDir = local, local.Dir()
		logrus.WithField("dir", uploadDir).Warn("CLOUDINARY_URL not set, storing images on local disk")
	}
	if cfg.VerifierAPIKey == "" {
		logrus.Warn("OPENROUTER_API_KEY not set, image verification accepts every upload")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		DB:                 conn,
		Redis:              redisClient,
		JWTSecret:          cfg.JWTSecret,
		FrontendURL:        cfg.FrontendURL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Verifier:           verify.NewClient(cfg.VerifierAPIKey, cfg.VerifierBaseURL, cfg.VerifierModel, cfg.VerifierPrompt),
		Store:              store,
		UploadDir:          uploadDir,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":     cfg.AppPort,
		"driver":   cfg.DBDriver,
		"timezone": utils.Location().String(),
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
