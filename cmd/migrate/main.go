package main

import (
	"rootine/internal/config" // Configuration
	"rootine/internal/db"     // Database
	"rootine/internal/utils"  // Logger setup

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	utils.SetupLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)

	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
}
