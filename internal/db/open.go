package db

import (
	"fmt"
	"net/url"
	"time"

	"rootine/internal/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. The returned handle owns the
// connection pool and is shared by every request.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
		level = logger.Info // Logs every statement
	}
	gormCfg := &gorm.Config{
		TranslateError: true, // Unique violations become gorm.ErrDuplicatedKey
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		loc := "Local"
		if cfg.Timezone != "" {
			loc = url.QueryEscape(cfg.Timezone)
		}
		dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + port + ")/" + cfg.DBName + "?charset=utf8mb4&parseTime=true&loc=" + loc
		return mysql.Open(dsn), nil
	case "postgres", "":
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, port)
		if cfg.Timezone != "" {
			dsn += " TimeZone=" + cfg.Timezone
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
