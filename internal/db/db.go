package db

import (
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	level := logger.Warn
	if cfg.IsProduction() {
		level = logger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newSlogLogger(middleware.Logger, level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// One writer at a time, otherwise sqlite answers "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	middleware.Logger.Info("database connection established", slog.String("driver", cfg.DBDriver))
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	middleware.Logger.Info("database migration completed")
	return nil
}

func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=1"
	}
	if strings.Contains(path, "?") {
		if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
			return path
		}
		return path + "&_foreign_keys=1"
	}
	return strings.TrimPrefix(path, "file:") + "?_foreign_keys=1"
}
