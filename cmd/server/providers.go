// File: cmd/server/providers.go
package main

import (
	"log"
	"time"

	"blog_backend/internal/config"
	"blog_backend/internal/jobs"
	"blog_backend/internal/middleware"
	"blog_backend/internal/platform/database"
	"blog_backend/internal/platform/logger"
	"blog_backend/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// platformSet is shared by every injector.
var platformSet = wire.NewSet(
	provideLogger,
	provideDB,
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := l.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	return l, cleanup, nil
}

// provideDB connects and, when DB_AUTO_MIGRATE is set, migrates the schema.
func provideDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, l)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(db, &user.User{}); err != nil {
			database.CloseGORMDB(db, l)
			return nil, nil, err
		}
		l.Info("Database schema migrated")
	}
	return db, func() { database.CloseGORMDB(db, l) }, nil
}

func provideRateLimiter(cfg *config.Config, l *zap.Logger) *middleware.RateLimiter {
	return middleware.NewLoginRateLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst, 5*time.Minute, l.Named("RateLimiter"))
}

func provideRoleCounter(repo user.Repository) jobs.RoleCounter {
	return repo
}
