// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"blog_backend/internal/app"
	"blog_backend/internal/auth"
	"blog_backend/internal/config"
	"blog_backend/internal/jobs"
	"blog_backend/internal/middleware"
	"blog_backend/internal/platform/metrics"
	"blog_backend/internal/session"
	"blog_backend/internal/user"

	"github.com/google/wire"
	"gorm.io/gorm"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		user.NewGORMRepository,
		user.NewStore,
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(middleware.RoleResolver), new(*user.ServiceImplementation)),
		user.NewHandler,

		session.NewManagerFromConfig,
		metrics.New,
		provideRateLimiter,

		auth.NewService,
		wire.Bind(new(auth.UserStore), new(*user.Store)),
		auth.NewClientsFromConfig,
		auth.NewHandler,
		wire.Bind(new(auth.LoginRecorder), new(*metrics.Metrics)),

		provideRoleCounter,
		jobs.NewUserStatsJob,
		wire.Bind(new(jobs.UserStatsSink), new(*metrics.Metrics)),

		app.NewServer,
	)
	return nil, nil, nil
}

// initializeUserService backs the set-role command.
func initializeUserService(cfg *config.Config) (*user.ServiceImplementation, func(), error) {
	wire.Build(platformSet, user.NewGORMRepository, user.NewService)
	return nil, nil, nil
}

// initializeDB backs the migrate command.
func initializeDB(cfg *config.Config) (*gorm.DB, func(), error) {
	wire.Build(platformSet)
	return nil, nil, nil
}
