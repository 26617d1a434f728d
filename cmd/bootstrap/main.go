// Package main creates the first developer account from configuration.
package main

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anagmk/Reel/config"
	"github.com/anagmk/Reel/internal/accounts"
	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/pkg/database"
	"github.com/anagmk/Reel/pkg/password"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminEmail))
	repo := accounts.NewRepository(pool)
	created, err := accounts.Bootstrap(ctx, repo, password.NewHasher(cfg.Security.BcryptCost), email, cfg.Bootstrap.AdminPassword)
	switch {
	case errors.Is(err, models.ErrConflict):
		logger.Info("admin already exists, nothing created", zap.String("email", email))
	case err != nil:
		logger.Fatal("create admin", zap.Error(err))
	default:
		logger.Info("admin created", zap.String("email", created.Email), zap.String("role", string(created.Role)))
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
