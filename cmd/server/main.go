// Package main runs the Reel HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anagmk/Reel/config"
	"github.com/anagmk/Reel/internal/accounts"
	"github.com/anagmk/Reel/internal/answers"
	"github.com/anagmk/Reel/internal/dashboard"
	"github.com/anagmk/Reel/internal/server"
	"github.com/anagmk/Reel/internal/session"
	"github.com/anagmk/Reel/internal/videos"
	"github.com/anagmk/Reel/pkg/database"
	"github.com/anagmk/Reel/pkg/password"
	"github.com/anagmk/Reel/pkg/queue"
	"github.com/anagmk/Reel/pkg/redis"
	"github.com/anagmk/Reel/pkg/storage"
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

	// Redis backs sessions when configured and the media purge queue when reachable.
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		if cfg.Session.UseRedisSessions() {
			logger.Fatal("redis", zap.Error(err))
		}
		logger.Warn("redis unavailable, media purge queue disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	if cfg.Session.UsesDefaultSecret() {
		logger.Warn("SESSION_SECRET is unset, session cookies are signed with a public default key")
	}
	var store session.Store = session.NewMemoryStore()
	if cfg.Session.UseRedisSessions() {
		store = session.NewRedisStore(rdb.Client)
	}
	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		Secret:     cfg.Session.Secret,
		TTL:        time.Duration(cfg.Session.TTLHours) * time.Hour,
		Secure:     cfg.Session.Secure,
	}, logger)

	var media storage.MediaStore
	staticDir, staticPrefix := "", ""
	if cfg.Media.UseS3() {
		media, err = storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.AWS.MediaBucket,
		}, logger)
		if err != nil {
			logger.Fatal("s3", zap.Error(err))
		}
	} else {
		local, err := storage.NewLocalStore(cfg.Media.Dir, cfg.Media.URLPrefix)
		if err != nil {
			logger.Fatal("media dir", zap.Error(err))
		}
		media = local
		staticDir, staticPrefix = local.Root(), local.URLPrefix()
	}

	var purge videos.PurgeQueue
	if rdb != nil {
		purge = queue.NewQueue(rdb.Client, logger)
	}

	router, err := server.New(server.Deps{
		Logger:       logger,
		CORSOrigins:  cfg.Server.CORSAllowedOrigins,
		Sessions:     sessions,
		Accounts:     accounts.NewRepository(pool),
		Content:      videos.NewRepository(pool),
		Responses:    answers.NewRepository(pool),
		Stats:        dashboard.NewStatsRepository(pool),
		Hasher:       password.NewHasher(cfg.Security.BcryptCost),
		Media:        media,
		Purge:        purge,
		MaxFileSize:  cfg.Media.MaxFileSize,
		StaticDir:    staticDir,
		StaticPrefix: staticPrefix,
	})
	if err != nil {
		logger.Fatal("router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
