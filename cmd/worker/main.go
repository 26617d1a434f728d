// Package main runs the background worker that retries failed media deletes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anagmk/Reel/config"
	"github.com/anagmk/Reel/internal/worker"
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
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var media storage.MediaStore
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
		media, err = storage.NewLocalStore(cfg.Media.Dir, cfg.Media.URLPrefix)
		if err != nil {
			logger.Fatal("media dir", zap.Error(err))
		}
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	purger := worker.NewMediaPurger(media, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go purger.Run(workerCtx)
	logger.Info("worker started", zap.String("queue", queue.QueueMediaPurge))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
