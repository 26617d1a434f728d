package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/anagmk/Reel/pkg/queue"
	"github.com/anagmk/Reel/pkg/storage"
)

// JobSource is the queue side the purger consumes.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// MediaPurger retries media deletes that failed while a video was being deleted.
type MediaPurger struct {
	store   storage.MediaStore
	jobs    JobSource
	logger  *zap.Logger
	backoff time.Duration
}

// NewMediaPurger creates a media purge processor.
func NewMediaPurger(store storage.MediaStore, jobs JobSource, logger *zap.Logger) *MediaPurger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaPurger{store: store, jobs: jobs, logger: logger, backoff: queue.RetryBackoff}
}

// Process executes one media purge job. A file that is already gone counts as purged.
func (p *MediaPurger) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeMediaPurge {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.MediaPurgePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	err := p.store.Delete(ctx, payload.FilePath)
	switch {
	case err == nil:
		p.logger.Info("media purged", zap.String("video_id", payload.VideoID.String()), zap.String("file_path", payload.FilePath))
		return nil
	case errors.Is(err, fs.ErrNotExist):
		p.logger.Info("media already gone", zap.String("file_path", payload.FilePath))
		return nil
	case errors.Is(err, storage.ErrForeignPath):
		p.logger.Warn("media purge skipped: path not managed by store", zap.String("file_path", payload.FilePath))
		return nil
	default:
		return fmt.Errorf("delete media: %w", err)
	}
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *MediaPurger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("media purge worker stopping")
			return
		default:
		}

		job, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.jobs.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *MediaPurger) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
