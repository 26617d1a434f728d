package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anagmk/Reel/pkg/queue"
	"github.com/anagmk/Reel/pkg/storage"
)

type fakeMedia struct {
	deleteErr error
	deleted   []string
}

func (m *fakeMedia) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", errors.New("not used")
}

func (m *fakeMedia) Delete(_ context.Context, p string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, p)
	return nil
}

type fakeJobs struct {
	mu      sync.Mutex
	pending []*queue.Job
	retried []*queue.Job
	cancel  context.CancelFunc
}

func (f *fakeJobs) Dequeue(context.Context) (*queue.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		f.cancel()
		return nil, nil
	}
	j := f.pending[0]
	f.pending = f.pending[1:]
	return j, nil
}

func (f *fakeJobs) Retry(_ context.Context, j *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.Attempt++
	f.retried = append(f.retried, j)
	return nil
}

func purgeJob(t *testing.T, path string) *queue.Job {
	t.Helper()
	body, err := json.Marshal(queue.MediaPurgePayload{VideoID: uuid.New(), FilePath: path})
	require.NoError(t, err)
	return &queue.Job{ID: "j1", Type: queue.JobTypeMediaPurge, Payload: body}
}

func TestProcessDeletesMedia(t *testing.T) {
	media := &fakeMedia{}
	p := NewMediaPurger(media, nil, nil)
	require.NoError(t, p.Process(context.Background(), purgeJob(t, "/uploads/videos/a.mp4")))
	assert.Equal(t, []string{"/uploads/videos/a.mp4"}, media.deleted)
}

func TestProcessTreatsMissingFileAsDone(t *testing.T) {
	media := &fakeMedia{deleteErr: fmt.Errorf("remove file: %w", fs.ErrNotExist)}
	p := NewMediaPurger(media, nil, nil)
	assert.NoError(t, p.Process(context.Background(), purgeJob(t, "/uploads/videos/a.mp4")))

	media.deleteErr = storage.ErrForeignPath
	assert.NoError(t, p.Process(context.Background(), purgeJob(t, "/elsewhere")))
}

func TestProcessRejectsUnknownJobType(t *testing.T) {
	p := NewMediaPurger(&fakeMedia{}, nil, nil)
	assert.Error(t, p.Process(context.Background(), &queue.Job{Type: "other"}))
}

func TestRunRetriesFailedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	jobs := &fakeJobs{pending: []*queue.Job{purgeJob(t, "/uploads/videos/a.mp4")}, cancel: cancel}
	p := NewMediaPurger(&fakeMedia{deleteErr: errors.New("disk busy")}, jobs, nil)
	p.backoff = time.Millisecond

	p.Run(ctx)

	require.Len(t, jobs.retried, 1)
	assert.Equal(t, 1, jobs.retried[0].Attempt)
}
