package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceMovesToDLQAfterMaxRetries(t *testing.T) {
	job := &Job{ID: "j1", Type: JobTypeMediaPurge}

	var targets []string
	for i := 0; i < MaxRetries; i++ {
		targets = append(targets, advance(job))
	}

	assert.Equal(t, []string{QueueMediaPurge, QueueMediaPurge, QueueDLQ}, targets)
	assert.Equal(t, MaxRetries, job.Attempt)
}

func TestAdvanceKeepsExhaustedJobsInDLQ(t *testing.T) {
	job := &Job{ID: "j2", Attempt: MaxRetries + 1}
	assert.Equal(t, QueueDLQ, advance(job))
	assert.Equal(t, MaxRetries+2, job.Attempt)
}
