package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proofofputt/duels/internal/worker"
)

type tickJob struct {
	runs atomic.Int32
}

func (j *tickJob) Process(_ context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestScheduler_RunsJobOnInterval(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	s := New(pool)
	job := &tickJob{}
	s.Schedule(20*time.Millisecond, job)

	time.Sleep(110 * time.Millisecond)
	s.Stop()

	runs := job.runs.Load()
	assert.GreaterOrEqual(t, runs, int32(3))
}

func TestScheduler_StopHaltsScheduling(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	s := New(pool)
	job := &tickJob{}
	s.Schedule(20*time.Millisecond, job)

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	after := job.runs.Load()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, job.runs.Load())
}
