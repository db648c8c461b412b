package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	mu    sync.Mutex
	count int
	err   error
}

func (j *countingJob) Process(_ context.Context) error {
	j.mu.Lock()
	j.count++
	j.mu.Unlock()
	return j.err
}

func (j *countingJob) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

func TestPool_ProcessesJobs(t *testing.T) {
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()

	job := &countingJob{}
	pool.Enqueue(job)
	pool.Enqueue(job)

	time.Sleep(TestWorkerProcessWaitTime * time.Millisecond)
	pool.Stop()

	assert.Equal(t, 2, job.Count())
}

func TestPool_JobErrorDoesNotKillWorker(t *testing.T) {
	pool := NewPool(1, TestQueueSize)
	pool.Start()

	failing := &countingJob{err: errors.New("boom")}
	ok := &countingJob{}
	pool.Enqueue(failing)
	pool.Enqueue(ok)

	time.Sleep(TestWorkerProcessWaitTime * time.Millisecond)
	pool.Stop()

	assert.Equal(t, 1, failing.Count())
	assert.Equal(t, 1, ok.Count())
}
