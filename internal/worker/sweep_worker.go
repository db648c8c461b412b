package worker

import (
	"context"
	"time"

	"github.com/proofofputt/duels/internal/duel"
	"github.com/proofofputt/duels/internal/logger"
	"github.com/proofofputt/duels/internal/metrics"
)

// SweepJob runs one expiry sweep pass over duels and invitations. The sweep
// itself is idempotent, so overlapping or repeated runs are harmless.
type SweepJob struct {
	duels *duel.Service
}

// NewSweepJob creates a sweep job for the scheduler
func NewSweepJob(duels *duel.Service) *SweepJob {
	return &SweepJob{duels: duels}
}

// Process implements [Job].
func (j *SweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgSweepStarting)

	start := time.Now()
	result, err := j.duels.SweepExpired(ctx)
	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err)
		return err
	}

	log.Debug(LogMsgSweepCompleted,
		"duels_expired", result.DuelsExpired,
		"invitations_expired", result.InvitationsExpired)
	return nil
}
