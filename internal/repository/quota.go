package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QuotaDecision reports the outcome of a reservation attempt
type QuotaDecision struct {
	Allowed   bool
	Used      int
	Limit     int
	Remaining int
}

// Quota is the persistent per-player daily invitation counter. The counter
// lives in the database so limits survive restarts and hold across multiple
// service instances; reservation is a single transactional conditional
// increment, never a read-then-write.
type Quota interface {
	// Reserve atomically counts n invitations against playerID's budget for
	// day, rolling the counter over when the stored day is older. When the
	// budget would be exceeded nothing is recorded and Allowed is false.
	Reserve(ctx context.Context, playerID uuid.UUID, channel string, day time.Time, n, limit int) (QuotaDecision, error)

	// Status reports current usage without reserving.
	Status(ctx context.Context, playerID uuid.UUID, channel string, day time.Time) (used int, err error)
}
