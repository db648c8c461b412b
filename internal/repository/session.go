package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/domain"
)

// Session is the read-side contract for putting session summaries. Sessions
// are written by the recording pipeline, not by this service; the duel flow
// only verifies ownership and reads the summary for scoring.
type Session interface {
	// GetForPlayer returns the summary only when the session exists and
	// belongs to playerID; otherwise domain.ErrNotFound (wrapped).
	GetForPlayer(ctx context.Context, sessionID, playerID uuid.UUID) (*domain.SessionSummary, error)

	Get(ctx context.Context, sessionID uuid.UUID) (*domain.SessionSummary, error)
}
