package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/domain"
)

// Invitation is the persistence contract for duel invitations
type Invitation interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	GetByDuel(ctx context.Context, duelID uuid.UUID) (*domain.Invitation, error)

	// UpdateStatusIfPending resolves the invitation exactly once; returns
	// rows affected (0 when it was already resolved).
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to domain.InvitationStatus, respondedAt time.Time) (int64, error)

	// SweepExpired flips every pending invitation past its deadline to
	// expired. Idempotent.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
