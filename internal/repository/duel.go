package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/domain"
)

// DuelListFilter narrows ListForPlayer results
type DuelListFilter struct {
	Status         domain.DuelStatus // empty means all
	IncludeHistory bool              // when false, completed duels are omitted
	Limit          int
}

// StatusUpdate carries the optional fields set alongside a status transition
type StatusUpdate struct {
	StartedAt   *time.Time
	CompletedAt *time.Time
	WinnerID    *uuid.UUID
	SetWinner   bool // distinguishes "winner is nil (tie)" from "leave untouched"
}

// Duel is the persistence contract for duel records. Every state-changing
// method is a single atomic guarded update: the transition only happens when
// the persisted status still matches, and the caller learns via the returned
// count whether it won the race. Callers must never read-then-write status.
type Duel interface {
	Create(ctx context.Context, duel *domain.Duel) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Duel, error)
	ListForPlayer(ctx context.Context, playerID uuid.UUID, filter DuelListFilter) ([]domain.Duel, error)

	// UpdateStatusIfIn performs a compare-and-swap on status. Returns the
	// number of rows affected (0 when the current status was not in from).
	UpdateStatusIfIn(ctx context.Context, id uuid.UUID, from []domain.DuelStatus, to domain.DuelStatus, extra StatusUpdate) (int64, error)

	// SetInvitedPlayerIfIn fills the invited-player slot as part of an
	// external acceptance, guarded the same way as UpdateStatusIfIn.
	SetInvitedPlayerIfIn(ctx context.Context, id uuid.UUID, playerID uuid.UUID, from []domain.DuelStatus, to domain.DuelStatus, startedAt time.Time) (int64, error)

	// AttachSession fills one participant's session slot. Succeeds only when
	// the duel is active and that slot is empty; returns rows affected.
	AttachSession(ctx context.Context, id uuid.UUID, role domain.ParticipantRole, sessionID uuid.UUID) (int64, error)

	// CompleteIfActive transitions active -> completed and records the
	// winner (nil means tie). Returns rows affected.
	CompleteIfActive(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, completedAt time.Time) (int64, error)

	// SweepExpired flips every pending/pending_new_player/active duel whose
	// deadline has passed to expired, in one statement. Idempotent.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
