package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/domain"
)

// Player is the persistence contract for player accounts. Lookups return
// domain.ErrPlayerNotFound (wrapped) when no row matches.
type Player interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	GetByUsername(ctx context.Context, username string) (*domain.Player, error)
	GetByEmail(ctx context.Context, email string) (*domain.Player, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Player, error)

	// CreateFromRegistration creates the account for an external invitee
	// accepting by token. Fails when username/email/phone already exist.
	CreateFromRegistration(ctx context.Context, reg domain.Registration) (*domain.Player, error)
}
