package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proofofputt/duels/internal/domain"
)

// InvitationRepository implements the invitation repository for PostgreSQL
type InvitationRepository struct {
	db *pgxpool.Pool
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `
	invitation_id, duel_id, inviter_id, method, invited_player_id, contact,
	token, message, status, expires_at, created_at, responded_at
`

// Create inserts a new invitation record
func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO duel_invitations
			(invitation_id, duel_id, inviter_id, method, invited_player_id, contact, token, message, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		inv.ID, inv.DuelID, inv.InviterID, string(inv.Method), inv.InvitedPlayerID,
		nullIfEmpty(inv.Contact), inv.Token, nullIfEmpty(inv.Message), string(inv.Status),
		inv.ExpiresAt, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// Get retrieves an invitation by ID
func (r *InvitationRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM duel_invitations WHERE invitation_id = $1`
	return r.getOne(ctx, query, id)
}

// GetByToken retrieves an invitation by its external acceptance token
func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM duel_invitations WHERE token = $1`
	return r.getOne(ctx, query, token)
}

// GetByDuel retrieves the invitation belonging to a duel
func (r *InvitationRepository) GetByDuel(ctx context.Context, duelID uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM duel_invitations WHERE duel_id = $1`
	return r.getOne(ctx, query, duelID)
}

// UpdateStatusIfPending resolves the invitation with a compare-and-swap on
// status; returns rows affected (0 when already resolved).
func (r *InvitationRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to domain.InvitationStatus, respondedAt time.Time) (int64, error) {
	query := `
		UPDATE duel_invitations
		SET status = $1, responded_at = $2
		WHERE invitation_id = $3 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, string(to), respondedAt, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update invitation status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SweepExpired expires every overdue pending invitation. Idempotent.
func (r *InvitationRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE duel_invitations
		SET status = 'expired'
		WHERE status = 'pending' AND expires_at < $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *InvitationRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Invitation, error) {
	var inv domain.Invitation
	var method, status string
	var contact, message *string

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&inv.ID, &inv.DuelID, &inv.InviterID, &method, &inv.InvitedPlayerID, &contact,
		&inv.Token, &message, &status, &inv.ExpiresAt, &inv.CreatedAt, &inv.RespondedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	inv.Method = domain.DeliveryMethod(method)
	inv.Status = domain.InvitationStatus(status)
	if contact != nil {
		inv.Contact = *contact
	}
	if message != nil {
		inv.Message = *message
	}
	return &inv, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
