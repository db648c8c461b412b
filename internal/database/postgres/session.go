package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proofofputt/duels/internal/domain"
)

// SessionRepository implements read access to session summaries
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetForPlayer returns the summary only when the session belongs to playerID
func (r *SessionRepository) GetForPlayer(ctx context.Context, sessionID, playerID uuid.UUID) (*domain.SessionSummary, error) {
	query := `SELECT session_id, player_id, data FROM sessions WHERE session_id = $1 AND player_id = $2`
	return r.getOne(ctx, query, sessionID, playerID)
}

// Get retrieves a session summary by ID
func (r *SessionRepository) Get(ctx context.Context, sessionID uuid.UUID) (*domain.SessionSummary, error) {
	query := `SELECT session_id, player_id, data FROM sessions WHERE session_id = $1`
	return r.getOne(ctx, query, sessionID)
}

func (r *SessionRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.SessionSummary, error) {
	var id, playerID uuid.UUID
	var data []byte

	err := r.db.QueryRow(ctx, query, args...).Scan(&id, &playerID, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: session", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	summary, err := domain.UnmarshalSessionSummary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	summary.SessionID = id
	summary.PlayerID = playerID
	return summary, nil
}
