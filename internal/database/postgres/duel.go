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
	"github.com/proofofputt/duels/internal/repository"
)

// DuelRepository implements the duel repository for PostgreSQL
type DuelRepository struct {
	db *pgxpool.Pool
}

// NewDuelRepository creates a new DuelRepository
func NewDuelRepository(db *pgxpool.Pool) *DuelRepository {
	return &DuelRepository{db: db}
}

const duelColumns = `
	duel_id, creator_id, invited_player_id, status, rules,
	creator_session_id, invited_session_id, winner_id,
	created_at, started_at, completed_at, updated_at, expires_at
`

// Create inserts a new duel record
func (r *DuelRepository) Create(ctx context.Context, duel *domain.Duel) error {
	rules, err := domain.MarshalRules(duel.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	query := `
		INSERT INTO duels (duel_id, creator_id, invited_player_id, status, rules, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
	`
	_, err = r.db.Exec(ctx, query,
		duel.ID, duel.CreatorID, duel.InvitedPlayerID, string(duel.Status), rules, duel.CreatedAt, duel.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert duel: %w", err)
	}
	return nil
}

// Get retrieves a duel by ID
func (r *DuelRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Duel, error) {
	query := `SELECT ` + duelColumns + ` FROM duels WHERE duel_id = $1`

	duel, err := scanDuel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuelNotFound, id)
		}
		return nil, fmt.Errorf("failed to get duel: %w", err)
	}
	return duel, nil
}

// ListForPlayer returns duels where the player is either participant, newest first
func (r *DuelRepository) ListForPlayer(ctx context.Context, playerID uuid.UUID, filter repository.DuelListFilter) ([]domain.Duel, error) {
	query := `SELECT ` + duelColumns + ` FROM duels WHERE (creator_id = $1 OR invited_player_id = $1)`
	args := []interface{}{playerID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filter.IncludeHistory {
		query += ` AND status != 'completed'`
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list duels: %w", err)
	}
	defer rows.Close()

	var duels []domain.Duel
	for rows.Next() {
		duel, err := scanDuel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan duel: %w", err)
		}
		duels = append(duels, *duel)
	}
	return duels, rows.Err()
}

// UpdateStatusIfIn performs a compare-and-swap operation on duel status.
// Returns the number of rows affected (0 if the status didn't match, 1 if updated).
// This single guard is what makes concurrent accept/expire/complete safe.
func (r *DuelRepository) UpdateStatusIfIn(ctx context.Context, id uuid.UUID, from []domain.DuelStatus, to domain.DuelStatus, extra repository.StatusUpdate) (int64, error) {
	query := `
		UPDATE duels
		SET status = $1,
		    started_at = COALESCE($2, started_at),
		    completed_at = COALESCE($3, completed_at),
		    winner_id = CASE WHEN $4 THEN $5 ELSE winner_id END,
		    updated_at = NOW()
		WHERE duel_id = $6 AND status = ANY($7)
	`
	tag, err := r.db.Exec(ctx, query,
		string(to), extra.StartedAt, extra.CompletedAt, extra.SetWinner, extra.WinnerID, id, statusStrings(from))
	if err != nil {
		return 0, fmt.Errorf("failed to update duel status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetInvitedPlayerIfIn fills the invited-player slot and transitions status
// in one guarded statement, used by the external acceptance flow.
func (r *DuelRepository) SetInvitedPlayerIfIn(ctx context.Context, id uuid.UUID, playerID uuid.UUID, from []domain.DuelStatus, to domain.DuelStatus, startedAt time.Time) (int64, error) {
	query := `
		UPDATE duels
		SET invited_player_id = $1, status = $2, started_at = $3, updated_at = NOW()
		WHERE duel_id = $4 AND status = ANY($5)
	`
	tag, err := r.db.Exec(ctx, query, playerID, string(to), startedAt, id, statusStrings(from))
	if err != nil {
		return 0, fmt.Errorf("failed to set invited player: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AttachSession fills one participant's session slot, guarded on the slot
// being empty and the duel being active.
func (r *DuelRepository) AttachSession(ctx context.Context, id uuid.UUID, role domain.ParticipantRole, sessionID uuid.UUID) (int64, error) {
	column := "creator_session_id"
	if role == domain.RoleInvited {
		column = "invited_session_id"
	}

	query := fmt.Sprintf(`
		UPDATE duels
		SET %s = $1, updated_at = NOW()
		WHERE duel_id = $2 AND status = 'active' AND %s IS NULL
	`, column, column)

	tag, err := r.db.Exec(ctx, query, sessionID, id)
	if err != nil {
		return 0, fmt.Errorf("failed to attach session: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CompleteIfActive transitions active -> completed and records the winner.
// A nil winnerID is stored as NULL and means the duel was a tie.
func (r *DuelRepository) CompleteIfActive(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, completedAt time.Time) (int64, error) {
	query := `
		UPDATE duels
		SET status = 'completed', winner_id = $1, completed_at = $2, updated_at = NOW()
		WHERE duel_id = $3 AND status = 'active'
	`
	tag, err := r.db.Exec(ctx, query, winnerID, completedAt, id)
	if err != nil {
		return 0, fmt.Errorf("failed to complete duel: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SweepExpired expires every overdue open duel in a single statement. The
// deadline is the explicit expires_at when present, otherwise created_at
// plus the rules time limit; a zero limit never expires.
func (r *DuelRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE duels
		SET status = 'expired', updated_at = NOW()
		WHERE status IN ('pending', 'pending_new_player', 'active')
		  AND COALESCE(
		        expires_at,
		        CASE WHEN COALESCE((rules->>'time_limit_minutes')::int, 0) > 0
		             THEN created_at + (rules->>'time_limit_minutes')::int * INTERVAL '1 minute'
		        END
		      ) < $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired duels: %w", err)
	}
	return tag.RowsAffected(), nil
}

func statusStrings(statuses []domain.DuelStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDuel(row rowScanner) (*domain.Duel, error) {
	var duel domain.Duel
	var rules []byte
	var status string

	err := row.Scan(
		&duel.ID, &duel.CreatorID, &duel.InvitedPlayerID, &status, &rules,
		&duel.CreatorSessionID, &duel.InvitedSessionID, &duel.WinnerID,
		&duel.CreatedAt, &duel.StartedAt, &duel.CompletedAt, &duel.UpdatedAt, &duel.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	duel.Status = domain.DuelStatus(status)
	parsed, err := domain.UnmarshalRules(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}
	duel.Rules = *parsed
	return &duel, nil
}
