package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proofofputt/duels/internal/repository"
)

// QuotaRepository implements the persistent daily invitation counter.
// The reservation is one conditional upsert so concurrent senders can never
// overshoot the limit between a check and a record step.
type QuotaRepository struct {
	db *pgxpool.Pool
}

// NewQuotaRepository creates a new QuotaRepository
func NewQuotaRepository(db *pgxpool.Pool) *QuotaRepository {
	return &QuotaRepository{db: db}
}

// Reserve atomically counts n invitations against the player's daily budget.
// A stale row (older day) is rolled over to the current day before counting.
// When the increment would exceed the limit the write is rejected and nothing
// is recorded; the first insert for a player carries the same guard.
func (r *QuotaRepository) Reserve(ctx context.Context, playerID uuid.UUID, channel string, day time.Time, n, limit int) (repository.QuotaDecision, error) {
	query := `
		INSERT INTO invite_quotas (player_id, channel, day, used)
		SELECT $1, $2, $3::date, $4 WHERE $4 <= $5
		ON CONFLICT (player_id, channel) DO UPDATE
		SET used = CASE WHEN invite_quotas.day = $3::date THEN invite_quotas.used + $4 ELSE $4 END,
		    day = $3::date
		WHERE (CASE WHEN invite_quotas.day = $3::date THEN invite_quotas.used ELSE 0 END) + $4 <= $5
		RETURNING used
	`

	var used int
	err := r.db.QueryRow(ctx, query, playerID, channel, day, n, limit).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, statusErr := r.Status(ctx, playerID, channel, day)
			if statusErr != nil {
				return repository.QuotaDecision{}, statusErr
			}
			return repository.QuotaDecision{
				Allowed:   false,
				Used:      current,
				Limit:     limit,
				Remaining: max(0, limit-current),
			}, nil
		}
		return repository.QuotaDecision{}, fmt.Errorf("failed to reserve invite quota: %w", err)
	}

	return repository.QuotaDecision{
		Allowed:   true,
		Used:      used,
		Limit:     limit,
		Remaining: max(0, limit-used),
	}, nil
}

// Status reports usage for the given day without reserving anything.
func (r *QuotaRepository) Status(ctx context.Context, playerID uuid.UUID, channel string, day time.Time) (int, error) {
	query := `
		SELECT used FROM invite_quotas
		WHERE player_id = $1 AND channel = $2 AND day = $3::date
	`
	var used int
	err := r.db.QueryRow(ctx, query, playerID, channel, day).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get invite quota status: %w", err)
	}
	return used, nil
}
