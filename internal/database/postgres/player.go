package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proofofputt/duels/internal/domain"
)

// PlayerRepository implements the player repository for PostgreSQL
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `player_id, username, display_name, COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at`

// Get retrieves a player by ID
func (r *PlayerRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	return r.getOne(ctx, `SELECT `+playerColumns+` FROM players WHERE player_id = $1`, id)
}

// GetByUsername finds a player by username, case-insensitively
func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	return r.getOne(ctx, `SELECT `+playerColumns+` FROM players WHERE LOWER(username) = LOWER($1)`, username)
}

// GetByEmail finds a player by email, case-insensitively
func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (*domain.Player, error) {
	return r.getOne(ctx, `SELECT `+playerColumns+` FROM players WHERE LOWER(email) = LOWER($1)`, email)
}

// GetByPhone finds a player by phone number
func (r *PlayerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Player, error) {
	return r.getOne(ctx, `SELECT `+playerColumns+` FROM players WHERE phone = $1`, phone)
}

// CreateFromRegistration creates the account for an external invitee
// accepting by token. A unique violation maps to ErrValidation because the
// caller supplied an identifier that is already taken.
func (r *PlayerRepository) CreateFromRegistration(ctx context.Context, reg domain.Registration) (*domain.Player, error) {
	displayName := reg.DisplayName
	if displayName == "" {
		displayName = reg.Username
	}

	query := `
		INSERT INTO players (username, display_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + playerColumns

	player, err := scanPlayer(r.db.QueryRow(ctx, query,
		reg.Username, displayName, nullIfEmpty(reg.Email), nullIfEmpty(reg.Phone)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrCodeUniqueViolation {
			return nil, fmt.Errorf("%w: username, email or phone already registered", domain.ErrValidation)
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (r *PlayerRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Player, error) {
	player, err := scanPlayer(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func scanPlayer(row rowScanner) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
