package duel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/invitation"
	"github.com/proofofputt/duels/internal/repository"
)

// MockDuelRepo
type MockDuelRepo struct {
	mock.Mock
}

// Create implements [repository.Duel].
func (m *MockDuelRepo) Create(ctx context.Context, duel *domain.Duel) error {
	args := m.Called(ctx, duel)
	return args.Error(0)
}

func (m *MockDuelRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Duel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Duel), args.Error(1)
}

func (m *MockDuelRepo) ListForPlayer(ctx context.Context, playerID uuid.UUID, filter repository.DuelListFilter) ([]domain.Duel, error) {
	args := m.Called(ctx, playerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Duel), args.Error(1)
}

func (m *MockDuelRepo) UpdateStatusIfIn(ctx context.Context, id uuid.UUID, from []domain.DuelStatus, to domain.DuelStatus, extra repository.StatusUpdate) (int64, error) {
	args := m.Called(ctx, id, from, to, extra)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockDuelRepo) SetInvitedPlayerIfIn(ctx context.Context, id uuid.UUID, playerID uuid.UUID, from []domain.DuelStatus, to domain.DuelStatus, startedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, playerID, from, to, startedAt)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockDuelRepo) AttachSession(ctx context.Context, id uuid.UUID, role domain.ParticipantRole, sessionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, role, sessionID)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockDuelRepo) CompleteIfActive(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, completedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, winnerID, completedAt)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockDuelRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return int64(args.Int(0)), args.Error(1)
}

// MockPlayerRepo
type MockPlayerRepo struct {
	mock.Mock
}

func (m *MockPlayerRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerRepo) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerRepo) GetByEmail(ctx context.Context, email string) (*domain.Player, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerRepo) GetByPhone(ctx context.Context, phone string) (*domain.Player, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerRepo) CreateFromRegistration(ctx context.Context, reg domain.Registration) (*domain.Player, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) GetForPlayer(ctx context.Context, sessionID, playerID uuid.UUID) (*domain.SessionSummary, error) {
	args := m.Called(ctx, sessionID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSummary), args.Error(1)
}

func (m *MockSessionRepo) Get(ctx context.Context, sessionID uuid.UUID) (*domain.SessionSummary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSummary), args.Error(1)
}

// MockInvitations
type MockInvitations struct {
	mock.Mock
}

// ResolveRecipient implements [Invitations].
func (m *MockInvitations) ResolveRecipient(ctx context.Context, inviterID uuid.UUID, req invitation.RecipientRequest) (invitation.Resolved, error) {
	args := m.Called(ctx, inviterID, req)
	return args.Get(0).(invitation.Resolved), args.Error(1)
}

func (m *MockInvitations) ReserveQuota(ctx context.Context, inviterID uuid.UUID, method domain.DeliveryMethod, n int) error {
	args := m.Called(ctx, inviterID, method, n)
	return args.Error(0)
}

func (m *MockInvitations) Issue(ctx context.Context, duel *domain.Duel, inviter *domain.Player, resolved invitation.Resolved, message string) (*domain.Invitation, error) {
	args := m.Called(ctx, duel, inviter, resolved, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitations) Get(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitations) ResolveByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitations) MarkResponded(ctx context.Context, inv *domain.Invitation, accepted bool) error {
	args := m.Called(ctx, inv, accepted)
	return args.Error(0)
}

func (m *MockInvitations) ExpireIfPending(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvitations) CancelForDuel(ctx context.Context, duelID uuid.UUID) error {
	args := m.Called(ctx, duelID)
	return args.Error(0)
}

func (m *MockInvitations) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return int64(args.Int(0)), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, playerID uuid.UUID, kind string, data map[string]interface{}) error {
	args := m.Called(ctx, playerID, kind, data)
	return args.Error(0)
}
