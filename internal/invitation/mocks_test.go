package invitation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/proofofputt/duels/internal/delivery"
	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/repository"
)

// MockInvitationRepo
type MockInvitationRepo struct {
	mock.Mock
}

// Create implements [repository.Invitation].
func (m *MockInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepo) GetByDuel(ctx context.Context, duelID uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, duelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to domain.InvitationStatus, respondedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, to, respondedAt)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockInvitationRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
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

// MockQuotaRepo
type MockQuotaRepo struct {
	mock.Mock
}

func (m *MockQuotaRepo) Reserve(ctx context.Context, playerID uuid.UUID, channel string, day time.Time, n, limit int) (repository.QuotaDecision, error) {
	args := m.Called(ctx, playerID, channel, day, n, limit)
	return args.Get(0).(repository.QuotaDecision), args.Error(1)
}

func (m *MockQuotaRepo) Status(ctx context.Context, playerID uuid.UUID, channel string, day time.Time) (int, error) {
	args := m.Called(ctx, playerID, channel, day)
	return args.Int(0), args.Error(1)
}

// MockChannel
type MockChannel struct {
	mock.Mock
	name string
}

func (m *MockChannel) Name() string {
	return m.name
}

func (m *MockChannel) Send(ctx context.Context, recipient string, invite delivery.Invite) delivery.Result {
	args := m.Called(ctx, recipient, invite)
	return args.Get(0).(delivery.Result)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, playerID uuid.UUID, kind string, data map[string]interface{}) error {
	args := m.Called(ctx, playerID, kind, data)
	return args.Error(0)
}
