package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/duel"
	"github.com/proofofputt/duels/internal/expiry"
	"github.com/proofofputt/duels/internal/invitation"
	"github.com/proofofputt/duels/internal/repository"
)

// MockDuelService
type MockDuelService struct {
	mock.Mock
}

// CreateDuel implements [DuelService].
func (m *MockDuelService) CreateDuel(ctx context.Context, creatorID uuid.UUID, req duel.CreateRequest) (*domain.Duel, *domain.Invitation, error) {
	args := m.Called(ctx, creatorID, req)
	var d *domain.Duel
	if args.Get(0) != nil {
		d = args.Get(0).(*domain.Duel)
	}
	var inv *domain.Invitation
	if args.Get(1) != nil {
		inv = args.Get(1).(*domain.Invitation)
	}
	return d, inv, args.Error(2)
}

func (m *MockDuelService) ListDuels(ctx context.Context, playerID uuid.UUID, filter repository.DuelListFilter) ([]duel.View, error) {
	args := m.Called(ctx, playerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]duel.View), args.Error(1)
}

func (m *MockDuelService) GetDuel(ctx context.Context, playerID, duelID uuid.UUID) (*duel.View, error) {
	args := m.Called(ctx, playerID, duelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*duel.View), args.Error(1)
}

func (m *MockDuelService) GetDuelTimer(ctx context.Context, duelID uuid.UUID) (expiry.Remaining, error) {
	args := m.Called(ctx, duelID)
	return args.Get(0).(expiry.Remaining), args.Error(1)
}

func (m *MockDuelService) RespondToInvitation(ctx context.Context, req duel.RespondRequest) (*domain.Duel, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Duel), args.Error(1)
}

func (m *MockDuelService) SubmitSession(ctx context.Context, playerID, duelID, sessionID uuid.UUID) (*duel.View, error) {
	args := m.Called(ctx, playerID, duelID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*duel.View), args.Error(1)
}

func (m *MockDuelService) CancelDuel(ctx context.Context, playerID, duelID uuid.UUID) (*domain.Duel, error) {
	args := m.Called(ctx, playerID, duelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Duel), args.Error(1)
}

func (m *MockDuelService) SweepExpired(ctx context.Context) (duel.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(duel.SweepResult), args.Error(1)
}

// MockInvitationService
type MockInvitationService struct {
	mock.Mock
}

// ResolveByToken implements [InvitationService].
func (m *MockInvitationService) ResolveByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationService) Status(ctx context.Context, inviterID uuid.UUID) ([]invitation.QuotaStatus, error) {
	args := m.Called(ctx, inviterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invitation.QuotaStatus), args.Error(1)
}
