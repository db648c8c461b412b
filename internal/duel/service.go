// Package duel orchestrates the duel lifecycle: creation and invitation,
// acceptance, session submission and scoring, cancellation, and expiry.
// Every state transition goes through a guarded store update; the orchestrator
// never reads a status and writes a decision in separate steps.
package duel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/event"
	"github.com/proofofputt/duels/internal/expiry"
	"github.com/proofofputt/duels/internal/invitation"
	"github.com/proofofputt/duels/internal/logger"
	"github.com/proofofputt/duels/internal/metrics"
	"github.com/proofofputt/duels/internal/notify"
	"github.com/proofofputt/duels/internal/repository"
	"github.com/proofofputt/duels/internal/scoring"
)

// CreateRequest carries everything needed to create a duel and invite the
// opponent. TimeLimitHours, when set, is converted to minutes before the
// rules are stored; it exists because older clients send hours.
type CreateRequest struct {
	Rules          domain.DuelRules
	TimeLimitHours int
	Recipient      invitation.RecipientRequest
	Message        string
}

// RespondRequest settles an invitation. Registered invitees respond by
// invitation id; external invitees respond by token and must include a
// registration when accepting.
type RespondRequest struct {
	InvitationID uuid.UUID
	Token        string
	PlayerID     uuid.UUID // responder, zero for token flow
	Accept       bool
	Registration *domain.Registration
}

// View is a duel annotated with its evaluated time budget. Reads never
// mutate status; a duel past its deadline shows IsExpired until the sweep
// flips it.
type View struct {
	Duel      *domain.Duel     `json:"duel"`
	Remaining expiry.Remaining `json:"timer"`
}

// SweepResult reports one sweep pass
type SweepResult struct {
	DuelsExpired       int64 `json:"duels_expired"`
	InvitationsExpired int64 `json:"invitations_expired"`
}

// Invitations is the slice of the invitation service the orchestrator needs
type Invitations interface {
	ResolveRecipient(ctx context.Context, inviterID uuid.UUID, req invitation.RecipientRequest) (invitation.Resolved, error)
	ReserveQuota(ctx context.Context, inviterID uuid.UUID, method domain.DeliveryMethod, n int) error
	Issue(ctx context.Context, duel *domain.Duel, inviter *domain.Player, resolved invitation.Resolved, message string) (*domain.Invitation, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	ResolveByToken(ctx context.Context, token string) (*domain.Invitation, error)
	MarkResponded(ctx context.Context, inv *domain.Invitation, accepted bool) error
	ExpireIfPending(ctx context.Context, id uuid.UUID) error
	CancelForDuel(ctx context.Context, duelID uuid.UUID) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service is the duel lifecycle orchestrator
type Service struct {
	duels       repository.Duel
	players     repository.Player
	sessions    repository.Session
	invitations Invitations
	notifier    notify.Notifier
	publisher   event.Bus
	now         func() time.Time
}

// NewService creates the orchestrator
func NewService(
	duels repository.Duel,
	players repository.Player,
	sessions repository.Session,
	invitations Invitations,
	notifier notify.Notifier,
	publisher event.Bus,
) *Service {
	return &Service{
		duels:       duels,
		players:     players,
		sessions:    sessions,
		invitations: invitations,
		notifier:    notifier,
		publisher:   publisher,
		now:         time.Now,
	}
}

// CreateDuel creates a duel and issues the invitation. The duel starts in
// pending when the recipient is registered and pending_new_player otherwise.
// Any invitation failure after the duel row exists rolls the duel back to
// cancelled; quota rejection happens before any record is written.
func (s *Service) CreateDuel(ctx context.Context, creatorID uuid.UUID, req CreateRequest) (*domain.Duel, *domain.Invitation, error) {
	rules := req.Rules
	if req.TimeLimitHours > 0 {
		rules.TimeLimitMinutes = req.TimeLimitHours * 60
	}
	if rules.ScoringMethod != "" && !domain.KnownScoringMethod(rules.ScoringMethod) {
		return nil, nil, fmt.Errorf("%s: %s %q: %w", domain.ErrMsgValidation, ErrMsgUnknownScoringMethod, rules.ScoringMethod, domain.ErrValidation)
	}
	if rules.TimeLimitMinutes == 0 {
		rules.TimeLimitMinutes = domain.DefaultTimeLimitMinutes
	}
	rules = rules.Normalize()

	creator, err := s.players.Get(ctx, creatorID)
	if err != nil {
		return nil, nil, err
	}

	resolved, err := s.invitations.ResolveRecipient(ctx, creatorID, req.Recipient)
	if err != nil {
		return nil, nil, err
	}

	// Quota is a precondition: rejected requests leave no records behind.
	if !resolved.Registered() {
		if err := s.invitations.ReserveQuota(ctx, creatorID, resolved.Method, 1); err != nil {
			return nil, nil, err
		}
	}

	now := s.now()
	duel := &domain.Duel{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Status:    domain.DuelStatusPending,
		Rules:     rules,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if resolved.Registered() {
		id := resolved.Player.ID
		duel.InvitedPlayerID = &id
	} else {
		duel.Status = domain.DuelStatusPendingNewPlayer
	}
	if rules.TimeLimitMinutes > 0 {
		expiresAt := now.Add(time.Duration(rules.TimeLimitMinutes) * time.Minute)
		duel.ExpiresAt = &expiresAt
	}

	if err := s.duels.Create(ctx, duel); err != nil {
		return nil, nil, fmt.Errorf("create duel: %w", err)
	}

	inv, err := s.invitations.Issue(ctx, duel, creator, resolved, req.Message)
	if err != nil {
		// The duel row already exists but nothing points at it. Cancel it
		// before surfacing the failure, whatever the failure was.
		s.rollbackUndelivered(ctx, duel)
		return nil, nil, err
	}

	_ = s.publisher.Publish(ctx, event.NewDuelLifecycleEvent(event.DuelCreated, duel.ID, duel.CreatorID, duel.InvitedPlayerID, string(duel.Status)))

	metrics.DuelsCreated.Inc()
	logger.Info(LogMsgDuelCreated, "duel_id", duel.ID, "creator_id", creatorID, "status", string(duel.Status))
	return duel, inv, nil
}

func (s *Service) rollbackUndelivered(ctx context.Context, duel *domain.Duel) {
	from := []domain.DuelStatus{domain.DuelStatusPending, domain.DuelStatusPendingNewPlayer}
	if _, err := s.duels.UpdateStatusIfIn(ctx, duel.ID, from, domain.DuelStatusCancelled, repository.StatusUpdate{}); err != nil {
		logger.Error("Failed to roll back undelivered duel", "duel_id", duel.ID, "error", err)
		return
	}
	logger.Warn(LogMsgDuelRolledBack, "duel_id", duel.ID)
}

// ListDuels returns the player's duels, newest first.
func (s *Service) ListDuels(ctx context.Context, playerID uuid.UUID, filter repository.DuelListFilter) ([]View, error) {
	duels, err := s.duels.ListForPlayer(ctx, playerID, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, len(duels))
	for i := range duels {
		views[i] = View{Duel: &duels[i], Remaining: expiry.ForDuel(&duels[i], now)}
	}
	return views, nil
}

// GetDuel returns one duel with its timer. Only participants may read it.
func (s *Service) GetDuel(ctx context.Context, playerID, duelID uuid.UUID) (*View, error) {
	duel, err := s.duels.Get(ctx, duelID)
	if err != nil {
		return nil, err
	}
	if _, ok := duel.Role(playerID); !ok {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgForbidden, domain.ErrForbidden)
	}
	return &View{Duel: duel, Remaining: expiry.ForDuel(duel, s.now())}, nil
}

// GetDuelTimer evaluates the duel's deadline without touching its status.
func (s *Service) GetDuelTimer(ctx context.Context, duelID uuid.UUID) (expiry.Remaining, error) {
	duel, err := s.duels.Get(ctx, duelID)
	if err != nil {
		return expiry.Remaining{}, err
	}
	return expiry.ForDuel(duel, s.now()), nil
}

// RespondToInvitation settles an invitation and, on acceptance, activates
// the duel. The token flow creates the responder's account first.
func (s *Service) RespondToInvitation(ctx context.Context, req RespondRequest) (*domain.Duel, error) {
	inv, err := s.resolveInvitation(ctx, req)
	if err != nil {
		return nil, err
	}

	duel, err := s.duels.Get(ctx, inv.DuelID)
	if err != nil {
		return nil, err
	}
	if remaining := expiry.ForDuel(duel, s.now()); remaining.IsExpired {
		// The invitation cannot be answered anymore; settle it as expired
		// rather than leaving it pending for the sweep.
		if eErr := s.invitations.ExpireIfPending(ctx, inv.ID); eErr != nil {
			logger.Warn("Failed to expire invitation for lapsed duel", "invitation_id", inv.ID, "error", eErr)
		}
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgExpired, domain.ErrExpired)
	}

	if !req.Accept {
		return s.decline(ctx, duel, inv)
	}
	return s.accept(ctx, duel, inv, req)
}

func (s *Service) resolveInvitation(ctx context.Context, req RespondRequest) (*domain.Invitation, error) {
	if req.Token != "" {
		return s.invitations.ResolveByToken(ctx, req.Token)
	}

	inv, err := s.invitations.Get(ctx, req.InvitationID)
	if err != nil {
		return nil, err
	}
	if inv.InvitedPlayerID == nil || *inv.InvitedPlayerID != req.PlayerID {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgForbidden, domain.ErrForbidden)
	}
	if inv.Status != domain.InvitationStatusPending {
		return nil, fmt.Errorf("%s: invitation already %s: %w", domain.ErrMsgConflict, inv.Status, domain.ErrConflict)
	}
	if remaining := expiry.ForInvitation(inv, s.now()); remaining.IsExpired {
		if eErr := s.invitations.ExpireIfPending(ctx, inv.ID); eErr != nil {
			logger.Warn("Failed to expire lapsed invitation", "invitation_id", inv.ID, "error", eErr)
		}
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgExpired, domain.ErrExpired)
	}
	return inv, nil
}

func (s *Service) accept(ctx context.Context, duel *domain.Duel, inv *domain.Invitation, req RespondRequest) (*domain.Duel, error) {
	now := s.now()

	var accepterID uuid.UUID
	var affected int64
	var err error

	if inv.NeedsRegistration() {
		if req.Registration == nil {
			return nil, fmt.Errorf("%s: %s: %w", domain.ErrMsgValidation, ErrMsgRegistrationRequired, domain.ErrValidation)
		}
		if !req.Registration.Valid() {
			return nil, fmt.Errorf("%s: %s: %w", domain.ErrMsgValidation, ErrMsgRegistrationInvalid, domain.ErrValidation)
		}
		player, cErr := s.players.CreateFromRegistration(ctx, *req.Registration)
		if cErr != nil {
			return nil, cErr
		}
		accepterID = player.ID
		affected, err = s.duels.SetInvitedPlayerIfIn(ctx, duel.ID, accepterID,
			[]domain.DuelStatus{domain.DuelStatusPendingNewPlayer}, domain.DuelStatusActive, now)
	} else {
		accepterID = *inv.InvitedPlayerID
		startedAt := now
		affected, err = s.duels.UpdateStatusIfIn(ctx, duel.ID,
			[]domain.DuelStatus{domain.DuelStatusPending}, domain.DuelStatusActive,
			repository.StatusUpdate{StartedAt: &startedAt})
	}
	if err != nil {
		return nil, fmt.Errorf("activate duel: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %s: %w", domain.ErrMsgConflict, ErrMsgNotPending, domain.ErrConflict)
	}

	if err := s.invitations.MarkResponded(ctx, inv, true); err != nil {
		// The duel is already active; the sweep reconciles the invitation.
		logger.Warn("Invitation settle failed after activation", "invitation_id", inv.ID, "error", err)
	}

	updated, err := s.duels.Get(ctx, duel.ID)
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, duel.CreatorID, notify.KindDuelAccepted, map[string]interface{}{
		"duel_id": duel.ID.String(),
	})
	_ = s.publisher.Publish(ctx, event.NewDuelLifecycleEvent(event.DuelAccepted, duel.ID, duel.CreatorID, &accepterID, string(domain.DuelStatusActive)))

	logger.Info(LogMsgDuelAccepted, "duel_id", duel.ID, "accepter_id", accepterID)
	return updated, nil
}

func (s *Service) decline(ctx context.Context, duel *domain.Duel, inv *domain.Invitation) (*domain.Duel, error) {
	from := []domain.DuelStatus{domain.DuelStatusPending, domain.DuelStatusPendingNewPlayer}
	affected, err := s.duels.UpdateStatusIfIn(ctx, duel.ID, from, domain.DuelStatusCancelled, repository.StatusUpdate{})
	if err != nil {
		return nil, fmt.Errorf("decline duel: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %s: %w", domain.ErrMsgConflict, ErrMsgNotPending, domain.ErrConflict)
	}

	if err := s.invitations.MarkResponded(ctx, inv, false); err != nil {
		logger.Warn("Invitation settle failed after decline", "invitation_id", inv.ID, "error", err)
	}

	updated, err := s.duels.Get(ctx, duel.ID)
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, duel.CreatorID, notify.KindDuelDeclined, map[string]interface{}{
		"duel_id": duel.ID.String(),
	})
	_ = s.publisher.Publish(ctx, event.NewDuelLifecycleEvent(event.DuelDeclined, duel.ID, duel.CreatorID, duel.InvitedPlayerID, string(domain.DuelStatusCancelled)))

	logger.Info(LogMsgDuelDeclined, "duel_id", duel.ID)
	return updated, nil
}

// SubmitSession attaches the player's session to their slot and, once both
// slots are filled, scores and completes the duel. Each participant submits
// at most once; completion happens at most once even under concurrent
// submissions because the final transition is a guarded active -> completed
// update that only one caller can win.
func (s *Service) SubmitSession(ctx context.Context, playerID, duelID, sessionID uuid.UUID) (*View, error) {
	duel, err := s.duels.Get(ctx, duelID)
	if err != nil {
		return nil, err
	}

	role, ok := duel.Role(playerID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgForbidden, domain.ErrForbidden)
	}
	if duel.Status != domain.DuelStatusActive {
		return nil, fmt.Errorf("%s: %s: %w", domain.ErrMsgConflict, ErrMsgNotActive, domain.ErrConflict)
	}
	if remaining := expiry.ForDuel(duel, s.now()); remaining.IsExpired {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgExpired, domain.ErrExpired)
	}

	// Ownership check happens before any write.
	if _, err := s.sessions.GetForPlayer(ctx, sessionID, playerID); err != nil {
		return nil, err
	}

	affected, err := s.duels.AttachSession(ctx, duelID, role, sessionID)
	if err != nil {
		return nil, fmt.Errorf("attach session: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %s: %w", domain.ErrMsgConflict, ErrMsgAlreadySubmitted, domain.ErrConflict)
	}
	metrics.SessionSubmissions.Inc()
	logger.Info(LogMsgSessionAttached, "duel_id", duelID, "player_id", playerID, "role", string(role))

	updated, err := s.duels.Get(ctx, duelID)
	if err != nil {
		return nil, err
	}
	if updated.BothSubmitted() {
		if err := s.complete(ctx, updated); err != nil {
			return nil, err
		}
		updated, err = s.duels.Get(ctx, duelID)
		if err != nil {
			return nil, err
		}
	}

	return &View{Duel: updated, Remaining: expiry.ForDuel(updated, s.now())}, nil
}

func (s *Service) complete(ctx context.Context, duel *domain.Duel) error {
	creatorSession, err := s.sessions.Get(ctx, *duel.CreatorSessionID)
	if err != nil {
		return fmt.Errorf("load creator session: %w", err)
	}
	invitedSession, err := s.sessions.Get(ctx, *duel.InvitedSessionID)
	if err != nil {
		return fmt.Errorf("load invited session: %w", err)
	}

	result := scoring.Score(*creatorSession, *invitedSession, duel.Rules.ScoringMethod)

	var winnerID *uuid.UUID
	switch result.Winner {
	case scoring.WinnerA:
		id := duel.CreatorID
		winnerID = &id
	case scoring.WinnerB:
		id := *duel.InvitedPlayerID
		winnerID = &id
	}

	affected, err := s.duels.CompleteIfActive(ctx, duel.ID, winnerID, s.now())
	if err != nil {
		return fmt.Errorf("complete duel: %w", err)
	}
	if affected == 0 {
		// A concurrent submission won the guarded transition; its result
		// stands and this path sends no duplicate notifications.
		logger.Info(LogMsgCompletionRaceOK, "duel_id", duel.ID)
		return nil
	}

	data := map[string]interface{}{
		"duel_id":       duel.ID.String(),
		"method":        string(duel.Rules.ScoringMethod),
		"creator_value": result.ValueA,
		"invited_value": result.ValueB,
	}
	if winnerID != nil {
		data["winner_id"] = winnerID.String()
	}
	_ = s.notifier.Notify(ctx, duel.CreatorID, notify.KindMatchResult, data)
	_ = s.notifier.Notify(ctx, *duel.InvitedPlayerID, notify.KindMatchResult, data)
	_ = s.publisher.Publish(ctx, event.NewDuelCompletedEvent(duel.ID, duel.CreatorID, *duel.InvitedPlayerID, winnerID, string(duel.Rules.ScoringMethod)))

	outcome := "decided"
	if winnerID == nil {
		outcome = "tie"
	}
	metrics.DuelsCompleted.WithLabelValues(outcome).Inc()
	logger.Info(LogMsgDuelCompleted, "duel_id", duel.ID, "winner_id", winnerID)
	return nil
}

// CancelDuel cancels a non-terminal duel. Either participant may cancel.
func (s *Service) CancelDuel(ctx context.Context, playerID, duelID uuid.UUID) (*domain.Duel, error) {
	duel, err := s.duels.Get(ctx, duelID)
	if err != nil {
		return nil, err
	}
	if _, ok := duel.Role(playerID); !ok {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgForbidden, domain.ErrForbidden)
	}

	from := []domain.DuelStatus{domain.DuelStatusPending, domain.DuelStatusPendingNewPlayer, domain.DuelStatusActive}
	affected, err := s.duels.UpdateStatusIfIn(ctx, duelID, from, domain.DuelStatusCancelled, repository.StatusUpdate{})
	if err != nil {
		return nil, fmt.Errorf("cancel duel: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: duel already %s: %w", domain.ErrMsgConflict, duel.Status, domain.ErrConflict)
	}

	if err := s.invitations.CancelForDuel(ctx, duelID); err != nil {
		logger.Warn("Failed to cancel invitation for cancelled duel", "duel_id", duelID, "error", err)
	}

	if other := otherParticipant(duel, playerID); other != nil {
		_ = s.notifier.Notify(ctx, *other, notify.KindDuelCancelled, map[string]interface{}{
			"duel_id": duelID.String(),
		})
	}
	_ = s.publisher.Publish(ctx, event.NewDuelLifecycleEvent(event.DuelCancelled, duelID, duel.CreatorID, duel.InvitedPlayerID, string(domain.DuelStatusCancelled)))

	logger.Info(LogMsgDuelCancelled, "duel_id", duelID, "by", playerID)
	return s.duels.Get(ctx, duelID)
}

func otherParticipant(duel *domain.Duel, playerID uuid.UUID) *uuid.UUID {
	if duel.CreatorID != playerID {
		id := duel.CreatorID
		return &id
	}
	return duel.InvitedPlayerID
}

// SweepExpired flips every open duel and pending invitation past its
// deadline to expired. Each sweep is a pair of single guarded statements,
// so running it twice in a row is a no-op the second time.
func (s *Service) SweepExpired(ctx context.Context) (SweepResult, error) {
	now := s.now()

	duels, err := s.duels.SweepExpired(ctx, now)
	if err != nil {
		return SweepResult{}, fmt.Errorf("sweep duels: %w", err)
	}
	invitations, err := s.invitations.SweepExpired(ctx, now)
	if err != nil {
		return SweepResult{DuelsExpired: duels}, fmt.Errorf("sweep invitations: %w", err)
	}

	result := SweepResult{DuelsExpired: duels, InvitationsExpired: invitations}
	metrics.DuelsExpired.Add(float64(duels))
	if duels > 0 || invitations > 0 {
		logger.Info(LogMsgSweepCompleted, "duels_expired", duels, "invitations_expired", invitations)
	}
	return result, nil
}
