package invitation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/proofofputt/duels/internal/delivery"
	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/expiry"
	"github.com/proofofputt/duels/internal/logger"
	"github.com/proofofputt/duels/internal/metrics"
	"github.com/proofofputt/duels/internal/notify"
	"github.com/proofofputt/duels/internal/repository"
)

// RecipientRequest identifies who a duel invitation should go to.
// Exactly one field must be set.
type RecipientRequest struct {
	Username string
	Email    string
	Phone    string
}

// Resolved is the outcome of recipient resolution. Player is set when the
// recipient is already registered; Contact carries the raw address otherwise.
type Resolved struct {
	Method  domain.DeliveryMethod
	Player  *domain.Player
	Contact string
}

// Registered reports whether the recipient already has an account.
func (r Resolved) Registered() bool {
	return r.Player != nil
}

// QuotaStatus reports a player's external invitation usage for one channel
type QuotaStatus struct {
	Channel   string `json:"channel"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// Service issues, resolves, and settles duel invitations
type Service struct {
	invitations repository.Invitation
	players     repository.Player
	quotas      repository.Quota
	channels    map[string]delivery.Channel
	notifier    notify.Notifier
	playerCache *expirable.LRU[string, *domain.Player]
	baseURL     string
	now         func() time.Time
}

// NewService creates an invitation service
func NewService(
	invitations repository.Invitation,
	players repository.Player,
	quotas repository.Quota,
	channels map[string]delivery.Channel,
	notifier notify.Notifier,
	baseURL string,
) *Service {
	return &Service{
		invitations: invitations,
		players:     players,
		quotas:      quotas,
		channels:    channels,
		notifier:    notifier,
		playerCache: expirable.NewLRU[string, *domain.Player](PlayerCacheSize, nil, PlayerCacheTTL),
		baseURL:     strings.TrimRight(baseURL, "/"),
		now:         time.Now,
	}
}

// ResolveRecipient resolves the requested recipient to a registered player or
// an external contact. A username that matches no account is an error; an
// unmatched email or phone becomes an external invite.
func (s *Service) ResolveRecipient(ctx context.Context, inviterID uuid.UUID, req RecipientRequest) (Resolved, error) {
	var resolved Resolved

	switch {
	case req.Username != "":
		player, err := s.lookupPlayer(ctx, "u:"+strings.ToLower(req.Username), func() (*domain.Player, error) {
			return s.players.GetByUsername(ctx, req.Username)
		})
		if err != nil {
			return resolved, err
		}
		resolved = Resolved{Method: domain.DeliveryMethodUsername, Player: player}

	case req.Email != "":
		if !strings.Contains(req.Email, "@") {
			return resolved, fmt.Errorf("%s: malformed email: %w", domain.ErrMsgValidation, domain.ErrValidation)
		}
		resolved = Resolved{Method: domain.DeliveryMethodEmail, Contact: strings.TrimSpace(req.Email)}
		player, err := s.lookupPlayer(ctx, "e:"+strings.ToLower(req.Email), func() (*domain.Player, error) {
			return s.players.GetByEmail(ctx, req.Email)
		})
		if err == nil {
			resolved.Player = player
		} else if !errors.Is(err, domain.ErrPlayerNotFound) {
			return resolved, err
		}

	case req.Phone != "":
		normalized := delivery.NormalizeUSPhone(req.Phone)
		if normalized == "" {
			return resolved, fmt.Errorf("%s: malformed phone: %w", domain.ErrMsgValidation, domain.ErrValidation)
		}
		resolved = Resolved{Method: domain.DeliveryMethodPhone, Contact: normalized}
		player, err := s.lookupPlayer(ctx, "p:"+normalized, func() (*domain.Player, error) {
			return s.players.GetByPhone(ctx, normalized)
		})
		if err == nil {
			resolved.Player = player
		} else if !errors.Is(err, domain.ErrPlayerNotFound) {
			return resolved, err
		}

	default:
		return resolved, fmt.Errorf("%s: recipient is required: %w", domain.ErrMsgValidation, domain.ErrValidation)
	}

	if resolved.Player != nil && resolved.Player.ID == inviterID {
		return resolved, fmt.Errorf("%s: %w", domain.ErrMsgSelfChallenge, domain.ErrSelfChallenge)
	}

	return resolved, nil
}

func (s *Service) lookupPlayer(ctx context.Context, cacheKey string, fetch func() (*domain.Player, error)) (*domain.Player, error) {
	if player, ok := s.playerCache.Get(cacheKey); ok {
		return player, nil
	}
	player, err := fetch()
	if err != nil {
		return nil, err
	}
	s.playerCache.Add(cacheKey, player)
	return player, nil
}

// ReserveQuota counts n external invitations against the inviter's daily
// budget for the channel. This is a precondition: nothing is recorded when
// the request exceeds either the per-request batch cap or the daily limit.
func (s *Service) ReserveQuota(ctx context.Context, inviterID uuid.UUID, method domain.DeliveryMethod, n int) error {
	daily, batch := quotaLimits(method)
	if daily == 0 {
		return nil // internal invites are not rate limited
	}

	if n > batch {
		metrics.InvitationsQuotaRejected.WithLabelValues(string(method)).Inc()
		logger.Warn(LogMsgQuotaRejected, "player_id", inviterID, "channel", string(method), "requested", n, "batch_limit", batch)
		return fmt.Errorf("%s: at most %d %s invitations per request: %w",
			domain.ErrMsgQuotaExceeded, batch, method, domain.ErrQuotaExceeded)
	}

	day := s.now().UTC().Truncate(24 * time.Hour)
	decision, err := s.quotas.Reserve(ctx, inviterID, string(method), day, n, daily)
	if err != nil {
		return fmt.Errorf("reserve invitation quota: %w", err)
	}
	if !decision.Allowed {
		metrics.InvitationsQuotaRejected.WithLabelValues(string(method)).Inc()
		logger.Warn(LogMsgQuotaRejected, "player_id", inviterID, "channel", string(method), "used", decision.Used, "limit", decision.Limit)
		return fmt.Errorf("%s: %d of %d %s invitations used today: %w",
			domain.ErrMsgQuotaExceeded, decision.Used, decision.Limit, method, domain.ErrQuotaExceeded)
	}
	return nil
}

func quotaLimits(method domain.DeliveryMethod) (daily, batch int) {
	switch method {
	case domain.DeliveryMethodEmail:
		return EmailDailyLimit, EmailBatchLimit
	case domain.DeliveryMethodPhone:
		return PhoneDailyLimit, PhoneBatchLimit
	}
	return 0, 0
}

// Status reports the inviter's current external quota usage for today.
func (s *Service) Status(ctx context.Context, inviterID uuid.UUID) ([]QuotaStatus, error) {
	day := s.now().UTC().Truncate(24 * time.Hour)

	statuses := make([]QuotaStatus, 0, 2)
	for _, ch := range []struct {
		method domain.DeliveryMethod
		limit  int
	}{
		{domain.DeliveryMethodEmail, EmailDailyLimit},
		{domain.DeliveryMethodPhone, PhoneDailyLimit},
	} {
		used, err := s.quotas.Status(ctx, inviterID, string(ch.method), day)
		if err != nil {
			return nil, fmt.Errorf("quota status for %s: %w", ch.method, err)
		}
		statuses = append(statuses, QuotaStatus{
			Channel:   string(ch.method),
			Used:      used,
			Limit:     ch.limit,
			Remaining: max(0, ch.limit-used),
		})
	}
	return statuses, nil
}

// Issue creates the invitation record for a duel and delivers it. For an
// unregistered recipient the delivery must succeed on at least one channel;
// when every channel fails the record is cancelled and ErrDeliveryFailed is
// returned so the caller can roll the duel back. Registered recipients get
// an in-app notification and any external delivery failure is non-fatal.
func (s *Service) Issue(ctx context.Context, duel *domain.Duel, inviter *domain.Player, resolved Resolved, message string) (*domain.Invitation, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	rules := duel.Rules.Normalize()

	inv := &domain.Invitation{
		ID:        uuid.New(),
		DuelID:    duel.ID,
		InviterID: inviter.ID,
		Method:    resolved.Method,
		Token:     token,
		Message:   message,
		Status:    domain.InvitationStatusPending,
		ExpiresAt: now.Add(time.Duration(rules.InvitationExpiryMinutes) * time.Minute),
		CreatedAt: now,
	}
	if resolved.Registered() {
		id := resolved.Player.ID
		inv.InvitedPlayerID = &id
	} else {
		inv.Contact = resolved.Contact
	}

	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	if resolved.Registered() {
		_ = s.notifier.Notify(ctx, resolved.Player.ID, notify.KindDuelChallenge, map[string]interface{}{
			"duel_id":      duel.ID.String(),
			"inviter_name": inviter.DisplayName,
		})
		metrics.InvitationsSent.WithLabelValues(string(inv.Method)).Inc()
		logger.Info(LogMsgInvitationIssued, "invitation_id", inv.ID, "duel_id", duel.ID, "method", string(inv.Method), "registered", true)
		return inv, nil
	}

	if err := s.deliver(ctx, inv, inviter, rules); err != nil {
		// Settle the record before surfacing the failure so the sweep
		// never sees a pending invitation that was never delivered.
		if _, cErr := s.invitations.UpdateStatusIfPending(ctx, inv.ID, domain.InvitationStatusCancelled, s.now()); cErr != nil {
			logger.Error("Failed to cancel undelivered invitation", "invitation_id", inv.ID, "error", cErr)
		}
		return nil, err
	}

	metrics.InvitationsSent.WithLabelValues(string(inv.Method)).Inc()
	logger.Info(LogMsgInvitationIssued, "invitation_id", inv.ID, "duel_id", duel.ID, "method", string(inv.Method), "registered", false)
	return inv, nil
}

func (s *Service) deliver(ctx context.Context, inv *domain.Invitation, inviter *domain.Player, rules domain.DuelRules) error {
	channelName := delivery.ChannelEmail
	if inv.Method == domain.DeliveryMethodPhone {
		channelName = delivery.ChannelSMS
	}

	ch, ok := s.channels[channelName]
	if !ok {
		return fmt.Errorf("%s: no %s channel configured: %w", domain.ErrMsgDeliveryFailed, channelName, domain.ErrDeliveryFailed)
	}

	invite := delivery.Invite{
		InviterName: inviter.DisplayName,
		Token:       inv.Token,
		InviteURL:   fmt.Sprintf("%s/%s", s.baseURL, inv.Token),
		Message:     inv.Message,
		Rules:       rules,
	}

	result := ch.Send(ctx, inv.Contact, invite)
	if !result.Succeeded() {
		metrics.DeliveryFailures.WithLabelValues(result.Channel).Inc()
		logger.Warn(LogMsgAllDeliveriesFailed, "invitation_id", inv.ID, "channel", result.Channel, "error", result.Err)
		return fmt.Errorf("%s: %w: %w", domain.ErrMsgDeliveryFailed, domain.ErrDeliveryFailed, result.Err)
	}
	return nil
}

// Get returns one invitation by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	return s.invitations.Get(ctx, id)
}

// SweepExpired flips every pending invitation past its deadline to expired.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.invitations.SweepExpired(ctx, now)
}

// ResolveByToken looks up a pending invitation by its token for the
// unauthenticated acceptance flow. A resolved or past-deadline invitation
// is not returned as pending.
func (s *Service) ResolveByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	if len(token) != TokenLength {
		return nil, fmt.Errorf("%s: malformed token: %w", domain.ErrMsgValidation, domain.ErrValidation)
	}

	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if inv.Status != domain.InvitationStatusPending {
		return nil, fmt.Errorf("%s: invitation already %s: %w", domain.ErrMsgConflict, inv.Status, domain.ErrConflict)
	}
	if remaining := expiry.ForInvitation(inv, s.now()); remaining.IsExpired {
		if err := s.ExpireIfPending(ctx, inv.ID); err != nil {
			logger.Warn(LogMsgExpireFailed, "invitation_id", inv.ID, "error", err)
		}
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgExpired, domain.ErrExpired)
	}
	return inv, nil
}

// ExpireIfPending settles a pending invitation as expired. Lapsed
// invitations hit on a respond or resolve path are expired eagerly rather
// than left pending until the next sweep.
func (s *Service) ExpireIfPending(ctx context.Context, id uuid.UUID) error {
	if _, err := s.invitations.UpdateStatusIfPending(ctx, id, domain.InvitationStatusExpired, s.now()); err != nil {
		return fmt.Errorf("expire invitation: %w", err)
	}
	return nil
}

// MarkResponded settles a pending invitation as accepted or declined.
// The guarded update makes settlement exactly-once; losing the race
// surfaces as ErrConflict.
func (s *Service) MarkResponded(ctx context.Context, inv *domain.Invitation, accepted bool) error {
	to := domain.InvitationStatusDeclined
	if accepted {
		to = domain.InvitationStatusAccepted
	}

	affected, err := s.invitations.UpdateStatusIfPending(ctx, inv.ID, to, s.now())
	if err != nil {
		return fmt.Errorf("settle invitation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: invitation already responded: %w", domain.ErrMsgConflict, domain.ErrConflict)
	}

	logger.Info(LogMsgInvitationResolved, "invitation_id", inv.ID, "status", string(to))
	return nil
}

// CancelForDuel settles the duel's pending invitation as cancelled, if any.
// Used when a duel is cancelled before the invitee responds.
func (s *Service) CancelForDuel(ctx context.Context, duelID uuid.UUID) error {
	inv, err := s.invitations.GetByDuel(ctx, duelID)
	if err != nil {
		if errors.Is(err, domain.ErrInviteNotFound) {
			return nil
		}
		return err
	}
	if inv.Status != domain.InvitationStatusPending {
		return nil
	}

	if _, err := s.invitations.UpdateStatusIfPending(ctx, inv.ID, domain.InvitationStatusCancelled, s.now()); err != nil {
		return fmt.Errorf("cancel invitation: %w", err)
	}
	return nil
}
