package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/duel"
	"github.com/proofofputt/duels/internal/invitation"
)

// InvitationService is the slice of the invitation service the handlers use
type InvitationService interface {
	ResolveByToken(ctx context.Context, token string) (*domain.Invitation, error)
	Status(ctx context.Context, inviterID uuid.UUID) ([]invitation.QuotaStatus, error)
}

// InvitationHandler exposes invitation resolution and response over HTTP
type InvitationHandler struct {
	duels       DuelService
	invitations InvitationService
}

// NewInvitationHandler creates a new InvitationHandler
func NewInvitationHandler(duels DuelService, invitations InvitationService) *InvitationHandler {
	return &InvitationHandler{duels: duels, invitations: invitations}
}

// InvitationPreview is the public view of a pending invitation, shown to the
// recipient before they respond. The token is the URL, so it is never echoed.
type InvitationPreview struct {
	InvitationID      string `json:"invitation_id"`
	DuelID            string `json:"duel_id"`
	Method            string `json:"method"`
	Message           string `json:"message,omitempty"`
	ExpiresAt         string `json:"expires_at"`
	NeedsRegistration bool   `json:"needs_registration"`
}

// HandleGetByToken previews a pending invitation for the token holder
// @Summary Preview an invitation
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} InvitationPreview
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /api/v1/invitations/{token} [get]
func (h *InvitationHandler) HandleGetByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	inv, err := h.invitations.ResolveByToken(r.Context(), token)
	if err != nil {
		respondServiceError(w, r, "Failed to resolve invitation", err)
		return
	}

	respondJSON(w, http.StatusOK, InvitationPreview{
		InvitationID:      inv.ID.String(),
		DuelID:            inv.DuelID.String(),
		Method:            string(inv.Method),
		Message:           inv.Message,
		ExpiresAt:         inv.ExpiresAt.Format("2006-01-02 15:04:05"),
		NeedsRegistration: inv.NeedsRegistration(),
	})
}

// RespondRequest settles an invitation. Registered invitees send
// invitation_id + player_id; external invitees send the token, plus a
// registration block when accepting.
type RespondRequest struct {
	InvitationID string               `json:"invitation_id,omitempty" validate:"omitempty,uuid4"`
	Token        string               `json:"token,omitempty"`
	PlayerID     string               `json:"player_id,omitempty" validate:"omitempty,uuid4"`
	Accept       bool                 `json:"accept"`
	Registration *domain.Registration `json:"registration,omitempty"`
}

// RespondResponse reports the settled duel
type RespondResponse struct {
	Message string       `json:"message"`
	Duel    *domain.Duel `json:"duel"`
}

// HandleRespond handles invitation acceptance and decline
// @Summary Respond to an invitation
// @Description Accepts or declines an invitation; token-based acceptance registers the new player
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body RespondRequest true "Response"
// @Success 200 {object} RespondResponse
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /api/v1/invitations/respond [post]
func (h *InvitationHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Respond to invitation"); err != nil {
		return
	}

	svcReq := duel.RespondRequest{
		Token:        req.Token,
		Accept:       req.Accept,
		Registration: req.Registration,
	}
	if req.Token == "" {
		invID, ok := parseUUIDField(w, req.InvitationID, "Invalid invitation ID")
		if !ok {
			return
		}
		playerID, ok := parseUUIDField(w, req.PlayerID, ErrMsgInvalidPlayerID)
		if !ok {
			return
		}
		svcReq.InvitationID = invID
		svcReq.PlayerID = playerID
	}

	settled, err := h.duels.RespondToInvitation(r.Context(), svcReq)
	if err != nil {
		respondServiceError(w, r, "Failed to respond to invitation", err)
		return
	}

	message := "Duel declined"
	if req.Accept {
		message = "Duel accepted!"
	}
	respondJSON(w, http.StatusOK, RespondResponse{Message: message, Duel: settled})
}

// QuotaResponse reports the caller's external invitation usage for today
type QuotaResponse struct {
	Quotas []invitation.QuotaStatus `json:"quotas"`
}

// HandleQuota reports invitation quota usage
// @Summary Get invitation quota status
// @Tags invitations
// @Produce json
// @Param player_id query string true "Player ID"
// @Success 200 {object} QuotaResponse
// @Router /api/v1/invitations/quota [get]
func (h *InvitationHandler) HandleQuota(w http.ResponseWriter, r *http.Request) {
	playerID, ok := QueryParamUUID(r, w, "player_id", ErrMsgInvalidPlayerID)
	if !ok {
		return
	}

	statuses, err := h.invitations.Status(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, r, "Failed to get quota status", err)
		return
	}

	respondJSON(w, http.StatusOK, QuotaResponse{Quotas: statuses})
}
