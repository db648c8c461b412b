package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/duel"
	"github.com/proofofputt/duels/internal/expiry"
	"github.com/proofofputt/duels/internal/invitation"
	"github.com/proofofputt/duels/internal/repository"
)

// DuelService is the slice of the duel orchestrator the handlers use
type DuelService interface {
	CreateDuel(ctx context.Context, creatorID uuid.UUID, req duel.CreateRequest) (*domain.Duel, *domain.Invitation, error)
	ListDuels(ctx context.Context, playerID uuid.UUID, filter repository.DuelListFilter) ([]duel.View, error)
	GetDuel(ctx context.Context, playerID, duelID uuid.UUID) (*duel.View, error)
	GetDuelTimer(ctx context.Context, duelID uuid.UUID) (expiry.Remaining, error)
	RespondToInvitation(ctx context.Context, req duel.RespondRequest) (*domain.Duel, error)
	SubmitSession(ctx context.Context, playerID, duelID, sessionID uuid.UUID) (*duel.View, error)
	CancelDuel(ctx context.Context, playerID, duelID uuid.UUID) (*domain.Duel, error)
	SweepExpired(ctx context.Context) (duel.SweepResult, error)
}

// DuelHandler exposes the duel lifecycle over HTTP
type DuelHandler struct {
	service DuelService
}

// NewDuelHandler creates a new DuelHandler
func NewDuelHandler(service DuelService) *DuelHandler {
	return &DuelHandler{service: service}
}

// CreateDuelRequest represents a duel creation request. The recipient is
// exactly one of invited_username, invited_email, invited_phone. Time limit
// may arrive in hours or minutes; minutes win when both are present.
type CreateDuelRequest struct {
	PlayerID         string `json:"player_id" validate:"required,uuid4"`
	InvitedUsername  string `json:"invited_username,omitempty"`
	InvitedEmail     string `json:"invited_email,omitempty" validate:"omitempty,email"`
	InvitedPhone     string `json:"invited_phone,omitempty"`
	Message          string `json:"message,omitempty" validate:"max=500"`
	DuelType         string `json:"duel_type,omitempty"`
	TimeLimitMinutes int    `json:"time_limit_minutes,omitempty" validate:"min=0"`
	TimeLimitHours   int    `json:"time_limit_hours,omitempty" validate:"min=0"`
	TargetPutts      int    `json:"target_putts,omitempty" validate:"min=0"`
	ScoringMethod    string `json:"scoring_method,omitempty" validate:"scoring_method"`
	HandicapEnabled  bool   `json:"handicap_enabled,omitempty"`
}

// CreateDuelResponse represents a duel creation response
type CreateDuelResponse struct {
	Message    string             `json:"message"`
	Duel       *domain.Duel       `json:"duel"`
	Invitation *domain.Invitation `json:"invitation"`
}

// HandleCreate handles duel creation requests
// @Summary Create a duel
// @Description Creates a duel and invites the opponent by username, email, or phone
// @Tags duels
// @Accept json
// @Produce json
// @Param request body CreateDuelRequest true "Duel creation request"
// @Success 201 {object} CreateDuelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/duels [post]
func (h *DuelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateDuelRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create duel"); err != nil {
		return
	}

	creatorID, ok := parseUUIDField(w, req.PlayerID, ErrMsgInvalidPlayerID)
	if !ok {
		return
	}

	created, inv, err := h.service.CreateDuel(r.Context(), creatorID, duel.CreateRequest{
		Rules: domain.DuelRules{
			DuelType:         req.DuelType,
			TimeLimitMinutes: req.TimeLimitMinutes,
			TargetPutts:      req.TargetPutts,
			ScoringMethod:    domain.ScoringMethod(req.ScoringMethod),
			HandicapEnabled:  req.HandicapEnabled,
		},
		TimeLimitHours: req.TimeLimitHours,
		Recipient: invitation.RecipientRequest{
			Username: req.InvitedUsername,
			Email:    req.InvitedEmail,
			Phone:    req.InvitedPhone,
		},
		Message: req.Message,
	})
	if err != nil {
		respondServiceError(w, r, "Failed to create duel", err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateDuelResponse{
		Message:    "Duel challenge sent!",
		Duel:       created,
		Invitation: inv,
	})
}

// HandleList handles requests to list a player's duels
// @Summary List duels
// @Description Lists duels where the player is a participant, newest first
// @Tags duels
// @Produce json
// @Param player_id query string true "Player ID"
// @Param status query string false "Status filter"
// @Param include_history query bool false "Include completed duels"
// @Param limit query int false "Maximum results"
// @Success 200 {array} duel.View
// @Router /api/v1/duels [get]
func (h *DuelHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	playerID, ok := QueryParamUUID(r, w, "player_id", ErrMsgInvalidPlayerID)
	if !ok {
		return
	}

	filter := repository.DuelListFilter{
		Status:         domain.DuelStatus(GetOptionalQueryParam(r, "status", "")),
		IncludeHistory: GetOptionalQueryParam(r, "include_history", "false") == "true",
	}
	if rawLimit := GetOptionalQueryParam(r, "limit", ""); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		filter.Limit = limit
	}

	views, err := h.service.ListDuels(r.Context(), playerID, filter)
	if err != nil {
		respondServiceError(w, r, "Failed to list duels", err)
		return
	}

	respondJSON(w, http.StatusOK, views)
}

// HandleGet handles requests for a single duel
// @Summary Get a duel
// @Tags duels
// @Produce json
// @Param id path string true "Duel ID"
// @Param player_id query string true "Player ID"
// @Success 200 {object} duel.View
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/duels/{id} [get]
func (h *DuelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	duelID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidDuelID)
	if !ok {
		return
	}
	playerID, ok := QueryParamUUID(r, w, "player_id", ErrMsgInvalidPlayerID)
	if !ok {
		return
	}

	view, err := h.service.GetDuel(r.Context(), playerID, duelID)
	if err != nil {
		respondServiceError(w, r, "Failed to get duel", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// HandleTimer handles requests for a duel's remaining time
// @Summary Get a duel timer
// @Description Evaluates the duel deadline without changing its status
// @Tags duels
// @Produce json
// @Param id path string true "Duel ID"
// @Success 200 {object} expiry.Remaining
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/duels/{id}/timer [get]
func (h *DuelHandler) HandleTimer(w http.ResponseWriter, r *http.Request) {
	duelID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidDuelID)
	if !ok {
		return
	}

	remaining, err := h.service.GetDuelTimer(r.Context(), duelID)
	if err != nil {
		respondServiceError(w, r, "Failed to get duel timer", err)
		return
	}

	respondJSON(w, http.StatusOK, remaining)
}

// SubmitSessionRequest represents a session submission
type SubmitSessionRequest struct {
	PlayerID  string `json:"player_id" validate:"required,uuid4"`
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

// HandleSubmitSession handles session submissions for a duel
// @Summary Submit a session
// @Description Attaches the player's session; completes and scores the duel once both sides submit
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param request body SubmitSessionRequest true "Session submission"
// @Success 200 {object} duel.View
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /api/v1/duels/{id}/sessions [post]
func (h *DuelHandler) HandleSubmitSession(w http.ResponseWriter, r *http.Request) {
	duelID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidDuelID)
	if !ok {
		return
	}

	var req SubmitSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Submit session"); err != nil {
		return
	}

	playerID, ok := parseUUIDField(w, req.PlayerID, ErrMsgInvalidPlayerID)
	if !ok {
		return
	}
	sessionID, ok := parseUUIDField(w, req.SessionID, ErrMsgInvalidSessionID)
	if !ok {
		return
	}

	view, err := h.service.SubmitSession(r.Context(), playerID, duelID, sessionID)
	if err != nil {
		respondServiceError(w, r, "Failed to submit session", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// HandleCancel handles duel cancellation
// @Summary Cancel a duel
// @Description Cancels a non-terminal duel; either participant may cancel
// @Tags duels
// @Produce json
// @Param id path string true "Duel ID"
// @Param player_id query string true "Player ID"
// @Success 200 {object} domain.Duel
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/duels/{id} [delete]
func (h *DuelHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	duelID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidDuelID)
	if !ok {
		return
	}
	playerID, ok := QueryParamUUID(r, w, "player_id", ErrMsgInvalidPlayerID)
	if !ok {
		return
	}

	cancelled, err := h.service.CancelDuel(r.Context(), playerID, duelID)
	if err != nil {
		respondServiceError(w, r, "Failed to cancel duel", err)
		return
	}

	respondJSON(w, http.StatusOK, cancelled)
}

// SweepResponse reports a manually triggered sweep pass
type SweepResponse struct {
	Message string           `json:"message"`
	Result  duel.SweepResult `json:"result"`
}

// HandleSweep triggers an expiry sweep pass
// @Summary Run the expiry sweep
// @Description Flips every open duel and pending invitation past its deadline to expired. Idempotent.
// @Tags admin
// @Produce json
// @Success 200 {object} SweepResponse
// @Router /api/v1/sweep [post]
func (h *DuelHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SweepExpired(r.Context())
	if err != nil {
		respondServiceError(w, r, "Failed to sweep expired records", err)
		return
	}

	respondJSON(w, http.StatusOK, SweepResponse{
		Message: "Sweep completed",
		Result:  result,
	})
}
