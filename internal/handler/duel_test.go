package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/proofofputt/duels/internal/domain"
	"github.com/proofofputt/duels/internal/duel"
	"github.com/proofofputt/duels/internal/expiry"
)

// withURLParam injects a chi URL parameter into the request context
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleCreate(t *testing.T) {
	creatorID := uuid.New()

	tests := []struct {
		name           string
		reqBody        interface{}
		setupMocks     func(*MockDuelService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Invalid JSON",
			reqBody:        "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name: "Missing Player ID",
			reqBody: CreateDuelRequest{
				InvitedUsername: "rival",
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "This field is required",
		},
		{
			name: "Unknown Scoring Method",
			reqBody: CreateDuelRequest{
				PlayerID:        creatorID.String(),
				InvitedUsername: "rival",
				ScoringMethod:   "longest_drive",
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Unknown scoring method",
		},
		{
			name: "Quota Exceeded",
			reqBody: CreateDuelRequest{
				PlayerID:     creatorID.String(),
				InvitedEmail: "rival@example.com",
			},
			setupMocks: func(ms *MockDuelService) {
				ms.On("CreateDuel", mock.Anything, creatorID, mock.Anything).
					Return(nil, nil, fmt.Errorf("daily limit: %w", domain.ErrQuotaExceeded))
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   ErrMsgQuotaExceededError,
		},
		{
			name: "Delivery Failed",
			reqBody: CreateDuelRequest{
				PlayerID:     creatorID.String(),
				InvitedEmail: "rival@example.com",
			},
			setupMocks: func(ms *MockDuelService) {
				ms.On("CreateDuel", mock.Anything, creatorID, mock.Anything).
					Return(nil, nil, fmt.Errorf("smtp down: %w", domain.ErrDeliveryFailed))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   ErrMsgDeliveryFailedError,
		},
		{
			name: "Self Challenge",
			reqBody: CreateDuelRequest{
				PlayerID:        creatorID.String(),
				InvitedUsername: "creator",
			},
			setupMocks: func(ms *MockDuelService) {
				ms.On("CreateDuel", mock.Anything, creatorID, mock.Anything).
					Return(nil, nil, domain.ErrSelfChallenge)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgSelfChallengeError,
		},
		{
			name: "Success",
			reqBody: CreateDuelRequest{
				PlayerID:        creatorID.String(),
				InvitedUsername: "rival",
			},
			setupMocks: func(ms *MockDuelService) {
				created := &domain.Duel{ID: uuid.New(), CreatorID: creatorID, Status: domain.DuelStatusPending}
				inv := &domain.Invitation{ID: uuid.New(), Status: domain.InvitationStatusPending}
				ms.On("CreateDuel", mock.Anything, creatorID, mock.Anything).Return(created, inv, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   "Duel challenge sent!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDuelService)
			if tt.setupMocks != nil {
				tt.setupMocks(service)
			}
			handler := NewDuelHandler(service)

			var body []byte
			if s, ok := tt.reqBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.reqBody)
			}

			req := httptest.NewRequest("POST", "/api/v1/duels", bytes.NewBuffer(body))
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			service.AssertExpectations(t)
		})
	}
}

func TestHandleGet(t *testing.T) {
	duelID := uuid.New()
	playerID := uuid.New()

	tests := []struct {
		name           string
		duelID         string
		playerID       string
		setupMocks     func(*MockDuelService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Invalid Duel ID",
			duelID:         "not-a-uuid",
			playerID:       playerID.String(),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidDuelID,
		},
		{
			name:           "Missing Player ID",
			duelID:         duelID.String(),
			playerID:       "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing player_id query parameter",
		},
		{
			name:     "Not A Participant",
			duelID:   duelID.String(),
			playerID: playerID.String(),
			setupMocks: func(ms *MockDuelService) {
				ms.On("GetDuel", mock.Anything, playerID, duelID).Return(nil, domain.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   ErrMsgForbiddenError,
		},
		{
			name:     "Not Found",
			duelID:   duelID.String(),
			playerID: playerID.String(),
			setupMocks: func(ms *MockDuelService) {
				ms.On("GetDuel", mock.Anything, playerID, duelID).Return(nil, domain.ErrDuelNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   ErrMsgNotFoundError,
		},
		{
			name:     "Success",
			duelID:   duelID.String(),
			playerID: playerID.String(),
			setupMocks: func(ms *MockDuelService) {
				view := &duel.View{
					Duel:      &domain.Duel{ID: duelID, CreatorID: playerID, Status: domain.DuelStatusActive},
					Remaining: expiry.Remaining{RemainingSeconds: 1800},
				}
				ms.On("GetDuel", mock.Anything, playerID, duelID).Return(view, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"remaining_seconds":1800`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDuelService)
			if tt.setupMocks != nil {
				tt.setupMocks(service)
			}
			handler := NewDuelHandler(service)

			url := "/api/v1/duels/" + tt.duelID
			if tt.playerID != "" {
				url += "?player_id=" + tt.playerID
			}
			req := withURLParam(httptest.NewRequest("GET", url, nil), "id", tt.duelID)
			rec := httptest.NewRecorder()

			handler.HandleGet(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}

func TestHandleTimer(t *testing.T) {
	duelID := uuid.New()

	t.Run("Expired Duel Reports Without Mutating", func(t *testing.T) {
		service := new(MockDuelService)
		service.On("GetDuelTimer", mock.Anything, duelID).Return(expiry.Remaining{
			ExpiresAt: time.Now().Add(-time.Minute),
			IsExpired: true,
		}, nil)
		handler := NewDuelHandler(service)

		req := withURLParam(httptest.NewRequest("GET", "/api/v1/duels/"+duelID.String()+"/timer", nil), "id", duelID.String())
		rec := httptest.NewRecorder()

		handler.HandleTimer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_expired":true`)
		service.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		service := new(MockDuelService)
		service.On("GetDuelTimer", mock.Anything, duelID).Return(expiry.Remaining{}, domain.ErrDuelNotFound)
		handler := NewDuelHandler(service)

		req := withURLParam(httptest.NewRequest("GET", "/api/v1/duels/"+duelID.String()+"/timer", nil), "id", duelID.String())
		rec := httptest.NewRecorder()

		handler.HandleTimer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleSubmitSession(t *testing.T) {
	duelID := uuid.New()
	playerID := uuid.New()
	sessionID := uuid.New()

	tests := []struct {
		name           string
		reqBody        interface{}
		setupMocks     func(*MockDuelService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Missing Session ID",
			reqBody:        SubmitSessionRequest{PlayerID: playerID.String()},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "This field is required",
		},
		{
			name:    "Duel Not Active",
			reqBody: SubmitSessionRequest{PlayerID: playerID.String(), SessionID: sessionID.String()},
			setupMocks: func(ms *MockDuelService) {
				ms.On("SubmitSession", mock.Anything, playerID, duelID, sessionID).
					Return(nil, fmt.Errorf("not active: %w", domain.ErrConflict))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   ErrMsgConflictError,
		},
		{
			name:    "Deadline Passed",
			reqBody: SubmitSessionRequest{PlayerID: playerID.String(), SessionID: sessionID.String()},
			setupMocks: func(ms *MockDuelService) {
				ms.On("SubmitSession", mock.Anything, playerID, duelID, sessionID).
					Return(nil, fmt.Errorf("too late: %w", domain.ErrExpired))
			},
			expectedStatus: http.StatusGone,
			expectedBody:   ErrMsgExpiredError,
		},
		{
			name:    "Success",
			reqBody: SubmitSessionRequest{PlayerID: playerID.String(), SessionID: sessionID.String()},
			setupMocks: func(ms *MockDuelService) {
				view := &duel.View{Duel: &domain.Duel{ID: duelID, Status: domain.DuelStatusActive}}
				ms.On("SubmitSession", mock.Anything, playerID, duelID, sessionID).Return(view, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"active"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDuelService)
			if tt.setupMocks != nil {
				tt.setupMocks(service)
			}
			handler := NewDuelHandler(service)

			body, _ := json.Marshal(tt.reqBody)
			req := withURLParam(httptest.NewRequest("POST", "/api/v1/duels/"+duelID.String()+"/sessions", bytes.NewBuffer(body)), "id", duelID.String())
			rec := httptest.NewRecorder()

			handler.HandleSubmitSession(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}

func TestHandleCancel(t *testing.T) {
	duelID := uuid.New()
	playerID := uuid.New()

	t.Run("Terminal Duel Conflicts", func(t *testing.T) {
		service := new(MockDuelService)
		service.On("CancelDuel", mock.Anything, playerID, duelID).
			Return(nil, fmt.Errorf("already settled: %w", domain.ErrConflict))
		handler := NewDuelHandler(service)

		req := withURLParam(httptest.NewRequest("DELETE", "/api/v1/duels/"+duelID.String()+"?player_id="+playerID.String(), nil), "id", duelID.String())
		rec := httptest.NewRecorder()

		handler.HandleCancel(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("Success", func(t *testing.T) {
		service := new(MockDuelService)
		service.On("CancelDuel", mock.Anything, playerID, duelID).
			Return(&domain.Duel{ID: duelID, Status: domain.DuelStatusCancelled}, nil)
		handler := NewDuelHandler(service)

		req := withURLParam(httptest.NewRequest("DELETE", "/api/v1/duels/"+duelID.String()+"?player_id="+playerID.String(), nil), "id", duelID.String())
		rec := httptest.NewRecorder()

		handler.HandleCancel(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
		service.AssertExpectations(t)
	})
}

func TestHandleSweep(t *testing.T) {
	service := new(MockDuelService)
	service.On("SweepExpired", mock.Anything).Return(duel.SweepResult{DuelsExpired: 3, InvitationsExpired: 2}, nil)
	handler := NewDuelHandler(service)

	req := httptest.NewRequest("POST", "/api/v1/sweep", nil)
	rec := httptest.NewRecorder()

	handler.HandleSweep(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duels_expired":3`)
	assert.Contains(t, rec.Body.String(), `"invitations_expired":2`)
	service.AssertExpectations(t)
}
