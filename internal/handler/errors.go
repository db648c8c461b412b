package handler

import (
	"errors"
	"net/http"

	"github.com/proofofputt/duels/internal/domain"
)

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidDuelID         = "Invalid duel ID"
	ErrMsgInvalidPlayerID       = "Invalid player ID"
	ErrMsgInvalidSessionID      = "Invalid session ID"
)

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgValidationError     = "Invalid request. Please check your inputs."
	ErrMsgSelfChallengeError  = "You cannot challenge yourself"
	ErrMsgNotFoundError       = "Resource not found"
	ErrMsgForbiddenError      = "You are not a participant in this duel"
	ErrMsgConflictError       = "The duel or invitation is not in the expected state"
	ErrMsgExpiredError        = "The deadline for this action has passed"
	ErrMsgQuotaExceededError  = "Invitation limit reached. Try again tomorrow."
	ErrMsgDeliveryFailedError = "The invitation could not be delivered"
)

// mapDomainError maps domain sentinel errors to HTTP status codes and
// user-facing messages. Expired is kept distinct from Conflict so clients
// can show a different message.
func mapDomainError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrSelfChallenge):
		return http.StatusBadRequest, ErrMsgSelfChallengeError
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrMsgValidationError
	case errors.Is(err, domain.ErrDuelNotFound),
		errors.Is(err, domain.ErrInviteNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrMsgNotFoundError
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrMsgForbiddenError
	case errors.Is(err, domain.ErrExpired):
		return http.StatusGone, ErrMsgExpiredError
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrMsgConflictError
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests, ErrMsgQuotaExceededError
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusBadGateway, ErrMsgDeliveryFailedError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
