package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Validation errors
	ErrMsgValidation    = "invalid input"
	ErrMsgSelfChallenge = "cannot challenge yourself"

	// Lookup errors
	ErrMsgNotFound       = "not found"
	ErrMsgPlayerNotFound = "player not found"
	ErrMsgDuelNotFound   = "duel not found"
	ErrMsgInviteNotFound = "invitation not found"

	// Authorization errors
	ErrMsgForbidden = "not a participant in this duel"

	// State errors
	ErrMsgConflict = "state conflict"
	ErrMsgExpired  = "deadline has passed"

	// Invitation errors
	ErrMsgQuotaExceeded  = "invitation quota exceeded"
	ErrMsgDeliveryFailed = "all delivery channels failed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Validation errors
	ErrValidation    = errors.New(ErrMsgValidation)
	ErrSelfChallenge = errors.New(ErrMsgSelfChallenge)

	// Lookup errors
	ErrNotFound       = errors.New(ErrMsgNotFound)
	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)
	ErrDuelNotFound   = errors.New(ErrMsgDuelNotFound)
	ErrInviteNotFound = errors.New(ErrMsgInviteNotFound)

	// Authorization errors
	ErrForbidden = errors.New(ErrMsgForbidden)

	// State errors. ErrConflict means the guarded store update rejected the
	// transition because the persisted status no longer matches expectations.
	// ErrExpired is kept distinct so clients can show a different message.
	ErrConflict = errors.New(ErrMsgConflict)
	ErrExpired  = errors.New(ErrMsgExpired)

	// Invitation errors
	ErrQuotaExceeded  = errors.New(ErrMsgQuotaExceeded)
	ErrDeliveryFailed = errors.New(ErrMsgDeliveryFailed)
)
