package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus represents the state of a duel invitation.
// It mirrors the duel status but is tracked independently; the expiry sweep
// reconciles the two in the same pass.
type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusDeclined  InvitationStatus = "declined"
	InvitationStatusExpired   InvitationStatus = "expired"
	InvitationStatusCancelled InvitationStatus = "cancelled"
)

// DeliveryMethod identifies how an invitation reaches its recipient
type DeliveryMethod string

const (
	DeliveryMethodUsername DeliveryMethod = "username"
	DeliveryMethodEmail    DeliveryMethod = "email"
	DeliveryMethodPhone    DeliveryMethod = "phone"
)

// KnownDeliveryMethod reports whether m is a supported delivery method.
func KnownDeliveryMethod(m DeliveryMethod) bool {
	switch m {
	case DeliveryMethodUsername, DeliveryMethodEmail, DeliveryMethodPhone:
		return true
	}
	return false
}

// ExternalContact is a raw contact for a recipient who is not yet registered
type ExternalContact struct {
	Type  DeliveryMethod `json:"type"` // email or phone
	Value string         `json:"value"`
}

// Invitation represents an outstanding challenge to a specific recipient.
// Exactly one of InvitedPlayerID or Contact is set: a resolved recipient is
// addressed by player id, an external one by raw contact string. The token
// is issued in both cases for API uniformity but only the external flow
// needs it for unauthenticated acceptance.
type Invitation struct {
	ID              uuid.UUID        `json:"id"`
	DuelID          uuid.UUID        `json:"duel_id"`
	InviterID       uuid.UUID        `json:"inviter_id"`
	Method          DeliveryMethod   `json:"method"`
	InvitedPlayerID *uuid.UUID       `json:"invited_player_id,omitempty"`
	Contact         string           `json:"contact,omitempty"`
	Token           string           `json:"-"` // never serialized outward
	Message         string           `json:"message,omitempty"`
	Status          InvitationStatus `json:"status"`
	ExpiresAt       time.Time        `json:"expires_at"`
	CreatedAt       time.Time        `json:"created_at"`
	RespondedAt     *time.Time       `json:"responded_at,omitempty"`
}

// NeedsRegistration reports whether acceptance requires creating an account.
func (i *Invitation) NeedsRegistration() bool {
	return i.InvitedPlayerID == nil
}
