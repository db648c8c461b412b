package domain

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a registered account
type Player struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Registration carries the account data supplied when an external invitee
// accepts via token. Username plus at least one of email/phone is required.
type Registration struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Valid reports whether the registration satisfies the minimum field rules.
func (r Registration) Valid() bool {
	return r.Username != "" && (r.Email != "" || r.Phone != "")
}
