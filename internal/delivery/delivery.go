package delivery

import (
	"context"

	"github.com/proofofputt/duels/internal/domain"
)

// Invite is the rendered content of an outbound duel invitation
type Invite struct {
	InviterName string
	Token       string
	InviteURL   string
	Message     string
	Rules       domain.DuelRules
}

// Result reports the outcome of a single delivery attempt
type Result struct {
	Channel   string
	Recipient string
	MessageID string
	Err       error
}

// Succeeded reports whether the delivery attempt succeeded
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Channel sends a duel invitation over a single transport (email, SMS)
type Channel interface {
	Name() string
	Send(ctx context.Context, recipient string, invite Invite) Result
}
