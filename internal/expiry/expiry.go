// Package expiry centralizes all deadline math for duels and invitations.
// Every ingestion point normalizes time limits to minutes before anything
// here is called; nothing else in the codebase computes deadlines.
package expiry

import (
	"time"

	"github.com/proofofputt/duels/internal/domain"
)

// Remaining describes the time budget of a duel or invitation at one instant
type Remaining struct {
	ExpiresAt        time.Time `json:"expires_at"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	IsExpired        bool      `json:"is_expired"`
	NeverExpires     bool      `json:"never_expires,omitempty"`
}

// RemainingTime computes the budget from a creation time and a limit in
// minutes. A zero or negative limit means the record never expires; it is
// never treated as immediately expired.
func RemainingTime(createdAt time.Time, limitMinutes int, now time.Time) Remaining {
	if limitMinutes <= 0 {
		return Remaining{NeverExpires: true}
	}
	return RemainingUntil(createdAt.Add(time.Duration(limitMinutes)*time.Minute), now)
}

// RemainingUntil computes the budget against an explicit absolute deadline.
func RemainingUntil(expiresAt time.Time, now time.Time) Remaining {
	left := expiresAt.Sub(now)
	r := Remaining{
		ExpiresAt: expiresAt,
		IsExpired: now.After(expiresAt),
	}
	if left > 0 {
		r.RemainingSeconds = int64(left / time.Second)
	}
	return r
}

// ForDuel evaluates a duel's deadline. An explicit expires_at on the record
// takes precedence over created_at plus the configured limit.
func ForDuel(d *domain.Duel, now time.Time) Remaining {
	if d.ExpiresAt != nil {
		return RemainingUntil(*d.ExpiresAt, now)
	}
	return RemainingTime(d.CreatedAt, d.Rules.TimeLimitMinutes, now)
}

// ForInvitation evaluates an invitation's absolute deadline.
func ForInvitation(inv *domain.Invitation, now time.Time) Remaining {
	return RemainingUntil(inv.ExpiresAt, now)
}
