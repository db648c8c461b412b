package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proofofputt/duels/internal/domain"
)

func TestRemainingTime_PastDeadline(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(61 * time.Minute)

	r := RemainingTime(created, 60, now)

	assert.True(t, r.IsExpired)
	assert.Equal(t, int64(0), r.RemainingSeconds)
	assert.Equal(t, created.Add(time.Hour), r.ExpiresAt)
}

func TestRemainingTime_BeforeDeadline(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(30 * time.Minute)

	r := RemainingTime(created, 60, now)

	assert.False(t, r.IsExpired)
	assert.Equal(t, int64(1800), r.RemainingSeconds)
}

func TestRemainingTime_ExactDeadlineNotExpired(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r := RemainingTime(created, 60, created.Add(60*time.Minute))

	assert.False(t, r.IsExpired)
	assert.Equal(t, int64(0), r.RemainingSeconds)
}

func TestRemainingTime_ZeroLimitNeverExpires(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r := RemainingTime(created, 0, created.Add(100000*time.Hour))

	assert.False(t, r.IsExpired)
	assert.True(t, r.NeverExpires)
}

func TestForDuel_ExplicitExpiresAtWins(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	explicit := created.Add(10 * time.Minute)
	d := &domain.Duel{
		CreatedAt: created,
		Rules:     domain.DuelRules{TimeLimitMinutes: 2880},
		ExpiresAt: &explicit,
	}

	r := ForDuel(d, created.Add(11*time.Minute))

	assert.True(t, r.IsExpired)
	assert.Equal(t, explicit, r.ExpiresAt)
}

func TestForDuel_DerivedFromRules(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := &domain.Duel{
		CreatedAt: created,
		Rules:     domain.DuelRules{TimeLimitMinutes: 2880},
	}

	r := ForDuel(d, created.Add(24*time.Hour))

	assert.False(t, r.IsExpired)
	assert.Equal(t, int64(24*3600), r.RemainingSeconds)
}

func TestForInvitation(t *testing.T) {
	expires := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	inv := &domain.Invitation{ExpiresAt: expires}

	assert.False(t, ForInvitation(inv, expires.Add(-time.Second)).IsExpired)
	assert.True(t, ForInvitation(inv, expires.Add(time.Second)).IsExpired)
}
