package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DuelStatus represents the lifecycle state of a duel
type DuelStatus string

const (
	DuelStatusPending          DuelStatus = "pending"
	DuelStatusPendingNewPlayer DuelStatus = "pending_new_player"
	DuelStatusActive           DuelStatus = "active"
	DuelStatusCompleted        DuelStatus = "completed"
	DuelStatusCancelled        DuelStatus = "cancelled"
	DuelStatusExpired          DuelStatus = "expired"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s DuelStatus) IsTerminal() bool {
	switch s {
	case DuelStatusCompleted, DuelStatusCancelled, DuelStatusExpired:
		return true
	}
	return false
}

// ScoringMethod selects how two submitted sessions are compared
type ScoringMethod string

const (
	ScoringTotalMakes     ScoringMethod = "total_makes"
	ScoringMakePercentage ScoringMethod = "make_percentage"
	ScoringBestStreak     ScoringMethod = "best_streak"
	ScoringFastest21      ScoringMethod = "fastest_21" // lower wins
)

// KnownScoringMethod reports whether m is one of the supported methods.
func KnownScoringMethod(m ScoringMethod) bool {
	switch m {
	case ScoringTotalMakes, ScoringMakePercentage, ScoringBestStreak, ScoringFastest21:
		return true
	}
	return false
}

// Default rule values applied when a creation request leaves them unset
const (
	DefaultDuelType         = "standard"
	DefaultTimeLimitMinutes = 48 * 60
	DefaultTargetPutts      = 50
)

// DuelRules is the configuration bag stored as JSONB on the duel row.
// TimeLimitMinutes is the canonical time-limit representation; ingestion
// points accepting hours must convert before the rules reach the store.
// A zero TimeLimitMinutes means the duel never expires.
type DuelRules struct {
	DuelType                string        `json:"duel_type"`
	TimeLimitMinutes        int           `json:"time_limit_minutes"`
	TargetPutts             int           `json:"target_putts"`
	ScoringMethod           ScoringMethod `json:"scoring_method"`
	HandicapEnabled         bool          `json:"handicap_enabled"`
	InvitationExpiryMinutes int           `json:"invitation_expiry_minutes,omitempty"`
}

// DefaultRules returns the rule set applied when the caller supplies none.
func DefaultRules() DuelRules {
	return DuelRules{
		DuelType:         DefaultDuelType,
		TimeLimitMinutes: DefaultTimeLimitMinutes,
		TargetPutts:      DefaultTargetPutts,
		ScoringMethod:    ScoringTotalMakes,
	}
}

// Normalize fills unset rule fields with defaults. The invitation expiry
// window falls back to the duel time limit when not set explicitly.
func (r DuelRules) Normalize() DuelRules {
	if r.DuelType == "" {
		r.DuelType = DefaultDuelType
	}
	if r.TargetPutts <= 0 {
		r.TargetPutts = DefaultTargetPutts
	}
	if r.ScoringMethod == "" {
		r.ScoringMethod = ScoringTotalMakes
	}
	if r.InvitationExpiryMinutes <= 0 {
		r.InvitationExpiryMinutes = r.TimeLimitMinutes
	}
	return r
}

// ParticipantRole identifies which side of a duel a player is on
type ParticipantRole string

const (
	RoleCreator ParticipantRole = "creator"
	RoleInvited ParticipantRole = "invited"
)

// Duel represents a 1v1 putting challenge between two players
type Duel struct {
	ID               uuid.UUID  `json:"id"`
	CreatorID        uuid.UUID  `json:"creator_id"`
	InvitedPlayerID  *uuid.UUID `json:"invited_player_id,omitempty"`
	Status           DuelStatus `json:"status"`
	Rules            DuelRules  `json:"rules"`
	CreatorSessionID *uuid.UUID `json:"creator_session_id,omitempty"`
	InvitedSessionID *uuid.UUID `json:"invited_session_id,omitempty"`
	WinnerID         *uuid.UUID `json:"winner_id,omitempty"` // nil at completed means tie
	CreatedAt        time.Time  `json:"created_at"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"` // overrides created_at + limit when set
}

// Role returns the participant role of playerID in d, if any.
func (d *Duel) Role(playerID uuid.UUID) (ParticipantRole, bool) {
	if d.CreatorID == playerID {
		return RoleCreator, true
	}
	if d.InvitedPlayerID != nil && *d.InvitedPlayerID == playerID {
		return RoleInvited, true
	}
	return "", false
}

// BothSubmitted reports whether both session slots are filled.
func (d *Duel) BothSubmitted() bool {
	return d.CreatorSessionID != nil && d.InvitedSessionID != nil
}

// MarshalRules converts DuelRules to JSONB
func MarshalRules(rules DuelRules) ([]byte, error) {
	return json.Marshal(rules)
}

// UnmarshalRules converts JSONB to DuelRules
func UnmarshalRules(data []byte) (*DuelRules, error) {
	var rules DuelRules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}
