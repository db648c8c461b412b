package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// SessionSummary is the slice of a putting session the scoring engine needs.
// Fastest21Seconds is zero when the player never reached 21 makes; scoring
// treats that as worst possible for the fastest_21 method.
type SessionSummary struct {
	SessionID        uuid.UUID `json:"session_id"`
	PlayerID         uuid.UUID `json:"player_id"`
	TotalMakes       int       `json:"total_makes"`
	TotalAttempts    int       `json:"total_attempts"`
	BestStreak       int       `json:"best_streak"`
	Fastest21Seconds float64   `json:"fastest_21_seconds,omitempty"`
}

// MakePercentage returns makes/attempts as a percentage, 0 when no attempts.
func (s SessionSummary) MakePercentage() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.TotalMakes) / float64(s.TotalAttempts) * 100
}

// MarshalSessionSummary converts a SessionSummary to JSONB
func MarshalSessionSummary(s SessionSummary) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSessionSummary converts JSONB to a SessionSummary
func UnmarshalSessionSummary(data []byte) (*SessionSummary, error) {
	var s SessionSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
