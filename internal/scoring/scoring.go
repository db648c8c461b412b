// Package scoring determines the winner of a duel from two completed
// session summaries.
package scoring

import (
	"math"

	"github.com/proofofputt/duels/internal/domain"
)

// Winner identifies which side of a comparison won
type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "tie"
)

// Sentinel for a missing fastest-21 time: a player who never reached 21
// makes always loses that comparison.
const worstFastest21 = math.MaxFloat64

// Result carries the winner and the compared values for both sides
type Result struct {
	Winner Winner  `json:"winner"`
	ValueA float64 `json:"value_a"`
	ValueB float64 `json:"value_b"`
}

// Score compares two sessions under the given method. Higher wins for every
// method except fastest_21 where lower wins. An unrecognized method falls
// back to total_makes; creation-time validation rejects unknown methods, so
// the fallback only matters for legacy rows already in the store.
func Score(a, b domain.SessionSummary, method domain.ScoringMethod) Result {
	switch method {
	case domain.ScoringMakePercentage:
		// Round to two decimals so 10/3 vs 20/6 is a tie, not float noise.
		return higherWins(round2(a.MakePercentage()), round2(b.MakePercentage()))
	case domain.ScoringBestStreak:
		return higherWins(float64(a.BestStreak), float64(b.BestStreak))
	case domain.ScoringFastest21:
		return lowerWins(fastest21(a), fastest21(b))
	case domain.ScoringTotalMakes:
		return higherWins(float64(a.TotalMakes), float64(b.TotalMakes))
	default:
		return higherWins(float64(a.TotalMakes), float64(b.TotalMakes))
	}
}

func fastest21(s domain.SessionSummary) float64 {
	if s.Fastest21Seconds <= 0 {
		return worstFastest21
	}
	return s.Fastest21Seconds
}

func higherWins(va, vb float64) Result {
	r := Result{Winner: WinnerTie, ValueA: va, ValueB: vb}
	if va > vb {
		r.Winner = WinnerA
	} else if vb > va {
		r.Winner = WinnerB
	}
	return r
}

func lowerWins(va, vb float64) Result {
	r := Result{Winner: WinnerTie, ValueA: va, ValueB: vb}
	if va < vb {
		r.Winner = WinnerA
	} else if vb < va {
		r.Winner = WinnerB
	}
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
