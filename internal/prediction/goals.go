package prediction

import (
	"math"

	"github.com/yourusername/soccer-predictor/internal/models"
)

// League-average scoring baselines. The home side carries the larger
// baseline; the rating gap shifts both in opposite directions.
const (
	baseHomeGoals   = 1.5
	baseAwayGoals   = 1.3
	goalsGapDivisor = 300.0

	minGoals = 0.0
	maxGoals = 5.0
)

// ExpectedGoals maps an effective rating difference to an expected
// scoreline. Both sides are clamped to [0, 5] and rounded to one
// decimal place.
//
// The projection is derived from the same rating gap as the outcome
// distribution but is a separate approximation, not a joint model with
// it; the two are consistent in direction, not probabilistically
// coupled.
func ExpectedGoals(effectiveDiff float64) models.GoalsProjection {
	home := baseHomeGoals + effectiveDiff/goalsGapDivisor
	away := baseAwayGoals - effectiveDiff/goalsGapDivisor
	return models.GoalsProjection{
		HomeGoals: roundTenth(clampGoals(home)),
		AwayGoals: roundTenth(clampGoals(away)),
	}
}

func clampGoals(goals float64) float64 {
	return math.Max(minGoals, math.Min(maxGoals, goals))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
