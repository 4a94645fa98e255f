// Package prediction converts team strength estimates into match
// outcome probabilities, expected goals and scoreline distributions.
package prediction

import (
	"math"

	"github.com/yourusername/soccer-predictor/internal/models"
)

// Draw probability parameters: the draw share starts at the floor and
// gains up to drawBonus for evenly matched sides, shrinking linearly
// with the rating gap.
const (
	drawFloor      = 0.25
	drawBonus      = 0.15
	drawGapDivisor = 1000.0
)

// Calculator turns rating differences into three-way outcome
// distributions.
type Calculator struct {
	// HomeAdvantage is the fixed rating-point bonus applied to the
	// home side before probability computation.
	HomeAdvantage float64
}

// NewCalculator returns a calculator with the standard +65 home
// advantage offset.
func NewCalculator() *Calculator {
	return &Calculator{HomeAdvantage: 65}
}

// EffectiveDiff computes the home-adjusted rating difference including
// the form adjustment. Form counts double on the rating scale.
func (c *Calculator) EffectiveDiff(homeRating, awayRating, homeForm, awayForm float64) float64 {
	formAdjustment := (homeForm - awayForm) * 2
	return (homeRating + c.HomeAdvantage) - awayRating + formAdjustment
}

// Outcome converts two team ratings and their form modifiers into an
// integer-percent outcome distribution summing to exactly 100.
func (c *Calculator) Outcome(homeRating, awayRating, homeForm, awayForm float64) models.OutcomeProbabilities {
	return c.OutcomeFromDiff(c.EffectiveDiff(homeRating, awayRating, homeForm, awayForm))
}

// OutcomeFromDiff computes the distribution from an already effective
// (home-adjusted) rating difference.
//
// The logistic expected-score curve splits the non-draw mass between
// the two sides; the draw share shrinks as the gap widens. Percentages
// are rounded and the rounding remainder is assigned to the away
// bucket, so the three values always sum to 100.
func (c *Calculator) OutcomeFromDiff(effectiveDiff float64) models.OutcomeProbabilities {
	homeWinRaw := 1.0 / (1.0 + math.Pow(10, -effectiveDiff/400))

	drawProb := drawFloor + math.Max(0, drawBonus-math.Abs(effectiveDiff)/drawGapDivisor)
	nonDraw := 1.0 - drawProb

	homePct := int(math.Round(nonDraw * homeWinRaw * 100))
	drawPct := int(math.Round(drawProb * 100))
	awayPct := 100 - homePct - drawPct

	return models.OutcomeProbabilities{
		HomeWinPct: homePct,
		DrawPct:    drawPct,
		AwayWinPct: awayPct,
	}
}

// Confidence scores how decisive a distribution is, as an integer
// percent. It is 1 minus the normalized Shannon entropy of the
// three-way distribution: 0 for a uniform split, approaching 100 for a
// near-certain outcome.
func Confidence(p models.OutcomeProbabilities) int {
	probs := []float64{
		float64(p.HomeWinPct) / 100,
		float64(p.DrawPct) / 100,
		float64(p.AwayWinPct) / 100,
	}
	entropy := 0.0
	for _, prob := range probs {
		if prob > 0 {
			entropy -= prob * math.Log(prob)
		}
	}
	maxEntropy := math.Log(3)
	confidence := 1.0 - entropy/maxEntropy
	return int(math.Round(confidence * 100))
}
