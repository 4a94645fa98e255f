package prediction

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/soccer-predictor/internal/models"
)

// PoissonModel derives scoreline-level probabilities from expected
// goals, assuming both sides' goal counts are independent Poisson
// variables.
type PoissonModel struct {
	MaxGoals int
}

// NewPoissonModel returns a model truncated at 10 goals per side.
func NewPoissonModel() *PoissonModel {
	return &PoissonModel{MaxGoals: 10}
}

// poissonPMF is the probability of exactly k events at rate lambda.
func poissonPMF(k int, lambda float64) float64 {
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	logP := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logP)
}

func logFactorial(k int) float64 {
	sum := 0.0
	for i := 2; i <= k; i++ {
		sum += math.Log(float64(i))
	}
	return sum
}

// GoalDistribution returns the truncated, renormalized goal
// probabilities for one side.
func (m *PoissonModel) GoalDistribution(expectedGoals float64) []float64 {
	probs := make([]float64, m.MaxGoals+1)
	total := 0.0
	for k := 0; k <= m.MaxGoals; k++ {
		probs[k] = poissonPMF(k, expectedGoals)
		total += probs[k]
	}
	if total > 0 {
		for k := range probs {
			probs[k] /= total
		}
	}
	return probs
}

// ScoreMatrix is the joint probability over all truncated scorelines.
type ScoreMatrix struct {
	probs    [][]float64
	maxGoals int
}

// ScoreMatrix builds the joint scoreline distribution for the given
// expected goals.
func (m *PoissonModel) ScoreMatrix(homeXG, awayXG float64) *ScoreMatrix {
	homeDist := m.GoalDistribution(homeXG)
	awayDist := m.GoalDistribution(awayXG)

	probs := make([][]float64, m.MaxGoals+1)
	for h := 0; h <= m.MaxGoals; h++ {
		probs[h] = make([]float64, m.MaxGoals+1)
		for a := 0; a <= m.MaxGoals; a++ {
			probs[h][a] = homeDist[h] * awayDist[a]
		}
	}
	return &ScoreMatrix{probs: probs, maxGoals: m.MaxGoals}
}

// Prob returns the probability of an exact scoreline.
func (s *ScoreMatrix) Prob(home, away int) float64 {
	if home < 0 || away < 0 || home > s.maxGoals || away > s.maxGoals {
		return 0
	}
	return s.probs[home][away]
}

// HomeWinProb sums the mass below the diagonal.
func (s *ScoreMatrix) HomeWinProb() float64 {
	total := 0.0
	for h := 0; h <= s.maxGoals; h++ {
		for a := 0; a < h; a++ {
			total += s.probs[h][a]
		}
	}
	return total
}

// DrawProb sums the diagonal.
func (s *ScoreMatrix) DrawProb() float64 {
	total := 0.0
	for i := 0; i <= s.maxGoals; i++ {
		total += s.probs[i][i]
	}
	return total
}

// AwayWinProb sums the mass above the diagonal.
func (s *ScoreMatrix) AwayWinProb() float64 {
	total := 0.0
	for a := 0; a <= s.maxGoals; a++ {
		for h := 0; h < a; h++ {
			total += s.probs[h][a]
		}
	}
	return total
}

// OverGoalsProb returns the probability of strictly more than the
// given number of total goals (e.g. 2.5 lines).
func (s *ScoreMatrix) OverGoalsProb(line float64) float64 {
	threshold := int(line)
	total := 0.0
	for h := 0; h <= s.maxGoals; h++ {
		for a := 0; a <= s.maxGoals; a++ {
			if h+a > threshold {
				total += s.probs[h][a]
			}
		}
	}
	return total
}

// BTTSProb returns the probability of both teams scoring.
func (s *ScoreMatrix) BTTSProb() float64 {
	total := 0.0
	for h := 1; h <= s.maxGoals; h++ {
		for a := 1; a <= s.maxGoals; a++ {
			total += s.probs[h][a]
		}
	}
	return total
}

// MostLikelyScores returns the n highest-probability scorelines.
func (s *ScoreMatrix) MostLikelyScores(n int) []models.Scoreline {
	scores := make([]models.Scoreline, 0, (s.maxGoals+1)*(s.maxGoals+1))
	for h := 0; h <= s.maxGoals; h++ {
		for a := 0; a <= s.maxGoals; a++ {
			scores = append(scores, models.Scoreline{
				Score:       fmt.Sprintf("%d-%d", h, a),
				Probability: s.probs[h][a],
			})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Probability > scores[j].Probability
	})
	if n < len(scores) {
		scores = scores[:n]
	}
	return scores
}
