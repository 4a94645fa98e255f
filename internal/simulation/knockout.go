package simulation

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/soccer-predictor/internal/metrics"
)

// ErrBracketSize is returned when the entrant count is not a power of
// two of at least two teams.
var ErrBracketSize = errors.New("knockout bracket requires a power-of-two number of teams")

// KnockoutTeam is a bracket entrant with its current rating.
type KnockoutTeam struct {
	Name string  `json:"name"`
	Elo  float64 `json:"elo"`
}

// KnockoutConfig configures a bracket simulation. Ties before the
// final are two-legged with home advantage alternating; the final is
// a single match on neutral ground.
type KnockoutConfig struct {
	Trials int
	Seed   int64
}

func (c *KnockoutConfig) applyDefaults() {
	if c.Trials <= 0 {
		c.Trials = 1000
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// KnockoutOutcome is one team's chances across the bracket.
type KnockoutOutcome struct {
	Team                 string  `json:"team"`
	WinProbability       float64 `json:"win_probability"`
	FinalProbability     float64 `json:"final_probability"`
	SemifinalProbability float64 `json:"semifinal_probability"`
}

// KnockoutResult aggregates a bracket simulation.
type KnockoutResult struct {
	Outcomes  []KnockoutOutcome `json:"outcomes"`
	Favourite string            `json:"favourite"`
	Trials    int               `json:"trials"`
}

// SimulateKnockout plays the bracket in seeded order: entry 0 meets
// entry 1, entry 2 meets entry 3, and so on, with winners advancing
// in place.
func SimulateKnockout(ctx context.Context, teams []KnockoutTeam, cfg KnockoutConfig) (*KnockoutResult, error) {
	_ = ctx
	n := len(teams)
	if n < 2 || n&(n-1) != 0 {
		return nil, ErrBracketSize
	}
	cfg.applyDefaults()

	start := time.Now()
	defer func() {
		metrics.SimulationsTotal.Inc()
		metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	}()

	rng := rand.New(rand.NewSource(cfg.Seed))

	wins := make(map[string]int, n)
	finals := make(map[string]int, n)
	semis := make(map[string]int, n)

	for trial := 0; trial < cfg.Trials; trial++ {
		round := make([]KnockoutTeam, n)
		copy(round, teams)
		for len(round) > 1 {
			if len(round) == 4 {
				for _, t := range round {
					semis[t.Name]++
				}
			}
			if len(round) == 2 {
				for _, t := range round {
					finals[t.Name]++
				}
			}
			next := make([]KnockoutTeam, 0, len(round)/2)
			for i := 0; i < len(round); i += 2 {
				a, b := round[i], round[i+1]
				if winsTie(a, b, len(round) == 2, rng) {
					next = append(next, a)
				} else {
					next = append(next, b)
				}
			}
			round = next
		}
		wins[round[0].Name]++
	}

	trials := float64(cfg.Trials)
	result := &KnockoutResult{Trials: cfg.Trials}
	for _, t := range teams {
		result.Outcomes = append(result.Outcomes, KnockoutOutcome{
			Team:                 t.Name,
			WinProbability:       float64(wins[t.Name]) / trials,
			FinalProbability:     float64(finals[t.Name]) / trials,
			SemifinalProbability: float64(semis[t.Name]) / trials,
		})
	}
	sort.SliceStable(result.Outcomes, func(a, b int) bool {
		return result.Outcomes[a].WinProbability > result.Outcomes[b].WinProbability
	})
	if len(result.Outcomes) > 0 {
		result.Favourite = result.Outcomes[0].Team
	}
	return result, nil
}

// winsTie reports whether a beats b. Two-legged ties sample goals in
// both venues and settle level aggregates on the rating-implied coin
// flip, standing in for extra time and penalties.
func winsTie(a, b KnockoutTeam, final bool, rng *rand.Rand) bool {
	if final {
		// Neutral venue: split the home edge.
		homeL, awayL := fixtureLambdas(a.Elo, b.Elo)
		neutral := (homeL + awayL) / 2
		ga := samplePoisson(neutral*lambdaShare(a.Elo, b.Elo), rng)
		gb := samplePoisson(neutral*lambdaShare(b.Elo, a.Elo), rng)
		if ga != gb {
			return ga > gb
		}
		return rng.Float64() < expectedShare(a.Elo, b.Elo)
	}

	aHomeL, bAwayL := fixtureLambdas(a.Elo, b.Elo)
	bHomeL, aAwayL := fixtureLambdas(b.Elo, a.Elo)
	aggA := samplePoisson(aHomeL, rng) + samplePoisson(aAwayL, rng)
	aggB := samplePoisson(bAwayL, rng) + samplePoisson(bHomeL, rng)
	if aggA != aggB {
		return aggA > aggB
	}
	return rng.Float64() < expectedShare(a.Elo, b.Elo)
}

func expectedShare(elo, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-elo)/400))
}

// lambdaShare biases a neutral goal rate toward the stronger side.
func lambdaShare(elo, opponent float64) float64 {
	return 2 * expectedShare(elo, opponent)
}
