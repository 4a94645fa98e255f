// Package simulation implements Monte Carlo season projections: the
// empirical-rate point projection over current standings, the
// fixture-level league simulator and the knockout bracket simulator.
package simulation

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/soccer-predictor/internal/metrics"
	"github.com/yourusername/soccer-predictor/internal/models"
)

// Config configures a Monte Carlo projection run.
type Config struct {
	// Trials is the number of independent season repetitions.
	// Non-positive values default to 1000.
	Trials int
	// Seed makes runs reproducible. Zero seeds from the clock.
	Seed int64
	// RemainingMatches is the number of fixtures left per team.
	RemainingMatches int
	// RelegationSpots overrides the relegation zone size. Zero derives
	// it from the league size: three spots, four for leagues larger
	// than twenty teams.
	RelegationSpots int
}

func (c *Config) applyDefaults() {
	if c.Trials <= 0 {
		c.Trials = 1000
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

func (c *Config) relegationSpots(leagueSize int) int {
	if c.RelegationSpots > 0 {
		return c.RelegationSpots
	}
	if leagueSize > 20 {
		return 4
	}
	return 3
}

// TeamProjection is the per-team outcome of a projection run.
type TeamProjection struct {
	Team                  string  `json:"team"`
	ProjectedPoints       float64 `json:"projected_points"`
	TitleProbability      float64 `json:"title_probability"`
	Top4Probability       float64 `json:"top4_probability"`
	RelegationProbability float64 `json:"relegation_probability"`
}

// ProjectSeason estimates final-table probabilities by replaying each
// team's remaining fixtures against its empirical win and draw rates.
// Teams with no played matches get neutral (zero) rates and simply
// keep their current points.
//
// Trials are independent, so results are deterministic for a fixed
// seed and converge for large trial counts.
func ProjectSeason(ctx context.Context, standings []models.StandingsRow, cfg Config) ([]TeamProjection, error) {
	_ = ctx
	if len(standings) == 0 {
		return nil, models.ErrEmptyStandings
	}
	cfg.applyDefaults()

	start := time.Now()
	defer func() {
		metrics.SimulationsTotal.Inc()
		metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	}()

	n := len(standings)
	rng := rand.New(rand.NewSource(cfg.Seed))

	pointTotals := make([]float64, n)
	positionCounts := make([][]int, n)
	for i := range positionCounts {
		positionCounts[i] = make([]int, n)
	}

	trialPoints := make([]int, n)
	order := make([]int, n)

	for trial := 0; trial < cfg.Trials; trial++ {
		for i := range standings {
			row := &standings[i]
			pts := row.Points
			winRate := row.WinRate()
			drawRate := row.DrawRate()
			for m := 0; m < cfg.RemainingMatches; m++ {
				r := rng.Float64()
				switch {
				case r < winRate:
					pts += 3
				case r < winRate+drawRate:
					pts++
				}
			}
			trialPoints[i] = pts
			pointTotals[i] += float64(pts)
			order[i] = i
		}

		// Rank by trial points, breaking ties on current goal
		// difference, then name for determinism.
		sort.SliceStable(order, func(a, b int) bool {
			ia, ib := order[a], order[b]
			if trialPoints[ia] != trialPoints[ib] {
				return trialPoints[ia] > trialPoints[ib]
			}
			if standings[ia].GoalDiff() != standings[ib].GoalDiff() {
				return standings[ia].GoalDiff() > standings[ib].GoalDiff()
			}
			return standings[ia].Team < standings[ib].Team
		})
		for pos, idx := range order {
			positionCounts[idx][pos]++
		}
	}

	relegation := cfg.relegationSpots(n)
	trials := float64(cfg.Trials)

	projections := make([]TeamProjection, n)
	for i, row := range standings {
		p := TeamProjection{
			Team:            row.Team,
			ProjectedPoints: pointTotals[i] / trials,
		}
		for pos, count := range positionCounts[i] {
			frac := float64(count) / trials
			rank := pos + 1
			if rank == 1 {
				p.TitleProbability += frac
			}
			if rank <= 4 {
				p.Top4Probability += frac
			}
			if rank > n-relegation {
				p.RelegationProbability += frac
			}
		}
		projections[i] = p
	}

	sort.SliceStable(projections, func(a, b int) bool {
		return projections[a].ProjectedPoints > projections[b].ProjectedPoints
	})
	return projections, nil
}
