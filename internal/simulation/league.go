package simulation

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/soccer-predictor/internal/metrics"
	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/ratings"
)

const (
	baseFixtureHomeGoals = 1.35
	baseFixtureAwayGoals = 1.15
	homeAdvantageGoals   = 0.25
	eloGoalSensitivity   = 0.3

	minHomeGoalsLambda = 0.5
	maxHomeGoalsLambda = 4.0
	minAwayGoalsLambda = 0.3
	maxAwayGoalsLambda = 3.5
)

// FixtureConfig configures a fixture-level league simulation.
type FixtureConfig struct {
	Trials int
	Seed   int64
	// RelegationSpots as in Config; zero derives from league size.
	RelegationSpots int
}

func (c *FixtureConfig) applyDefaults() {
	if c.Trials <= 0 {
		c.Trials = 1000
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// SimulatedStanding summarises one team's outcomes across trials.
type SimulatedStanding struct {
	Team                  string    `json:"team"`
	AvgPoints             float64   `json:"avg_points"`
	AvgPosition           float64   `json:"avg_position"`
	TitleProbability      float64   `json:"title_probability"`
	Top4Probability       float64   `json:"top4_probability"`
	EuropaProbability     float64   `json:"europa_probability"`
	RelegationProbability float64   `json:"relegation_probability"`
	PositionDistribution  []float64 `json:"position_distribution"`
}

// LeagueSimulationResult is the aggregate output of SimulateLeague.
type LeagueSimulationResult struct {
	Standings        []SimulatedStanding `json:"standings"`
	MostLikelyWinner string              `json:"most_likely_winner"`
	Trials           int                 `json:"trials"`
}

// LeagueSimulator plays out remaining fixtures match by match,
// deriving Poisson goal rates from the rating gap between the sides.
type LeagueSimulator struct {
	elo    *ratings.System
	logger *logrus.Logger
}

func NewLeagueSimulator(elo *ratings.System, logger *logrus.Logger) *LeagueSimulator {
	if logger == nil {
		logger = logrus.New()
	}
	return &LeagueSimulator{elo: elo, logger: logger}
}

// fixtureLambdas converts a rating difference into expected goals for
// both sides. The gap is normalised by the logistic scale so a 400
// point favourite expects roughly double the underdog's output.
func fixtureLambdas(homeElo, awayElo float64) (float64, float64) {
	diff := (homeElo - awayElo) / 400
	home := baseFixtureHomeGoals*(1+diff*eloGoalSensitivity) + homeAdvantageGoals
	away := baseFixtureAwayGoals * (1 - diff*eloGoalSensitivity)
	home = math.Max(minHomeGoalsLambda, math.Min(maxHomeGoalsLambda, home))
	away = math.Max(minAwayGoalsLambda, math.Min(maxAwayGoalsLambda, away))
	return home, away
}

// samplePoisson draws from a Poisson distribution by inversion.
func samplePoisson(lambda float64, rng *rand.Rand) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
		if k > 25 {
			return k
		}
	}
}

// SimulateLeague runs cfg.Trials full repetitions of the remaining
// fixtures on top of the current standings and aggregates final-table
// probabilities. Position 5 through 7 count as Europa places.
func (s *LeagueSimulator) SimulateLeague(ctx context.Context, standings []models.StandingsRow, fixtures []models.Fixture, cfg FixtureConfig) (*LeagueSimulationResult, error) {
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
	index := make(map[string]int, n)
	elos := make([]float64, n)
	for i, row := range standings {
		index[row.Team] = i
		elos[i] = s.elo.Elo(row.Team)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	pointTotals := make([]float64, n)
	positionTotals := make([]float64, n)
	positionCounts := make([][]int, n)
	for i := range positionCounts {
		positionCounts[i] = make([]int, n)
	}

	trialPoints := make([]int, n)
	trialGD := make([]int, n)
	order := make([]int, n)

	for trial := 0; trial < cfg.Trials; trial++ {
		for i, row := range standings {
			trialPoints[i] = row.Points
			trialGD[i] = row.GoalDiff()
			order[i] = i
		}

		for _, f := range fixtures {
			hi, ok := index[f.HomeTeam]
			if !ok {
				s.logger.WithField("team", f.HomeTeam).Debug("fixture team missing from standings, skipping")
				continue
			}
			ai, ok := index[f.AwayTeam]
			if !ok {
				s.logger.WithField("team", f.AwayTeam).Debug("fixture team missing from standings, skipping")
				continue
			}
			homeL, awayL := fixtureLambdas(elos[hi], elos[ai])
			hg := samplePoisson(homeL, rng)
			ag := samplePoisson(awayL, rng)
			switch {
			case hg > ag:
				trialPoints[hi] += 3
			case hg < ag:
				trialPoints[ai] += 3
			default:
				trialPoints[hi]++
				trialPoints[ai]++
			}
			trialGD[hi] += hg - ag
			trialGD[ai] += ag - hg
		}

		sort.SliceStable(order, func(a, b int) bool {
			ia, ib := order[a], order[b]
			if trialPoints[ia] != trialPoints[ib] {
				return trialPoints[ia] > trialPoints[ib]
			}
			if trialGD[ia] != trialGD[ib] {
				return trialGD[ia] > trialGD[ib]
			}
			return standings[ia].Team < standings[ib].Team
		})
		for pos, idx := range order {
			positionCounts[idx][pos]++
			positionTotals[idx] += float64(pos + 1)
			pointTotals[idx] += float64(trialPoints[idx])
		}
	}

	relegation := (&Config{RelegationSpots: cfg.RelegationSpots}).relegationSpots(n)
	trials := float64(cfg.Trials)

	result := &LeagueSimulationResult{Trials: cfg.Trials}
	bestTitle := -1.0
	for i, row := range standings {
		st := SimulatedStanding{
			Team:                 row.Team,
			AvgPoints:            pointTotals[i] / trials,
			AvgPosition:          positionTotals[i] / trials,
			PositionDistribution: make([]float64, n),
		}
		for pos, count := range positionCounts[i] {
			frac := float64(count) / trials
			st.PositionDistribution[pos] = frac
			rank := pos + 1
			if rank == 1 {
				st.TitleProbability += frac
			}
			if rank <= 4 {
				st.Top4Probability += frac
			}
			if rank >= 5 && rank <= 7 {
				st.EuropaProbability += frac
			}
			if rank > n-relegation {
				st.RelegationProbability += frac
			}
		}
		if st.TitleProbability > bestTitle {
			bestTitle = st.TitleProbability
			result.MostLikelyWinner = st.Team
		}
		result.Standings = append(result.Standings, st)
	}

	sort.SliceStable(result.Standings, func(a, b int) bool {
		return result.Standings[a].AvgPosition < result.Standings[b].AvgPosition
	})
	return result, nil
}
