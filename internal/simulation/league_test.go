package simulation

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/ratings"
)

func TestFixtureLambdasClamped(t *testing.T) {
	home, away := fixtureLambdas(2500, 1000)
	if home > maxHomeGoalsLambda {
		t.Errorf("home lambda %.2f exceeds cap", home)
	}
	if away < minAwayGoalsLambda {
		t.Errorf("away lambda %.2f below floor", away)
	}

	home, away = fixtureLambdas(1000, 2500)
	if home < minHomeGoalsLambda {
		t.Errorf("home lambda %.2f below floor", home)
	}
	if away > maxAwayGoalsLambda {
		t.Errorf("away lambda %.2f exceeds cap", away)
	}
}

func TestFixtureLambdasEvenMatchup(t *testing.T) {
	home, away := fixtureLambdas(1600, 1600)
	if home <= away {
		t.Errorf("home side should carry the venue edge: home %.2f away %.2f", home, away)
	}
	if math.Abs(home-(baseFixtureHomeGoals+homeAdvantageGoals)) > 1e-9 {
		t.Errorf("even matchup home lambda: got %.4f", home)
	}
}

func TestSamplePoissonMean(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const lambda = 1.8
	const n = 20000
	sum := 0
	for i := 0; i < n; i++ {
		sum += samplePoisson(lambda, rng)
	}
	mean := float64(sum) / n
	if math.Abs(mean-lambda) > 0.05 {
		t.Errorf("sample mean %.3f too far from lambda %.1f", mean, lambda)
	}
	if samplePoisson(0, rng) != 0 {
		t.Error("zero lambda must yield zero goals")
	}
}

func TestSimulateLeague(t *testing.T) {
	elo := ratings.NewSystem(ratings.DefaultConfig())
	elo.Set("Giants", "", 1900)
	elo.Set("Solids", "", 1650)
	elo.Set("Strugglers", "", 1400)
	elo.Set("Doomed", "", 1250)

	standings := []models.StandingsRow{
		{Team: "Giants", Played: 10, Won: 8, Drawn: 1, Lost: 1, GoalsFor: 25, GoalsAgainst: 8, Points: 25},
		{Team: "Solids", Played: 10, Won: 5, Drawn: 3, Lost: 2, GoalsFor: 16, GoalsAgainst: 11, Points: 18},
		{Team: "Strugglers", Played: 10, Won: 3, Drawn: 2, Lost: 5, GoalsFor: 10, GoalsAgainst: 16, Points: 11},
		{Team: "Doomed", Played: 10, Won: 1, Drawn: 1, Lost: 8, GoalsFor: 6, GoalsAgainst: 22, Points: 4},
	}
	var fixtures []models.Fixture
	teams := []string{"Giants", "Solids", "Strugglers", "Doomed"}
	for _, h := range teams {
		for _, a := range teams {
			if h != a {
				fixtures = append(fixtures, models.Fixture{HomeTeam: h, AwayTeam: a})
			}
		}
	}

	sim := NewLeagueSimulator(elo, nil)
	result, err := sim.SimulateLeague(context.Background(), standings, fixtures, FixtureConfig{Trials: 1500, Seed: 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MostLikelyWinner != "Giants" {
		t.Errorf("expected Giants favourites, got %s", result.MostLikelyWinner)
	}
	if result.Standings[0].Team != "Giants" {
		t.Errorf("expected Giants first by average position, got %s", result.Standings[0].Team)
	}

	byTeam := make(map[string]SimulatedStanding)
	for _, st := range result.Standings {
		byTeam[st.Team] = st
		var distSum float64
		for _, frac := range st.PositionDistribution {
			distSum += frac
		}
		if math.Abs(distSum-1.0) > 1e-9 {
			t.Errorf("%s position distribution sums to %.6f", st.Team, distSum)
		}
	}
	if byTeam["Doomed"].RelegationProbability <= byTeam["Giants"].RelegationProbability {
		t.Errorf("doomed relegation %.3f should exceed giants %.3f",
			byTeam["Doomed"].RelegationProbability, byTeam["Giants"].RelegationProbability)
	}
	if byTeam["Giants"].AvgPoints <= byTeam["Doomed"].AvgPoints {
		t.Error("stronger side should average more points")
	}
}

func TestSimulateLeagueSkipsUnknownFixtureTeams(t *testing.T) {
	elo := ratings.NewSystem(ratings.DefaultConfig())
	standings := []models.StandingsRow{
		{Team: "Alpha", Played: 2, Won: 1, Drawn: 1, Points: 4},
		{Team: "Beta", Played: 2, Won: 1, Lost: 1, Points: 3},
	}
	fixtures := []models.Fixture{
		{HomeTeam: "Alpha", AwayTeam: "Ghost"},
		{HomeTeam: "Ghost", AwayTeam: "Beta"},
	}
	sim := NewLeagueSimulator(elo, nil)
	result, err := sim.SimulateLeague(context.Background(), standings, fixtures, FixtureConfig{Trials: 50, Seed: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, st := range result.Standings {
		switch st.Team {
		case "Alpha":
			if st.AvgPoints != 4 {
				t.Errorf("alpha points should be untouched, got %.2f", st.AvgPoints)
			}
		case "Beta":
			if st.AvgPoints != 3 {
				t.Errorf("beta points should be untouched, got %.2f", st.AvgPoints)
			}
		}
	}
}
