package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/yourusername/soccer-predictor/internal/models"
)

func sampleStandings() []models.StandingsRow {
	return []models.StandingsRow{
		{Team: "Leaders", Played: 20, Won: 15, Drawn: 3, Lost: 2, GoalsFor: 45, GoalsAgainst: 15, Points: 48},
		{Team: "Chasers", Played: 20, Won: 12, Drawn: 5, Lost: 3, GoalsFor: 38, GoalsAgainst: 20, Points: 41},
		{Team: "Middlers", Played: 20, Won: 8, Drawn: 6, Lost: 6, GoalsFor: 28, GoalsAgainst: 26, Points: 30},
		{Team: "Drifters", Played: 20, Won: 5, Drawn: 5, Lost: 10, GoalsFor: 20, GoalsAgainst: 32, Points: 20},
		{Team: "Sinkers", Played: 20, Won: 2, Drawn: 4, Lost: 14, GoalsFor: 12, GoalsAgainst: 40, Points: 10},
	}
}

func TestProjectSeasonEmptyStandings(t *testing.T) {
	_, err := ProjectSeason(context.Background(), nil, Config{})
	if err != models.ErrEmptyStandings {
		t.Fatalf("expected ErrEmptyStandings, got %v", err)
	}
}

func TestProjectSeasonNoRemainingMatches(t *testing.T) {
	rows := sampleStandings()
	projections, err := ProjectSeason(context.Background(), rows, Config{Trials: 200, Seed: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// With nothing left to play the table is frozen.
	if projections[0].Team != "Leaders" {
		t.Errorf("expected Leaders first, got %s", projections[0].Team)
	}
	if projections[0].ProjectedPoints != 48 {
		t.Errorf("expected frozen points 48, got %.2f", projections[0].ProjectedPoints)
	}
	if projections[0].TitleProbability != 1.0 {
		t.Errorf("expected certain title, got %.3f", projections[0].TitleProbability)
	}
	last := projections[len(projections)-1]
	if last.RelegationProbability != 1.0 {
		t.Errorf("expected certain relegation for %s, got %.3f", last.Team, last.RelegationProbability)
	}
}

func TestProjectSeasonStrongTeamFavoured(t *testing.T) {
	rows := sampleStandings()
	projections, err := ProjectSeason(context.Background(), rows, Config{
		Trials:           2000,
		Seed:             7,
		RemainingMatches: 18,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byTeam := make(map[string]TeamProjection, len(projections))
	for _, p := range projections {
		byTeam[p.Team] = p
	}

	if byTeam["Leaders"].TitleProbability <= byTeam["Sinkers"].TitleProbability {
		t.Errorf("leaders title %.3f should exceed sinkers %.3f",
			byTeam["Leaders"].TitleProbability, byTeam["Sinkers"].TitleProbability)
	}
	if byTeam["Sinkers"].RelegationProbability <= byTeam["Leaders"].RelegationProbability {
		t.Errorf("sinkers relegation %.3f should exceed leaders %.3f",
			byTeam["Sinkers"].RelegationProbability, byTeam["Leaders"].RelegationProbability)
	}
	if byTeam["Leaders"].ProjectedPoints <= 48 {
		t.Errorf("leaders should add points over 18 matches, got %.2f", byTeam["Leaders"].ProjectedPoints)
	}

	var titleSum float64
	for _, p := range projections {
		titleSum += p.TitleProbability
	}
	if math.Abs(titleSum-1.0) > 1e-9 {
		t.Errorf("title probabilities should sum to 1, got %.6f", titleSum)
	}
}

func TestProjectSeasonDeterministicForSeed(t *testing.T) {
	cfg := Config{Trials: 500, Seed: 99, RemainingMatches: 10}
	a, err := ProjectSeason(context.Background(), sampleStandings(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ProjectSeason(context.Background(), sampleStandings(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run mismatch at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestProjectSeasonUnplayedTeamKeepsPoints(t *testing.T) {
	rows := []models.StandingsRow{
		{Team: "Newcomers", Played: 0, Points: 0},
		{Team: "Veterans", Played: 10, Won: 10, GoalsFor: 30, Points: 30},
	}
	projections, err := ProjectSeason(context.Background(), rows, Config{
		Trials:           300,
		Seed:             1,
		RemainingMatches: 8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range projections {
		if p.Team == "Newcomers" && p.ProjectedPoints != 0 {
			t.Errorf("team with no history has zero rates, expected 0 points, got %.2f", p.ProjectedPoints)
		}
	}
}

func TestRelegationSpotsDerivation(t *testing.T) {
	cfg := &Config{}
	if got := cfg.relegationSpots(20); got != 3 {
		t.Errorf("20 team league: expected 3 spots, got %d", got)
	}
	if got := cfg.relegationSpots(24); got != 4 {
		t.Errorf("24 team league: expected 4 spots, got %d", got)
	}
	override := &Config{RelegationSpots: 2}
	if got := override.relegationSpots(20); got != 2 {
		t.Errorf("override: expected 2 spots, got %d", got)
	}
}
