package prediction

import (
	"math"
	"testing"
)

func TestExpectedGoalsEvenMatchup(t *testing.T) {
	g := ExpectedGoals(0)
	if g.HomeGoals != 1.5 || g.AwayGoals != 1.3 {
		t.Fatalf("zero diff should return the baselines, got %+v", g)
	}
}

func TestExpectedGoalsShiftWithDiff(t *testing.T) {
	g := ExpectedGoals(300)
	if g.HomeGoals != 2.5 || g.AwayGoals != 0.3 {
		t.Fatalf("diff 300 should shift one goal each way, got %+v", g)
	}
}

func TestExpectedGoalsClamped(t *testing.T) {
	for _, diff := range []float64{-10000, -2000, 0, 2000, 10000} {
		g := ExpectedGoals(diff)
		if g.HomeGoals < 0 || g.HomeGoals > 5 || g.AwayGoals < 0 || g.AwayGoals > 5 {
			t.Fatalf("goals out of [0,5] for diff %v: %+v", diff, g)
		}
	}
}

func TestExpectedGoalsOneDecimal(t *testing.T) {
	g := ExpectedGoals(100)
	for _, v := range []float64{g.HomeGoals, g.AwayGoals} {
		if math.Abs(v*10-math.Round(v*10)) > 1e-9 {
			t.Fatalf("goals should be rounded to one decimal, got %v", v)
		}
	}
}
