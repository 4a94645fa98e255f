package prediction

import (
	"testing"

	"github.com/yourusername/soccer-predictor/internal/models"
)

func TestOutcomeSumsToExactlyOneHundred(t *testing.T) {
	calc := NewCalculator()
	pairs := []struct{ home, away float64 }{
		{1500, 1500},
		{1780, 1500},
		{1500, 1780},
		{2500, 1000},
		{1000, 2500},
		{1612.5, 1598.3},
	}
	forms := []struct{ home, away float64 }{{0, 0}, {15, -15}, {-15, 15}, {7, 3}}

	for _, pair := range pairs {
		for _, form := range forms {
			p := calc.Outcome(pair.home, pair.away, form.home, form.away)
			if !p.Valid() {
				t.Fatalf("distribution %+v for ratings %v/%v forms %v/%v does not sum to 100",
					p, pair.home, pair.away, form.home, form.away)
			}
		}
	}
}

func TestOutcomeMonotonicInHomeRating(t *testing.T) {
	calc := NewCalculator()
	prev := -1
	for rating := 1000.0; rating <= 2500.0; rating += 25 {
		p := calc.Outcome(rating, 1600, 0, 0)
		if p.HomeWinPct < prev {
			t.Fatalf("home win pct decreased at rating %v: %d -> %d", rating, prev, p.HomeWinPct)
		}
		prev = p.HomeWinPct
	}
}

func TestHomeAdvantageBreaksTies(t *testing.T) {
	calc := NewCalculator()
	p := calc.Outcome(1500, 1500, 0, 0)
	if p.HomeWinPct <= p.AwayWinPct {
		t.Fatalf("equal ratings must favour the home side: %+v", p)
	}
}

func TestDrawShrinksWithGap(t *testing.T) {
	calc := NewCalculator()
	even := calc.Outcome(1500, 1500, 0, 0)
	lopsided := calc.Outcome(1950, 1500, 0, 0)
	if lopsided.DrawPct >= even.DrawPct {
		t.Fatalf("draw pct should shrink as the gap widens: even %d, lopsided %d",
			even.DrawPct, lopsided.DrawPct)
	}
	// Floor at 25% holds even for extreme gaps.
	extreme := calc.OutcomeFromDiff(5000)
	if extreme.DrawPct != 25 {
		t.Fatalf("draw pct should floor at 25, got %d", extreme.DrawPct)
	}
}

func TestStrongFavouriteEndToEnd(t *testing.T) {
	// Manchester City-equivalent at home against a default-rated side.
	calc := NewCalculator()
	p := calc.Outcome(1780, 1500, 0, 0)
	if p.HomeWinPct <= p.AwayWinPct {
		t.Fatalf("1780 vs 1500 should clearly favour home: %+v", p)
	}

	even := calc.Outcome(1500, 1500, 0, 0)
	if p.DrawPct >= even.DrawPct {
		t.Fatalf("draw pct for a favourite (%d) should be below the even matchup's (%d)",
			p.DrawPct, even.DrawPct)
	}
	if even.DrawPct < 25 {
		t.Fatalf("even matchup draw pct should be at least the 25%% floor, got %d", even.DrawPct)
	}
}

func TestRoundingRemainderGoesToAway(t *testing.T) {
	calc := NewCalculator()
	// diff=125 gives raw shares of home 48.76, draw 27.5, away 23.74.
	// Rounding each bucket independently would sum to 101 (49+28+24);
	// away is the residual bucket and takes 23 instead.
	p := calc.OutcomeFromDiff(125)
	if p.HomeWinPct != 49 || p.DrawPct != 28 {
		t.Fatalf("unexpected rounding: %+v", p)
	}
	if p.AwayWinPct != 23 {
		t.Fatalf("away must absorb the rounding remainder (23, not 24), got %d", p.AwayWinPct)
	}
	if p.HomeWinPct+p.DrawPct+p.AwayWinPct != 100 {
		t.Fatalf("percentages must sum to 100: %+v", p)
	}
}

func TestFormAdjustmentShiftsOutcome(t *testing.T) {
	calc := NewCalculator()
	neutral := calc.Outcome(1600, 1600, 0, 0)
	inForm := calc.Outcome(1600, 1600, 15, -15)
	if inForm.HomeWinPct <= neutral.HomeWinPct {
		t.Fatalf("positive form differential should raise home win pct: %d vs %d",
			inForm.HomeWinPct, neutral.HomeWinPct)
	}
}

func TestConfidence(t *testing.T) {
	uniform := models.OutcomeProbabilities{HomeWinPct: 33, DrawPct: 34, AwayWinPct: 33}
	decisive := models.OutcomeProbabilities{HomeWinPct: 90, DrawPct: 7, AwayWinPct: 3}

	if c := Confidence(uniform); c > 5 {
		t.Fatalf("uniform distribution should have near-zero confidence, got %d", c)
	}
	if c := Confidence(decisive); c < 50 {
		t.Fatalf("decisive distribution should have high confidence, got %d", c)
	}
}
