package ratings

import (
	"math"
	"testing"
	"time"
)

func TestExpectedScoreEvenMatchup(t *testing.T) {
	s := NewSystem(DefaultConfig())

	home, away := s.ExpectedScore(1500, 1500, false)
	if math.Abs(home-0.5) > 1e-9 || math.Abs(away-0.5) > 1e-9 {
		t.Fatalf("even matchup without home advantage should be 50/50, got %v/%v", home, away)
	}

	home, away = s.ExpectedScore(1500, 1500, true)
	if home <= away {
		t.Fatalf("home advantage should favour the home side, got %v/%v", home, away)
	}
	if math.Abs(home+away-1.0) > 1e-9 {
		t.Fatalf("expected scores should sum to 1")
	}
}

func TestApplyResultWinnerGains(t *testing.T) {
	s := NewSystem(Config{KFactor: DefaultKFactor, HomeAdvantage: DefaultHomeAdvantage})

	before := s.Elo("Alpha")
	newHome, newAway := s.ApplyResult("Alpha", "Beta", 2, 0, "")
	if newHome <= before {
		t.Fatalf("winner should gain rating: %v -> %v", before, newHome)
	}
	if newAway >= DefaultElo {
		t.Fatalf("loser should lose rating, got %v", newAway)
	}
}

func TestApplyResultBlowoutMovesMore(t *testing.T) {
	narrow := NewSystem(Config{KFactor: DefaultKFactor, HomeAdvantage: DefaultHomeAdvantage})
	blowout := NewSystem(Config{KFactor: DefaultKFactor, HomeAdvantage: DefaultHomeAdvantage})

	narrowHome, _ := narrow.ApplyResult("A", "B", 1, 0, "")
	blowoutHome, _ := blowout.ApplyResult("A", "B", 5, 0, "")
	if blowoutHome-DefaultElo <= narrowHome-DefaultElo {
		t.Fatalf("bigger win should move rating more: narrow %v, blowout %v", narrowHome, blowoutHome)
	}
}

func TestApplyResultUpsetBoost(t *testing.T) {
	s := NewSystem(Config{KFactor: DefaultKFactor, HomeAdvantage: DefaultHomeAdvantage})
	s.Set("Giant", "", 2000)
	s.Set("Minnow", "", 1400)

	before := s.Elo("Minnow")
	// Away upset by two goals.
	_, newAway := s.ApplyResult("Giant", "Minnow", 0, 2, "")
	gain := newAway - before
	if gain <= DefaultKFactor {
		t.Fatalf("upset with margin should beat the base K gain, got %v", gain)
	}
}

func TestApplyResultClampsRatings(t *testing.T) {
	s := NewSystem(Config{KFactor: 10000, HomeAdvantage: DefaultHomeAdvantage})
	s.Set("Strong", "", 2400)
	s.Set("Weak", "", 1100)

	newHome, newAway := s.ApplyResult("Weak", "Strong", 9, 0, "")
	if newHome > MaxElo || newAway < MinElo {
		t.Fatalf("ratings must stay within [%v, %v], got %v and %v", MinElo, MaxElo, newHome, newAway)
	}
}

func TestApplyDecay(t *testing.T) {
	s := NewSystem(Config{KFactor: DefaultKFactor, HomeAdvantage: DefaultHomeAdvantage})
	s.Set("Stale", "", 1900)

	// Age the entry artificially.
	s.mu.Lock()
	s.ratings["Stale"].LastUpdated = time.Now().Add(-365 * 24 * time.Hour)
	s.mu.Unlock()

	decayed := s.ApplyDecay(180 * 24 * time.Hour)
	if decayed != 1 {
		t.Fatalf("expected exactly one decayed team, got %d", decayed)
	}
	want := 1900 - (1900-DefaultElo)*0.05
	if got := s.Elo("Stale"); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected decayed rating %v, got %v", want, got)
	}
}

func TestRankingsOrderAndLimit(t *testing.T) {
	s := NewSystem(DefaultConfig())

	top := s.Rankings(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Team != "Real Madrid" {
		t.Fatalf("expected Real Madrid on top of the seeded table, got %s", top[0].Team)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Elo > top[i-1].Elo {
			t.Fatalf("rankings not sorted descending at index %d", i)
		}
	}
}
