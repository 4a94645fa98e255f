package ratings

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Rating is the mutable rating state for one team inside the System.
type Rating struct {
	Team        string    `json:"team"`
	League      string    `json:"league,omitempty"`
	Elo         float64   `json:"elo"`
	HomeElo     float64   `json:"home_elo"`
	AwayElo     float64   `json:"away_elo"`
	Matches     int       `json:"matches"`
	LastUpdated time.Time `json:"last_updated"`
}

// System maintains live ELO ratings updated from match results.
// Safe for concurrent use.
type System struct {
	cfg     Config
	mu      sync.RWMutex
	ratings map[string]*Rating
	now     func() time.Time
}

// NewSystem creates a rating system pre-seeded from the config's
// baseline table.
func NewSystem(cfg Config) *System {
	s := &System{
		cfg:     cfg,
		ratings: make(map[string]*Rating, len(cfg.BaselineRatings)),
		now:     time.Now,
	}
	for team, elo := range cfg.BaselineRatings {
		s.ratings[team] = &Rating{
			Team:        team,
			Elo:         elo,
			HomeElo:     elo,
			AwayElo:     elo,
			LastUpdated: s.now(),
		}
	}
	return s
}

// Get returns the rating entry for a team, creating a default entry if
// the team is unknown.
func (s *System) Get(team string) Rating {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getLocked(team, "")
}

// Elo returns the team's current ELO value.
func (s *System) Elo(team string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(team, "").Elo
}

// Set overrides a team's ELO value, e.g. from an authoritative
// upstream source.
func (s *System) Set(team, league string, elo float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.getLocked(team, league)
	r.Elo = clampElo(elo)
	r.LastUpdated = s.now()
}

func (s *System) getLocked(team, league string) *Rating {
	if r, ok := s.ratings[team]; ok {
		return r
	}
	r := &Rating{
		Team:        team,
		League:      league,
		Elo:         DefaultElo,
		HomeElo:     DefaultElo,
		AwayElo:     DefaultElo,
		LastUpdated: s.now(),
	}
	s.ratings[team] = r
	return r
}

// ExpectedScore returns the expected match score for both sides using
// the standard logistic curve on the rating difference, optionally with
// the home-advantage offset applied.
func (s *System) ExpectedScore(homeElo, awayElo float64, includeHomeAdvantage bool) (float64, float64) {
	if includeHomeAdvantage {
		homeElo += s.cfg.HomeAdvantage
	}
	home := 1.0 / (1.0 + math.Pow(10, -(homeElo-awayElo)/400))
	return home, 1.0 - home
}

// goalDifferenceMultiplier scales the K-factor by the margin of
// victory. Upset wins by the lower-rated side get an extra boost.
func goalDifferenceMultiplier(goalDiff int, winnerElo, loserElo float64) float64 {
	abs := goalDiff
	if abs < 0 {
		abs = -abs
	}
	var mult float64
	switch {
	case abs <= 1:
		mult = 1.0
	case abs == 2:
		mult = 1.5
	case abs == 3:
		mult = 1.75
	default:
		mult = 1.75 + float64(abs-3)*0.125
	}
	if loserElo > winnerElo {
		boost := 1.0 + math.Min(0.3, (loserElo-winnerElo)/500)
		mult *= boost
	}
	return mult
}

// ApplyResult updates both teams' ratings after a played match and
// returns the new home and away ELO values.
func (s *System) ApplyResult(homeTeam, awayTeam string, homeGoals, awayGoals int, league string) (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	home := s.getLocked(homeTeam, league)
	away := s.getLocked(awayTeam, league)

	homeExpected, awayExpected := s.expectedLocked(home.Elo, away.Elo)

	var homeActual, awayActual, gdMult float64
	switch {
	case homeGoals > awayGoals:
		homeActual, awayActual = 1.0, 0.0
		gdMult = goalDifferenceMultiplier(homeGoals-awayGoals, home.Elo, away.Elo)
	case homeGoals < awayGoals:
		homeActual, awayActual = 0.0, 1.0
		gdMult = goalDifferenceMultiplier(awayGoals-homeGoals, away.Elo, home.Elo)
	default:
		homeActual, awayActual = 0.5, 0.5
		gdMult = 1.0
	}

	k := s.cfg.KFactor * gdMult * s.cfg.LeagueCoefficient(league)

	home.Elo = clampElo(home.Elo + k*(homeActual-homeExpected))
	away.Elo = clampElo(away.Elo + k*(awayActual-awayExpected))

	// Venue-specific ratings track an exponential blend of overall ELO.
	home.HomeElo = 0.7*home.HomeElo + 0.3*home.Elo
	away.AwayElo = 0.7*away.AwayElo + 0.3*away.Elo

	now := s.now()
	home.Matches++
	away.Matches++
	home.LastUpdated = now
	away.LastUpdated = now

	return home.Elo, away.Elo
}

func (s *System) expectedLocked(homeElo, awayElo float64) (float64, float64) {
	homeElo += s.cfg.HomeAdvantage
	home := 1.0 / (1.0 + math.Pow(10, -(homeElo-awayElo)/400))
	return home, 1.0 - home
}

// ApplyDecay moves ratings of teams inactive for longer than the given
// window 5% toward the default rating.
func (s *System) ApplyDecay(inactiveFor time.Duration) int {
	const decayRate = 0.05

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	decayed := 0
	for _, r := range s.ratings {
		if now.Sub(r.LastUpdated) <= inactiveFor {
			continue
		}
		r.Elo -= (r.Elo - DefaultElo) * decayRate
		decayed++
	}
	return decayed
}

func clampElo(elo float64) float64 {
	return math.Max(MinElo, math.Min(MaxElo, elo))
}

// Rankings returns all rated teams ordered by ELO descending. A
// non-positive topN returns the full list.
func (s *System) Rankings(topN int) []Rating {
	s.mu.RLock()
	ranked := make([]Rating, 0, len(s.ratings))
	for _, r := range s.ratings {
		ranked = append(ranked, *r)
	}
	s.mu.RUnlock()

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Elo != ranked[j].Elo {
			return ranked[i].Elo > ranked[j].Elo
		}
		return ranked[i].Team < ranked[j].Team
	})
	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked
}
