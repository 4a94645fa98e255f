// Package analytics derives league level statistics from played
// matches: scoring averages, result splits, distributions and trends.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/regression"
)

// MatchStore supplies played matches for a league.
type MatchStore interface {
	ListPlayedByLeague(ctx context.Context, league string, limit int) ([]models.Match, error)
}

// Service computes analytics over stored results.
type Service struct {
	store  MatchStore
	logger *logrus.Logger
}

func NewService(store MatchStore, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{store: store, logger: logger}
}

// LeagueOverview is the headline summary for one league.
type LeagueOverview struct {
	League          string  `json:"league"`
	Matches         int     `json:"matches"`
	AvgGoals        float64 `json:"avg_goals_per_match"`
	AvgHomeGoals    float64 `json:"avg_home_goals"`
	AvgAwayGoals    float64 `json:"avg_away_goals"`
	HomeWinRate     float64 `json:"home_win_rate"`
	DrawRate        float64 `json:"draw_rate"`
	AwayWinRate     float64 `json:"away_win_rate"`
	BTTSRate        float64 `json:"btts_rate"`
	Over25Rate      float64 `json:"over25_rate"`
	CleanSheetRate  float64 `json:"clean_sheet_rate"`
	HighestScoring  string  `json:"highest_scoring,omitempty"`
	HighestScoreSum int     `json:"highest_score_sum,omitempty"`
}

// Overview summarises all played matches in a league.
func (s *Service) Overview(ctx context.Context, league string) (*LeagueOverview, error) {
	matches, err := s.playedMatches(ctx, league)
	if err != nil {
		return nil, err
	}

	overview := &LeagueOverview{League: league, Matches: len(matches)}
	if len(matches) == 0 {
		return overview, nil
	}

	var homeGoals, awayGoals, homeWins, draws, awayWins, btts, over25, cleanSheets int
	for i := range matches {
		m := &matches[i]
		hg, ag := *m.HomeGoals, *m.AwayGoals
		homeGoals += hg
		awayGoals += ag
		switch m.HomeOutcome() {
		case models.OutcomeWin:
			homeWins++
		case models.OutcomeLoss:
			awayWins++
		default:
			draws++
		}
		if hg > 0 && ag > 0 {
			btts++
		}
		if hg+ag > 2 {
			over25++
		}
		if hg == 0 || ag == 0 {
			cleanSheets++
		}
		if hg+ag > overview.HighestScoreSum {
			overview.HighestScoreSum = hg + ag
			overview.HighestScoring = fmt.Sprintf("%s %d-%d %s", m.HomeTeam, hg, ag, m.AwayTeam)
		}
	}

	n := float64(len(matches))
	overview.AvgHomeGoals = float64(homeGoals) / n
	overview.AvgAwayGoals = float64(awayGoals) / n
	overview.AvgGoals = float64(homeGoals+awayGoals) / n
	overview.HomeWinRate = float64(homeWins) / n
	overview.DrawRate = float64(draws) / n
	overview.AwayWinRate = float64(awayWins) / n
	overview.BTTSRate = float64(btts) / n
	overview.Over25Rate = float64(over25) / n
	overview.CleanSheetRate = float64(cleanSheets) / n
	return overview, nil
}

// GoalsDistribution maps total goals per match to its frequency.
func (s *Service) GoalsDistribution(ctx context.Context, league string) (map[int]float64, error) {
	matches, err := s.playedMatches(ctx, league)
	if err != nil {
		return nil, err
	}
	dist := make(map[int]float64)
	if len(matches) == 0 {
		return dist, nil
	}
	for i := range matches {
		dist[*matches[i].HomeGoals+*matches[i].AwayGoals]++
	}
	n := float64(len(matches))
	for total := range dist {
		dist[total] /= n
	}
	return dist, nil
}

// TrendPoint is one bucket in a season trend series.
type TrendPoint struct {
	Bucket   int     `json:"bucket"`
	Matches  int     `json:"matches"`
	AvgGoals float64 `json:"avg_goals"`
}

// SeasonTrend buckets matches chronologically and reports scoring per
// bucket, plus a fitted slope in goals per bucket.
func (s *Service) SeasonTrend(ctx context.Context, league string, buckets int) ([]TrendPoint, float64, error) {
	if buckets <= 0 {
		buckets = 10
	}
	matches, err := s.playedMatches(ctx, league)
	if err != nil {
		return nil, 0, err
	}
	if len(matches) == 0 {
		return nil, 0, nil
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].KickOff.Before(matches[b].KickOff)
	})
	if buckets > len(matches) {
		buckets = len(matches)
	}

	points := make([]TrendPoint, buckets)
	per := len(matches) / buckets
	rem := len(matches) % buckets
	idx := 0
	for b := 0; b < buckets; b++ {
		size := per
		if b < rem {
			size++
		}
		var goals int
		for i := 0; i < size; i++ {
			goals += *matches[idx].HomeGoals + *matches[idx].AwayGoals
			idx++
		}
		points[b] = TrendPoint{Bucket: b + 1, Matches: size}
		if size > 0 {
			points[b].AvgGoals = float64(goals) / float64(size)
		}
	}

	sample := make([]regression.Point, 0, buckets)
	for _, p := range points {
		if p.Matches > 0 {
			sample = append(sample, regression.Point{X: float64(p.Bucket), Y: p.AvgGoals})
		}
	}
	fit := regression.Fit(sample)
	return points, fit.Slope, nil
}

// ShotsModel relates shots taken to goals scored across a league.
type ShotsModel struct {
	League       string  `json:"league"`
	Samples      int     `json:"samples"`
	GoalsPerShot float64 `json:"goals_per_shot"`
	Intercept    float64 `json:"intercept"`
	RSquared     float64 `json:"r_squared"`
}

// GoalsPerShot regresses goals on shots over every team-match with
// shot data. Matches without shot counts are skipped.
func (s *Service) GoalsPerShot(ctx context.Context, league string) (*ShotsModel, error) {
	matches, err := s.playedMatches(ctx, league)
	if err != nil {
		return nil, err
	}

	var sample []regression.Point
	for i := range matches {
		m := &matches[i]
		if m.HomeShots != nil {
			sample = append(sample, regression.Point{X: float64(*m.HomeShots), Y: float64(*m.HomeGoals)})
		}
		if m.AwayShots != nil {
			sample = append(sample, regression.Point{X: float64(*m.AwayShots), Y: float64(*m.AwayGoals)})
		}
	}

	fit := regression.Fit(sample)
	return &ShotsModel{
		League:       league,
		Samples:      len(sample),
		GoalsPerShot: fit.Slope,
		Intercept:    fit.Intercept,
		RSquared:     fit.RSquared,
	}, nil
}

// FitSeries runs an ordinary least squares fit over caller supplied
// points, for the regression API endpoint.
func (s *Service) FitSeries(points []regression.Point) regression.Result {
	return regression.Fit(points)
}

func (s *Service) playedMatches(ctx context.Context, league string) ([]models.Match, error) {
	matches, err := s.store.ListPlayedByLeague(ctx, league, 0)
	if err != nil {
		return nil, fmt.Errorf("listing played matches: %w", err)
	}
	played := matches[:0]
	for i := range matches {
		if matches[i].IsPlayed() {
			played = append(played, matches[i])
		}
	}
	return played, nil
}
