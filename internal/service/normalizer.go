package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/soccer-predictor/internal/datasource"
	"github.com/yourusername/soccer-predictor/internal/models"
)

// DataNormalizer normalizes upstream payloads to the internal match model.
// Providers abbreviate club names inconsistently, so names go through a
// canonical alias map before anything touches storage or ratings.
type DataNormalizer struct {
	teamNameMap map[string]string
	logger      *log.Logger
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *log.Logger) *DataNormalizer {
	return &DataNormalizer{
		teamNameMap: buildTeamNameMap(),
		logger:      logger,
	}
}

// NormalizeResult converts ResultData from any provider to an internal Match
func (n *DataNormalizer) NormalizeResult(result *datasource.ResultData, season string) (*models.Match, error) {
	if result == nil {
		return nil, fmt.Errorf("source result is nil")
	}

	homeGoals := result.HomeGoals
	awayGoals := result.AwayGoals
	playedAt := result.PlayedAt.UTC()

	match := &models.Match{
		League:    strings.TrimSpace(result.League),
		Season:    season,
		HomeTeam:  n.CanonicalTeamName(result.HomeTeam),
		AwayTeam:  n.CanonicalTeamName(result.AwayTeam),
		HomeGoals: &homeGoals,
		AwayGoals: &awayGoals,
		HomeShots: result.HomeShots,
		AwayShots: result.AwayShots,
		KickOff:   playedAt,
		Status:    "played",
		PlayedAt:  &playedAt,
	}

	return match, nil
}

// NormalizeFixture converts FixtureData from any provider to an internal Match
func (n *DataNormalizer) NormalizeFixture(fixture *datasource.FixtureData, season string) (*models.Match, error) {
	if fixture == nil {
		return nil, fmt.Errorf("source fixture is nil")
	}

	match := &models.Match{
		League:   strings.TrimSpace(fixture.League),
		Season:   season,
		HomeTeam: n.CanonicalTeamName(fixture.HomeTeam),
		AwayTeam: n.CanonicalTeamName(fixture.AwayTeam),
		KickOff:  fixture.KickOff.UTC(),
		Status:   "scheduled",
	}

	return match, nil
}

// CanonicalTeamName maps provider spellings to a single canonical club name
func (n *DataNormalizer) CanonicalTeamName(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := n.teamNameMap[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// CurrentSeason derives the season label for a kickoff date, e.g. "2026-27".
// European seasons roll over in July.
func CurrentSeason(at time.Time) string {
	year := at.Year()
	if at.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

func buildTeamNameMap() map[string]string {
	return map[string]string{
		"man utd":           "Manchester United",
		"man united":        "Manchester United",
		"manchester utd":    "Manchester United",
		"man city":          "Manchester City",
		"spurs":             "Tottenham Hotspur",
		"tottenham":         "Tottenham Hotspur",
		"wolves":            "Wolverhampton Wanderers",
		"newcastle":         "Newcastle United",
		"west ham":          "West Ham United",
		"brighton":          "Brighton & Hove Albion",
		"nottm forest":      "Nottingham Forest",
		"leeds":             "Leeds United",
		"atletico":          "Atletico Madrid",
		"atletico de madrid": "Atletico Madrid",
		"real":              "Real Madrid",
		"barca":             "Barcelona",
		"fc barcelona":      "Barcelona",
		"bayern":            "Bayern Munich",
		"fc bayern munchen": "Bayern Munich",
		"dortmund":          "Borussia Dortmund",
		"bvb":               "Borussia Dortmund",
		"gladbach":          "Borussia Monchengladbach",
		"inter milan":       "Inter",
		"internazionale":    "Inter",
		"ac milan":          "Milan",
		"juve":              "Juventus",
		"psg":               "Paris Saint-Germain",
		"paris sg":          "Paris Saint-Germain",
		"om":                "Marseille",
		"olympique marseille": "Marseille",
	}
}
