package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/soccer-predictor/internal/datasource"
	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/ratings"
	"github.com/yourusername/soccer-predictor/internal/repository"
)

// SyncService pulls fixtures and final results from the upstream stats
// provider, writes them through the repositories, and keeps the rating
// system in step with every recorded result.
type SyncService struct {
	provider   datasource.StatsProvider
	teams      repository.TeamRepository
	matches    repository.MatchRepository
	standings  repository.StandingsRepository
	elo        *ratings.System
	validator  *DataValidator
	normalizer *DataNormalizer
	metrics    *SyncMetrics
	logger     *log.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(
	provider datasource.StatsProvider,
	repos *repository.Repositories,
	elo *ratings.System,
	logger *log.Logger,
) *SyncService {
	return &SyncService{
		provider:   provider,
		teams:      repos.Team,
		matches:    repos.Match,
		standings:  repos.Standings,
		elo:        elo,
		validator:  NewDataValidator(logger),
		normalizer: NewDataNormalizer(logger),
		metrics:    NewSyncMetrics(),
		logger:     logger,
	}
}

// SyncResults fetches final results for a league since the given time,
// records them, applies rating updates, and rebuilds the league table.
func (s *SyncService) SyncResults(ctx context.Context, league string, since time.Time) (*SyncMetrics, error) {
	if s.provider == nil || !s.provider.IsEnabled() {
		return nil, fmt.Errorf("no upstream provider configured")
	}

	s.metrics.Reset()
	startTime := time.Now()

	s.logger.Printf("Starting result sync for %s since %s from %s",
		league, since.Format("2006-01-02"), s.provider.Name())

	results, err := s.provider.FetchResults(ctx, league, since)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch results: %w", err)
	}

	s.metrics.TotalResults = len(results)
	season := ""

	for i := range results {
		result := &results[i]

		if problems := s.validator.ValidateResult(result); len(problems) > 0 {
			s.metrics.RecordValidationError()
			s.logger.Printf("Skipping invalid result %s vs %s: %s",
				result.HomeTeam, result.AwayTeam, strings.Join(problems, "; "))
			continue
		}

		season = CurrentSeason(result.PlayedAt)
		match, err := s.normalizer.NormalizeResult(result, season)
		if err != nil {
			s.metrics.RecordError()
			continue
		}

		if err := s.recordResult(ctx, match); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Failed to record %s vs %s: %v", match.HomeTeam, match.AwayTeam, err)
			continue
		}

		s.metrics.RecordResult()
	}

	if season != "" && s.metrics.RecordedResults > 0 {
		if err := s.standings.RebuildFromMatches(ctx, league, season); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Failed to rebuild standings for %s %s: %v", league, season, err)
		}
	}

	s.metrics.Duration = time.Since(startTime)
	s.logger.Printf("Result sync complete: %s", s.metrics.String())

	return s.metrics, nil
}

// SyncFixtures fetches upcoming fixtures for a league and stores the ones
// not already known.
func (s *SyncService) SyncFixtures(ctx context.Context, league string) (*SyncMetrics, error) {
	if s.provider == nil || !s.provider.IsEnabled() {
		return nil, fmt.Errorf("no upstream provider configured")
	}

	s.metrics.Reset()
	startTime := time.Now()

	fixtures, err := s.provider.FetchFixtures(ctx, league)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch fixtures: %w", err)
	}

	s.metrics.TotalFixtures = len(fixtures)

	known, err := s.knownUpcoming(ctx, league)
	if err != nil {
		return s.metrics, err
	}

	for i := range fixtures {
		fixture := &fixtures[i]

		if problems := s.validator.ValidateFixture(fixture); len(problems) > 0 {
			s.metrics.RecordValidationError()
			continue
		}

		match, err := s.normalizer.NormalizeFixture(fixture, CurrentSeason(fixture.KickOff))
		if err != nil {
			s.metrics.RecordError()
			continue
		}

		if _, exists := known[fixtureKey(match.HomeTeam, match.AwayTeam, match.KickOff)]; exists {
			s.metrics.RecordDuplicate()
			continue
		}

		if err := s.ensureTeams(ctx, match); err != nil {
			s.metrics.RecordError()
			continue
		}

		if err := s.matches.Create(ctx, match); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Failed to create fixture %s vs %s: %v", match.HomeTeam, match.AwayTeam, err)
			continue
		}

		s.metrics.RecordFixture()
	}

	s.metrics.Duration = time.Since(startTime)
	s.logger.Printf("Fixture sync complete: %s", s.metrics.String())

	return s.metrics, nil
}

// SyncTeam refreshes a single team's rating from the provider.
func (s *SyncService) SyncTeam(ctx context.Context, name string) error {
	if s.provider == nil || !s.provider.IsEnabled() {
		return fmt.Errorf("no upstream provider configured")
	}

	data, err := s.provider.FetchTeam(ctx, s.normalizer.CanonicalTeamName(name))
	if err != nil {
		return fmt.Errorf("failed to fetch team %s: %w", name, err)
	}

	canonical := s.normalizer.CanonicalTeamName(data.Name)
	s.elo.Set(canonical, data.League, data.Elo)

	return s.persistRating(ctx, canonical)
}

func (s *SyncService) recordResult(ctx context.Context, match *models.Match) error {
	if err := s.ensureTeams(ctx, match); err != nil {
		return err
	}

	if err := s.matches.Create(ctx, match); err != nil {
		return err
	}

	s.elo.ApplyResult(match.HomeTeam, match.AwayTeam, *match.HomeGoals, *match.AwayGoals, match.League)

	if err := s.persistRating(ctx, match.HomeTeam); err != nil {
		return err
	}
	return s.persistRating(ctx, match.AwayTeam)
}

func (s *SyncService) ensureTeams(ctx context.Context, match *models.Match) error {
	for _, name := range []string{match.HomeTeam, match.AwayTeam} {
		if err := s.ensureTeam(ctx, name, match.League); err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) ensureTeam(ctx context.Context, name, league string) error {
	_, err := s.teams.GetByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	rating := s.elo.Get(name)
	team := &models.Team{
		Name:        name,
		League:      league,
		Elo:         rating.Elo,
		HomeElo:     rating.HomeElo,
		AwayElo:     rating.AwayElo,
		Matches:     rating.Matches,
		LastUpdated: time.Now().UTC(),
	}

	if err := s.teams.Create(ctx, team); err != nil {
		return err
	}

	s.metrics.RecordNewTeam()
	return nil
}

func (s *SyncService) persistRating(ctx context.Context, name string) error {
	rating := s.elo.Get(name)

	team := &models.Team{
		Name:        name,
		League:      rating.League,
		Elo:         rating.Elo,
		HomeElo:     rating.HomeElo,
		AwayElo:     rating.AwayElo,
		Matches:     rating.Matches,
		LastUpdated: rating.LastUpdated,
	}

	err := s.teams.UpdateRating(ctx, team)
	if errors.Is(err, models.ErrNotFound) {
		return s.teams.Create(ctx, team)
	}
	return err
}

func (s *SyncService) knownUpcoming(ctx context.Context, league string) (map[string]struct{}, error) {
	upcoming, err := s.matches.ListUpcomingByLeague(ctx, league, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming matches: %w", err)
	}

	known := make(map[string]struct{}, len(upcoming))
	for i := range upcoming {
		known[fixtureKey(upcoming[i].HomeTeam, upcoming[i].AwayTeam, upcoming[i].KickOff)] = struct{}{}
	}
	return known, nil
}

func fixtureKey(home, away string, kickOff time.Time) string {
	return fmt.Sprintf("%s|%s|%d", home, away, kickOff.UTC().Truncate(time.Minute).Unix())
}
