package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/repository"
)

const defaultSearchLimit = 10

// TeamSearchService resolves user-supplied team names against storage.
// Lookup is exact-match first, then substring search ordered by rating.
type TeamSearchService struct {
	teams      repository.TeamRepository
	normalizer *DataNormalizer
}

// NewTeamSearchService creates a new team search service
func NewTeamSearchService(teams repository.TeamRepository, normalizer *DataNormalizer) *TeamSearchService {
	if normalizer == nil {
		normalizer = NewDataNormalizer(nil)
	}
	return &TeamSearchService{teams: teams, normalizer: normalizer}
}

// Find resolves a name to exactly one team. Exact matches (after alias
// canonicalization) win; otherwise a substring search must produce a
// single candidate.
func (s *TeamSearchService) Find(ctx context.Context, name string) (*models.Team, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, models.ErrTeamNameRequired
	}

	canonical := s.normalizer.CanonicalTeamName(trimmed)

	team, err := s.teams.GetByName(ctx, canonical)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	candidates, err := s.teams.SearchByName(ctx, canonical, 2)
	if err != nil {
		return nil, err
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, models.ErrNotFound
	default:
		return nil, models.ErrAmbiguousTeamName
	}
}

// Search returns teams whose name contains the query, strongest first.
func (s *TeamSearchService) Search(ctx context.Context, query string, limit int) ([]*models.Team, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, models.ErrTeamNameRequired
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return s.teams.SearchByName(ctx, s.normalizer.CanonicalTeamName(trimmed), limit)
}
