package datasource

import (
	"context"
	"fmt"
)

// EloSource adapts a StatsProvider to the prediction pipeline's rating
// lookup interface.
type EloSource struct {
	provider StatsProvider
}

// NewEloSource creates a rating source backed by a stats provider
func NewEloSource(provider StatsProvider) *EloSource {
	return &EloSource{provider: provider}
}

// FetchElo returns the provider's current rating for a team
func (s *EloSource) FetchElo(ctx context.Context, team string) (float64, error) {
	if s.provider == nil || !s.provider.IsEnabled() {
		return 0, fmt.Errorf("rating provider unavailable")
	}
	data, err := s.provider.FetchTeam(ctx, team)
	if err != nil {
		return 0, fmt.Errorf("fetching team rating: %w", err)
	}
	return data.Elo, nil
}
