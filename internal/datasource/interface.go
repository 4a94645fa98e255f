package datasource

import (
	"context"
	"errors"
	"time"
)

// StatsProvider defines the interface for fetching soccer statistics
// from external providers
type StatsProvider interface {
	// FetchTeam retrieves a team's current rating and form
	FetchTeam(ctx context.Context, name string) (*TeamData, error)

	// FetchFixtures retrieves upcoming fixtures for a league
	FetchFixtures(ctx context.Context, league string) ([]FixtureData, error)

	// FetchResults retrieves final results for a league since a given time
	FetchResults(ctx context.Context, league string, since time.Time) ([]ResultData, error)

	// Name returns the name of the provider
	Name() string

	// IsEnabled returns whether this provider is currently enabled
	IsEnabled() bool
}

// TeamData represents normalized team data from any provider
type TeamData struct {
	SourceID  string    `json:"source_id"` // Provider's unique team ID
	Name      string    `json:"name"`
	League    string    `json:"league"`
	Elo       float64   `json:"elo"`
	Form      string    `json:"form"` // Recent results, e.g. "WWDLW"
	FetchedAt time.Time `json:"fetched_at"`
}

// FixtureData represents a normalized upcoming fixture
type FixtureData struct {
	SourceID string    `json:"source_id"`
	League   string    `json:"league"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	KickOff  time.Time `json:"kick_off"`
}

// ResultData represents a normalized final result
type ResultData struct {
	SourceID  string    `json:"source_id"`
	League    string    `json:"league"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	HomeShots *int      `json:"home_shots"`
	AwayShots *int      `json:"away_shots"`
	PlayedAt  time.Time `json:"played_at"`
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Source  string // Provider name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrServerError          = errors.New("server error")
)

// NewProviderError creates a new provider error
func NewProviderError(source, code, message string, err error) ProviderError {
	return ProviderError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
