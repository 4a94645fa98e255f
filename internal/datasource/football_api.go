package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const footballAPIName = "football_api"

// FootballAPIClient fetches team ratings, fixtures and results from a
// JSON statistics provider
type FootballAPIClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	enabled bool
	logger  *log.Logger
}

// NewFootballAPIClient creates a new provider client
func NewFootballAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *FootballAPIClient {
	if logger == nil {
		logger = log.Default()
	}
	return &FootballAPIClient{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		enabled: enabled,
		logger:  logger,
	}
}

// Name returns the provider name
func (c *FootballAPIClient) Name() string { return footballAPIName }

// IsEnabled returns whether this provider is enabled
func (c *FootballAPIClient) IsEnabled() bool { return c.enabled }

type teamResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	League string  `json:"league"`
	Elo    float64 `json:"elo"`
	Form   string  `json:"form"`
}

type fixtureResponse struct {
	ID       string    `json:"id"`
	League   string    `json:"league"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	KickOff  time.Time `json:"kick_off"`
}

type resultResponse struct {
	ID        string    `json:"id"`
	League    string    `json:"league"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	HomeShots *int      `json:"home_shots"`
	AwayShots *int      `json:"away_shots"`
	PlayedAt  time.Time `json:"played_at"`
}

// FetchTeam retrieves a team's current rating and form
func (c *FootballAPIClient) FetchTeam(ctx context.Context, name string) (*TeamData, error) {
	endpoint := fmt.Sprintf("%s/teams?name=%s", c.baseURL, url.QueryEscape(name))

	var payload teamResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Name == "" {
		return nil, NewProviderError(footballAPIName, ErrCodeNotFound, "team not found: "+name, ErrNotFound)
	}

	return &TeamData{
		SourceID:  payload.ID,
		Name:      payload.Name,
		League:    payload.League,
		Elo:       payload.Elo,
		Form:      payload.Form,
		FetchedAt: time.Now(),
	}, nil
}

// FetchFixtures retrieves upcoming fixtures for a league
func (c *FootballAPIClient) FetchFixtures(ctx context.Context, league string) ([]FixtureData, error) {
	endpoint := fmt.Sprintf("%s/fixtures?league=%s", c.baseURL, url.QueryEscape(league))

	var payload []fixtureResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	fixtures := make([]FixtureData, 0, len(payload))
	for _, f := range payload {
		fixtures = append(fixtures, FixtureData{
			SourceID: f.ID,
			League:   f.League,
			HomeTeam: f.HomeTeam,
			AwayTeam: f.AwayTeam,
			KickOff:  f.KickOff,
		})
	}
	return fixtures, nil
}

// FetchResults retrieves final results for a league since a given time
func (c *FootballAPIClient) FetchResults(ctx context.Context, league string, since time.Time) ([]ResultData, error) {
	endpoint := fmt.Sprintf("%s/results?league=%s&since=%s",
		c.baseURL, url.QueryEscape(league), url.QueryEscape(since.UTC().Format(time.RFC3339)))

	var payload []resultResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	results := make([]ResultData, 0, len(payload))
	for _, r := range payload {
		results = append(results, ResultData{
			SourceID:  r.ID,
			League:    r.League,
			HomeTeam:  r.HomeTeam,
			AwayTeam:  r.AwayTeam,
			HomeGoals: r.HomeGoals,
			AwayGoals: r.AwayGoals,
			HomeShots: r.HomeShots,
			AwayShots: r.AwayShots,
			PlayedAt:  r.PlayedAt,
		})
	}
	return results, nil
}

func (c *FootballAPIClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return NewProviderError(footballAPIName, ErrCodeInvalidData, "bad request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return NewProviderError(footballAPIName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(footballAPIName, ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewProviderError(footballAPIName, ErrCodeAuthenticationFailed, "check API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(footballAPIName, ErrCodeRateLimitExceeded, "slow down", ErrRateLimitExceeded)
	case resp.StatusCode >= 500:
		return NewProviderError(footballAPIName, ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return NewProviderError(footballAPIName, ErrCodeInvalidData, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(footballAPIName, ErrCodeInvalidData, "malformed response body", err)
	}
	return nil
}
