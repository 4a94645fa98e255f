package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 1
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, nil)
}

func TestFetchTeam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "Arsenal" {
			t.Errorf("unexpected name query %q", got)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("missing API key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"t1","name":"Arsenal","league":"Premier League","elo":1845.5,"form":"WWDLW"}`))
	}))
	defer server.Close()

	client := NewFootballAPIClient(newTestClient(), server.URL, "secret", true, nil)
	team, err := client.FetchTeam(context.Background(), "Arsenal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.Elo != 1845.5 {
		t.Errorf("expected elo 1845.5, got %f", team.Elo)
	}
	if team.Form != "WWDLW" {
		t.Errorf("expected form WWDLW, got %s", team.Form)
	}
}

func TestFetchTeamNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewFootballAPIClient(newTestClient(), server.URL, "", true, nil)
	_, err := client.FetchTeam(context.Background(), "Nowhere FC")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchTeamAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewFootballAPIClient(newTestClient(), server.URL, "wrong", true, nil)
	_, err := client.FetchTeam(context.Background(), "Arsenal")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestFetchFixtures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("league"); got != "Premier League" {
			t.Errorf("unexpected league query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"f1","league":"Premier League","home_team":"Arsenal","away_team":"Chelsea","kick_off":"2026-09-12T15:00:00Z"},
			{"id":"f2","league":"Premier League","home_team":"Liverpool","away_team":"Everton","kick_off":"2026-09-13T16:30:00Z"}
		]`))
	}))
	defer server.Close()

	client := NewFootballAPIClient(newTestClient(), server.URL, "", true, nil)
	fixtures, err := client.FetchFixtures(context.Background(), "Premier League")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(fixtures))
	}
	if fixtures[0].HomeTeam != "Arsenal" {
		t.Errorf("unexpected home team %s", fixtures[0].HomeTeam)
	}
}

func TestFetchResultsPropagatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewFootballAPIClient(newTestClient(), server.URL, "", true, nil)
	_, err := client.FetchResults(context.Background(), "Premier League", time.Now().Add(-24*time.Hour))
	if !errors.Is(err, ErrServerError) {
		t.Fatalf("expected ErrServerError, got %v", err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"t1","name":"Arsenal","league":"Premier League","elo":1845,"form":"WWWWW"}`))
	}))
	defer server.Close()

	client := NewFootballAPIClient(newTestClient(), server.URL, "", true, nil)
	team, err := client.FetchTeam(context.Background(), "Arsenal")
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if team.Elo != 1845 {
		t.Errorf("expected elo 1845, got %f", team.Elo)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls (one retry), got %d", calls)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 1
	client := NewRateLimitedHTTPClient(cfg, nil)

	// Unroutable endpoint forces a network error.
	_, err := client.Get(context.Background(), "http://127.0.0.1:1/nope")
	if err == nil {
		t.Fatal("expected network error")
	}

	_, err = client.Get(context.Background(), "http://127.0.0.1:1/nope")
	if err == nil || !containsCircuitOpen(err.Error()) {
		t.Fatalf("expected circuit breaker open error, got %v", err)
	}
}

func containsCircuitOpen(s string) bool {
	const marker = "circuit breaker open"
	for i := 0; i+len(marker) <= len(s); i++ {
		if s[i:i+len(marker)] == marker {
			return true
		}
	}
	return false
}

func TestEloSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"t2","name":"Real Madrid","league":"La Liga","elo":1972,"form":"WWWDW"}`))
	}))
	defer server.Close()

	client := NewFootballAPIClient(newTestClient(), server.URL, "", true, nil)
	source := NewEloSource(client)

	elo, err := source.FetchElo(context.Background(), "Real Madrid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elo != 1972 {
		t.Errorf("expected elo 1972, got %f", elo)
	}
}

func TestEloSourceDisabledProvider(t *testing.T) {
	client := NewFootballAPIClient(newTestClient(), "http://example.invalid", "", false, nil)
	source := NewEloSource(client)

	if _, err := source.FetchElo(context.Background(), "Arsenal"); err == nil {
		t.Fatal("expected error for disabled provider")
	}
}
