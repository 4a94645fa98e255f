package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/soccer-predictor/internal/config"
)

// Factory creates StatsProvider implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new provider factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewStatsProvider creates the configured upstream provider.
// Returns nil without error when no upstream is configured.
func (f *Factory) NewStatsProvider() (StatsProvider, error) {
	upstream := f.config.Upstream
	if upstream.BaseURL == "" {
		return nil, nil
	}

	httpCfg := DefaultHTTPClientConfig()
	if upstream.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(upstream.TimeoutSeconds) * time.Second
	}
	if upstream.RetryAttempts > 0 {
		httpCfg.MaxRetries = upstream.RetryAttempts
	}
	if upstream.RateLimitPerSec > 0 {
		httpCfg.RateLimit = float64(upstream.RateLimitPerSec)
	}
	if upstream.CircuitBreakerMax > 0 {
		httpCfg.CircuitBreakerMax = upstream.CircuitBreakerMax
	}

	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)
	return NewFootballAPIClient(httpClient, upstream.BaseURL, upstream.APIKey, true, f.logger), nil
}

// NewRatingSource builds the prediction rating lookup from the
// configured provider
func (f *Factory) NewRatingSource() (*EloSource, error) {
	provider, err := f.NewStatsProvider()
	if err != nil {
		return nil, fmt.Errorf("building stats provider: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return NewEloSource(provider), nil
}
