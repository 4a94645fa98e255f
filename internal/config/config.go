// Package config provides configuration management for the soccer predictor service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Ratings    RatingsConfig    `mapstructure:"ratings" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	LiveScores LiveScoresConfig `mapstructure:"live_scores"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds" validate:"required,gt=0"`
}

// RatingsConfig represents the rating engine configuration
type RatingsConfig struct {
	KFactor            float64            `mapstructure:"k_factor" validate:"required,gt=0"`
	HomeAdvantage      float64            `mapstructure:"home_advantage" validate:"gte=0"`
	DecayAfterDays     int                `mapstructure:"decay_after_days" validate:"gte=0"`
	LeagueCoefficients map[string]float64 `mapstructure:"league_coefficients"`
}

// PredictionConfig represents prediction pipeline configuration
type PredictionConfig struct {
	CacheTTLSeconds        int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize           int `mapstructure:"cache_max_size" validate:"required,gt=0"`
	UpstreamTimeoutSeconds int `mapstructure:"upstream_timeout_seconds" validate:"required,gt=0"`
	ScorelineCount         int `mapstructure:"scoreline_count" validate:"gte=0,lte=20"`
}

// SimulationConfig represents Monte Carlo simulation configuration
type SimulationConfig struct {
	DefaultTrials   int `mapstructure:"default_trials" validate:"required,gt=0"`
	MaxTrials       int `mapstructure:"max_trials" validate:"required,gt=0"`
	RelegationSpots int `mapstructure:"relegation_spots" validate:"gte=0"`
}

// UpstreamConfig represents the external statistics provider configuration
type UpstreamConfig struct {
	BaseURL           string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey            string `mapstructure:"api_key"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RetryAttempts     int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSec   int    `mapstructure:"rate_limit_per_sec" validate:"gte=0"`
	CircuitBreakerMax int    `mapstructure:"circuit_breaker_max" validate:"gte=0"`
}

// LiveScoresConfig represents the live result stream configuration
type LiveScoresConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	StreamURL           string `mapstructure:"stream_url"`
	ReconnectMaxSeconds int    `mapstructure:"reconnect_max_seconds" validate:"gte=0"`
	PingIntervalSeconds int    `mapstructure:"ping_interval_seconds" validate:"gte=0"`
}

// SchedulerConfig represents background job scheduling
type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	RatingDecayCron   string `mapstructure:"rating_decay_cron"`
	UpstreamSyncCron  string `mapstructure:"upstream_sync_cron"`
	SettlePendingCron string `mapstructure:"settle_pending_cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ServerAddr returns the host:port address for the API server
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// UpstreamTimeout returns the upstream request timeout as a duration
func (c *Config) UpstreamTimeout() time.Duration {
	if c.Upstream.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// PredictionCacheTTL returns the prediction cache TTL as a duration
func (c *Config) PredictionCacheTTL() time.Duration {
	return time.Duration(c.Prediction.CacheTTLSeconds) * time.Second
}
