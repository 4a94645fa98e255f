// Package metrics provides the centralized Prometheus metrics registry
// for the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "predictions_total",
		Help:      "Total number of match predictions served",
	})
	PredictionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	PredictionCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "prediction_cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
	SimulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "simulations_total",
		Help:      "Total number of season simulations run",
	})
	UpstreamFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "upstream_failures_total",
		Help:      "Total number of failed upstream rating fetches",
	})
	RatingUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "rating_updates_total",
		Help:      "Total number of post-match rating updates applied",
	})
	LiveResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "live_results_total",
		Help:      "Total number of finished-match results received on the live stream",
	})
)

// Gauge metrics
var (
	TrackedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "soccer_predictor",
		Name:      "tracked_teams",
		Help:      "Number of teams with a live rating entry",
	})
	PredictionAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "soccer_predictor",
		Name:      "prediction_winner_accuracy",
		Help:      "Fraction of settled predictions with the correct winner",
	})
	PredictionBrierScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "soccer_predictor",
		Name:      "prediction_brier_score",
		Help:      "Brier score over settled predictions (lower is better)",
	})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "soccer_predictor",
		Name:      "prediction_duration_seconds",
		Help:      "Duration of prediction computation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "soccer_predictor",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of season simulation runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
)

// HTTP metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "soccer_predictor",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status",
	}, []string{"route", "method", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "soccer_predictor",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionCacheHitsTotal)
		registry.MustRegister(PredictionCacheMissesTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(UpstreamFailuresTotal)
		registry.MustRegister(RatingUpdatesTotal)
		registry.MustRegister(LiveResultsTotal)

		registry.MustRegister(TrackedTeams)
		registry.MustRegister(PredictionAccuracy)
		registry.MustRegister(PredictionBrierScore)

		registry.MustRegister(PredictionDuration)
		registry.MustRegister(SimulationDuration)

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
