// Package server exposes the prediction, analytics, and simulation
// services over an HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/soccer-predictor/internal/analytics"
	"github.com/yourusername/soccer-predictor/internal/prediction"
	"github.com/yourusername/soccer-predictor/internal/ratings"
	"github.com/yourusername/soccer-predictor/internal/repository"
	"github.com/yourusername/soccer-predictor/internal/service"
	"github.com/yourusername/soccer-predictor/internal/simulation"
	"github.com/yourusername/soccer-predictor/internal/tracing"
	"github.com/yourusername/soccer-predictor/internal/tracker"
)

// Dependencies carries everything the HTTP layer serves from.
type Dependencies struct {
	Predictor     *prediction.Predictor
	Elo           *ratings.System
	LeagueSim     *simulation.LeagueSimulator
	Analytics     *analytics.Service
	Tracker       *tracker.Tracker
	TeamSearch    *service.TeamSearchService
	Standings     repository.StandingsRepository
	Logger        *logrus.Logger
	DefaultTrials int
	MaxTrials     int

	// TraceService, when non-empty, wraps every request in an X-Ray
	// segment named after the service.
	TraceService string
}

// Server is the public HTTP API.
type Server struct {
	router        *mux.Router
	httpServer    *http.Server
	deps          Dependencies
	logger        *logrus.Logger
	defaultTrials int
	maxTrials     int
}

// NewServer builds the API server and registers all routes.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}

	defaultTrials := deps.DefaultTrials
	if defaultTrials <= 0 {
		defaultTrials = 1000
	}
	maxTrials := deps.MaxTrials
	if maxTrials <= 0 {
		maxTrials = 100000
	}

	s := &Server{
		router:        mux.NewRouter(),
		deps:          deps,
		logger:        logger,
		defaultTrials: defaultTrials,
		maxTrials:     maxTrials,
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	if s.deps.TraceService != "" {
		s.router.Use(tracing.Middleware(s.deps.TraceService))
	}
	s.router.Use(s.loggingMiddleware)
	s.router.Use(corsMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.metricsMiddleware)

	api.HandleFunc("/predictions/match", s.handlePredictMatch).Methods(http.MethodGet)
	api.HandleFunc("/predictions/accuracy", s.handleAccuracy).Methods(http.MethodGet)

	api.HandleFunc("/teams/search", s.handleTeamSearch).Methods(http.MethodGet)
	api.HandleFunc("/ratings/rankings", s.handleRankings).Methods(http.MethodGet)

	api.HandleFunc("/analytics/regression", s.handleRegression).Methods(http.MethodPost)
	api.HandleFunc("/analytics/league/{league}/overview", s.handleLeagueOverview).Methods(http.MethodGet)
	api.HandleFunc("/analytics/league/{league}/trend", s.handleLeagueTrend).Methods(http.MethodGet)
	api.HandleFunc("/analytics/league/{league}/shots", s.handleLeagueShots).Methods(http.MethodGet)

	api.HandleFunc("/simulations/projection", s.handleProjection).Methods(http.MethodPost)
	api.HandleFunc("/simulations/league", s.handleLeagueSimulation).Methods(http.MethodPost)
	api.HandleFunc("/simulations/knockout", s.handleKnockout).Methods(http.MethodPost)
}

// Router exposes the handler tree, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the server, draining in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("API server shutting down")
	return s.httpServer.Shutdown(ctx)
}
