// Package main provides the entry point for the prediction API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/soccer-predictor/internal/analytics"
	"github.com/yourusername/soccer-predictor/internal/config"
	"github.com/yourusername/soccer-predictor/internal/database"
	"github.com/yourusername/soccer-predictor/internal/datasource"
	"github.com/yourusername/soccer-predictor/internal/health"
	"github.com/yourusername/soccer-predictor/internal/livescore"
	applogger "github.com/yourusername/soccer-predictor/internal/logger"
	"github.com/yourusername/soccer-predictor/internal/metrics"
	"github.com/yourusername/soccer-predictor/internal/prediction"
	"github.com/yourusername/soccer-predictor/internal/ratings"
	"github.com/yourusername/soccer-predictor/internal/repository"
	"github.com/yourusername/soccer-predictor/internal/scheduler"
	"github.com/yourusername/soccer-predictor/internal/server"
	"github.com/yourusername/soccer-predictor/internal/service"
	"github.com/yourusername/soccer-predictor/internal/simulation"
	"github.com/yourusername/soccer-predictor/internal/tracing"
	"github.com/yourusername/soccer-predictor/internal/tracker"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := applogger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Soccer Predictor API starting")

	// Distributed tracing
	if err := tracing.Initialize(tracing.Config{
		ServiceName:  cfg.App.Name,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
		DaemonAddr:   cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize tracing")
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.NewDB(rootCtx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create repositories")
	}

	// Rating engine, seeded from the reference table and overlaid with
	// stored ratings.
	ratingCfg := buildRatingConfig(cfg)
	elo := ratings.NewSystem(ratingCfg)
	seedRatings(rootCtx, elo, repos.Team, appLog)

	// Upstream provider
	providerLog := log.New(os.Stdout, "upstream: ", log.LstdFlags)
	factory := datasource.NewFactory(cfg, providerLog)
	provider, err := factory.NewStatsProvider()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build upstream provider")
	}

	// Prediction pipeline
	predictorOpts := []prediction.Option{
		prediction.WithCache(prediction.NewCache(cfg.PredictionCacheTTL(), cfg.Prediction.CacheMaxSize)),
		prediction.WithFormSource(repos.Match),
		prediction.WithUpstreamTimeout(time.Duration(cfg.Prediction.UpstreamTimeoutSeconds) * time.Second),
		prediction.WithScorelineCount(cfg.Prediction.ScorelineCount),
	}
	if provider != nil {
		predictorOpts = append(predictorOpts, prediction.WithUpstream(datasource.NewEloSource(provider)))
	}
	predictor := prediction.NewPredictor(ratingCfg, appLog, predictorOpts...)

	// Tracking, analytics, search
	predictions := tracker.New(repos.PredictionRecord, appLog)
	analyticsSvc := analytics.NewService(repos.Match, appLog)
	teamSearch := service.NewTeamSearchService(repos.Team, nil)

	// Live score stream
	var stream *livescore.StreamClient
	if cfg.LiveScores.Enabled {
		stream = livescore.NewStreamClient(cfg.LiveScores.StreamURL, cfg.Upstream.APIKey, appLog)
		if cfg.LiveScores.ReconnectMaxSeconds > 0 {
			reconnect := livescore.DefaultReconnectConfig()
			reconnect.MaxBackoff = time.Duration(cfg.LiveScores.ReconnectMaxSeconds) * time.Second
			stream.SetReconnectConfig(reconnect)
		}
		applier := livescore.NewResultApplier(elo, repos.Match, appLog)
		stream.AddHandler(applier.Handler())

		go func() {
			if err := stream.ConnectWithRetry(rootCtx); err != nil {
				appLog.WithError(err).Error("Live score stream unavailable")
			}
		}()

		pingInterval := 30 * time.Second
		if cfg.LiveScores.PingIntervalSeconds > 0 {
			pingInterval = time.Duration(cfg.LiveScores.PingIntervalSeconds) * time.Second
		}
		go func() {
			ticker := time.NewTicker(pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-rootCtx.Done():
					return
				case <-ticker.C:
					if stream.IsConnected() {
						if err := stream.Ping(); err != nil {
							appLog.WithError(err).Debug("Stream ping failed")
						}
					}
				}
			}
		}()
		defer stream.Close()
	}

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		syncLog := log.New(os.Stdout, "sync: ", log.LstdFlags)
		schedLog := log.New(os.Stdout, "scheduler: ", log.LstdFlags)

		var syncSvc *service.SyncService
		if provider != nil {
			syncSvc = service.NewSyncService(provider, repos, elo, syncLog)
		}

		jobs = scheduler.NewScheduler(syncSvc, elo, predictions, repos.Match, schedLog)

		if cfg.Scheduler.RatingDecayCron != "" {
			inactiveAfter := time.Duration(cfg.Ratings.DecayAfterDays) * 24 * time.Hour
			if err := jobs.ScheduleRatingDecay(cfg.Scheduler.RatingDecayCron, inactiveAfter); err != nil {
				appLog.WithError(err).Fatal("Failed to schedule rating decay")
			}
		}
		if cfg.Scheduler.UpstreamSyncCron != "" && syncSvc != nil {
			leagues := configuredLeagues(cfg)
			if err := jobs.ScheduleUpstreamSync(cfg.Scheduler.UpstreamSyncCron, leagues); err != nil {
				appLog.WithError(err).Fatal("Failed to schedule upstream sync")
			}
		}
		if cfg.Scheduler.SettlePendingCron != "" {
			if err := jobs.ScheduleSettlePending(cfg.Scheduler.SettlePendingCron, 100); err != nil {
				appLog.WithError(err).Fatal("Failed to schedule settlement")
			}
		}

		if len(jobs.Entries()) > 0 {
			if err := jobs.Start(); err != nil {
				appLog.WithError(err).Warn("Scheduler not started")
			} else {
				defer jobs.Stop()
			}
		}
	}

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			metricsMux := http.NewServeMux()
			metricsMux.Handle(cfg.Metrics.Path, metrics.Handler())
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, metricsMux); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Health endpoints
	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        os.Getenv("HEALTH_PORT"),
		Logger:      appLog,
		DB:          db,
		Stream:      streamChecker(stream),
	})
	if err := healthSrv.Start(rootCtx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// API server
	api := server.NewServer(cfg.ServerAddr(), server.Dependencies{
		Predictor:     predictor,
		Elo:           elo,
		LeagueSim:     simulation.NewLeagueSimulator(elo, appLog),
		Analytics:     analyticsSvc,
		Tracker:       predictions,
		TeamSearch:    teamSearch,
		Standings:     repos.Standings,
		Logger:        appLog,
		DefaultTrials: cfg.Simulation.DefaultTrials,
		MaxTrials:     cfg.Simulation.MaxTrials,
		TraceService:  traceService(cfg),
	})

	healthSrv.SetReady(true)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLog.WithField("signal", sig).Info("Shutdown signal received")
		healthSrv.SetReady(false)
		cancel()
	}()

	if err := api.Start(rootCtx); err != nil {
		appLog.WithError(err).Fatal("API server error")
	}

	appLog.Info("Soccer Predictor API shut down successfully")
}

// buildRatingConfig overlays the file configuration on the built-in
// reference data.
func buildRatingConfig(cfg *config.Config) ratings.Config {
	ratingCfg := ratings.DefaultConfig()
	if cfg.Ratings.KFactor > 0 {
		ratingCfg.KFactor = cfg.Ratings.KFactor
	}
	if cfg.Ratings.HomeAdvantage > 0 {
		ratingCfg.HomeAdvantage = cfg.Ratings.HomeAdvantage
	}
	for league, coefficient := range cfg.Ratings.LeagueCoefficients {
		ratingCfg.LeagueCoefficients[league] = coefficient
	}
	return ratingCfg
}

// seedRatings loads stored team ratings into the in-memory system so a
// restart does not lose learned strengths.
func seedRatings(ctx context.Context, elo *ratings.System, teams repository.TeamRepository, appLog *logrus.Logger) {
	stored, err := teams.TopRated(ctx, 5000)
	if err != nil {
		appLog.WithError(err).Warn("Could not seed ratings from storage")
		return
	}
	for _, team := range stored {
		elo.Set(team.Name, team.League, team.Elo)
	}
	metrics.TrackedTeams.Set(float64(len(stored)))
	appLog.WithField("teams", len(stored)).Info("Ratings seeded from storage")
}

func configuredLeagues(cfg *config.Config) []string {
	leagues := make([]string, 0, len(cfg.Ratings.LeagueCoefficients))
	for league := range cfg.Ratings.LeagueCoefficients {
		leagues = append(leagues, league)
	}
	return leagues
}

func traceService(cfg *config.Config) string {
	if !cfg.Tracing.Enabled {
		return ""
	}
	return cfg.App.Name
}

// streamChecker avoids handing the health server a typed nil.
func streamChecker(stream *livescore.StreamClient) health.StreamChecker {
	if stream == nil {
		return nil
	}
	return stream
}
