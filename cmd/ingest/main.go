// Package main provides the upstream data ingestion CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/soccer-predictor/internal/config"
	"github.com/yourusername/soccer-predictor/internal/database"
	"github.com/yourusername/soccer-predictor/internal/datasource"
	"github.com/yourusername/soccer-predictor/internal/ratings"
	"github.com/yourusername/soccer-predictor/internal/repository"
	"github.com/yourusername/soccer-predictor/internal/service"
)

var (
	configFile string
	sinceDays  int

	cfg     *config.Config
	db      *database.DB
	syncSvc *service.SyncService
	logger  *log.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	resultsCmd.Flags().IntVar(&sinceDays, "since-days", 7, "How many days of results to fetch")
}

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull fixtures and results from the upstream provider",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results [league]...",
	Short: "Fetch and record final results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		since := time.Now().Add(-time.Duration(sinceDays) * 24 * time.Hour)

		for _, league := range args {
			metrics, err := syncSvc.SyncResults(cmd.Context(), league, since)
			if err != nil {
				return fmt.Errorf("syncing results for %s: %w", league, err)
			}
			logger.Printf("%s: %s", league, metrics.String())
		}
		return nil
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures [league]...",
	Short: "Fetch and store upcoming fixtures",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, league := range args {
			metrics, err := syncSvc.SyncFixtures(cmd.Context(), league)
			if err != nil {
				return fmt.Errorf("syncing fixtures for %s: %w", league, err)
			}
			logger.Printf("%s: %s", league, metrics.String())
		}
		return nil
	},
}

var teamCmd = &cobra.Command{
	Use:   "team [name]...",
	Short: "Refresh team ratings from the provider",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			if err := syncSvc.SyncTeam(cmd.Context(), name); err != nil {
				return fmt.Errorf("syncing team %s: %w", name, err)
			}
			logger.Printf("Refreshed rating for %s", name)
		}
		return nil
	},
}

func main() {
	rootCmd.AddCommand(resultsCmd, fixturesCmd, teamCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies(ctx context.Context) error {
	var err error

	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	logger = log.New(os.Stdout, "ingest: ", log.LstdFlags)

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	factory := datasource.NewFactory(cfg, logger)
	provider, err := factory.NewStatsProvider()
	if err != nil {
		return fmt.Errorf("building provider: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("no upstream provider configured; set upstream.base_url")
	}

	elo := ratings.NewSystem(ratings.DefaultConfig())
	syncSvc = service.NewSyncService(provider, repos, elo, logger)

	return nil
}
