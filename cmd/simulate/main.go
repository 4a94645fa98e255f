// Package main provides the offline season simulation CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/ratings"
	"github.com/yourusername/soccer-predictor/internal/simulation"
)

var (
	inputFile        string
	trials           int
	seed             int64
	remainingMatches int
	relegationSpots  int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "Path to input JSON (defaults to stdin)")
	rootCmd.PersistentFlags().IntVarP(&trials, "trials", "t", 1000, "Number of Monte Carlo trials")
	rootCmd.PersistentFlags().Int64VarP(&seed, "seed", "s", 0, "Random seed (0 seeds from the clock)")

	projectCmd.Flags().IntVarP(&remainingMatches, "remaining", "r", 0, "Remaining fixtures per team")
	projectCmd.Flags().IntVar(&relegationSpots, "relegation-spots", 0, "Relegation zone size (0 derives from league size)")
	leagueCmd.Flags().IntVar(&relegationSpots, "relegation-spots", 0, "Relegation zone size (0 derives from league size)")
}

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run season and tournament simulations",
	Long: `Run Monte Carlo simulations over league tables and knockout brackets.

Standings and fixtures are read as JSON from --input or stdin.`,
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project final-table probabilities from a standings table",
	RunE: func(cmd *cobra.Command, args []string) error {
		var standings []models.StandingsRow
		if err := readInput(&standings); err != nil {
			return err
		}

		projections, err := simulation.ProjectSeason(context.Background(), standings, simulation.Config{
			Trials:           trials,
			Seed:             seed,
			RemainingMatches: remainingMatches,
			RelegationSpots:  relegationSpots,
		})
		if err != nil {
			return err
		}

		return writeOutput(projections)
	},
}

type leagueInput struct {
	Standings []models.StandingsRow `json:"standings"`
	Fixtures  []models.Fixture      `json:"fixtures"`
	Ratings   map[string]float64    `json:"ratings"`
}

var leagueCmd = &cobra.Command{
	Use:   "league",
	Short: "Simulate remaining fixtures match by match",
	RunE: func(cmd *cobra.Command, args []string) error {
		var input leagueInput
		if err := readInput(&input); err != nil {
			return err
		}

		elo := ratings.NewSystem(ratings.DefaultConfig())
		for team, rating := range input.Ratings {
			elo.Set(team, "", rating)
		}

		sim := simulation.NewLeagueSimulator(elo, quietLogger())
		result, err := sim.SimulateLeague(context.Background(), input.Standings, input.Fixtures, simulation.FixtureConfig{
			Trials:          trials,
			Seed:            seed,
			RelegationSpots: relegationSpots,
		})
		if err != nil {
			return err
		}

		return writeOutput(result)
	},
}

var knockoutCmd = &cobra.Command{
	Use:   "knockout [team]...",
	Short: "Simulate a knockout bracket in seeded order",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		elo := ratings.NewSystem(ratings.DefaultConfig())

		bracket := make([]simulation.KnockoutTeam, 0, len(args))
		for _, name := range args {
			bracket = append(bracket, simulation.KnockoutTeam{Name: name, Elo: elo.Elo(name)})
		}

		result, err := simulation.SimulateKnockout(context.Background(), bracket, simulation.KnockoutConfig{
			Trials: trials,
			Seed:   seed,
		})
		if err != nil {
			return err
		}

		return writeOutput(result)
	},
}

func main() {
	rootCmd.AddCommand(projectCmd, leagueCmd, knockoutCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func readInput(v interface{}) error {
	var decoder *json.Decoder
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		decoder = json.NewDecoder(f)
	} else {
		decoder = json.NewDecoder(os.Stdin)
	}

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}
	return nil
}

func writeOutput(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}
