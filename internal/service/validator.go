package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/soccer-predictor/internal/datasource"
)

const maxPlausibleGoals = 20

// DataValidator validates fixture and result payloads from upstream providers
type DataValidator struct {
	logger *log.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *log.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateResult validates a final result for required fields and constraints
func (v *DataValidator) ValidateResult(result *datasource.ResultData) []string {
	var errors []string

	if result.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	}

	if result.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	}

	if result.HomeTeam != "" && result.HomeTeam == result.AwayTeam {
		errors = append(errors, "home and away team must differ")
	}

	if result.HomeGoals < 0 || result.HomeGoals > maxPlausibleGoals {
		errors = append(errors, fmt.Sprintf("home_goals out of range (0-%d), got %d", maxPlausibleGoals, result.HomeGoals))
	}

	if result.AwayGoals < 0 || result.AwayGoals > maxPlausibleGoals {
		errors = append(errors, fmt.Sprintf("away_goals out of range (0-%d), got %d", maxPlausibleGoals, result.AwayGoals))
	}

	if result.PlayedAt.IsZero() {
		errors = append(errors, "played_at is required")
	} else if result.PlayedAt.After(time.Now().Add(time.Hour)) {
		errors = append(errors, "played_at is in the future")
	}

	if result.HomeShots != nil && *result.HomeShots < result.HomeGoals {
		errors = append(errors, "home_shots cannot be below home_goals")
	}

	if result.AwayShots != nil && *result.AwayShots < result.AwayGoals {
		errors = append(errors, "away_shots cannot be below away_goals")
	}

	return errors
}

// ValidateFixture validates an upcoming fixture for required fields and constraints
func (v *DataValidator) ValidateFixture(fixture *datasource.FixtureData) []string {
	var errors []string

	if fixture.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	}

	if fixture.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	}

	if fixture.HomeTeam != "" && fixture.HomeTeam == fixture.AwayTeam {
		errors = append(errors, "home and away team must differ")
	}

	if fixture.KickOff.IsZero() {
		errors = append(errors, "kick_off is required")
	} else {
		now := time.Now()
		if fixture.KickOff.Before(now.Add(-24 * time.Hour)) {
			errors = append(errors, fmt.Sprintf("fixture kicked off %v ago", now.Sub(fixture.KickOff)))
		}
		if fixture.KickOff.After(now.Add(365 * 24 * time.Hour)) {
			errors = append(errors, "fixture scheduled more than 1 year in future")
		}
	}

	return errors
}
