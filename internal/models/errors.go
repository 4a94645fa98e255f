package models

import "errors"

// Custom errors
var (
	ErrTeamNameRequired  = errors.New("team name is required")
	ErrSameTeam          = errors.New("home and away team must differ")
	ErrAmbiguousTeamName = errors.New("team name matches multiple teams")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrInvalidID         = errors.New("invalid ID format")
	ErrEmptyStandings    = errors.New("standings table is empty")
)
