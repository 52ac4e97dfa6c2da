package repository

import (
	"context"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// TeamRepository defines team data operations
type TeamRepository interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	TeamNameExists(ctx context.Context, name string, excludeID int) (bool, error)
	CreateTeam(ctx context.Context, name string, baseTeamID *int) (int64, error)
	UpdateTeam(ctx context.Context, id int, name string, baseTeamID *int) error
	DeleteTeam(ctx context.Context, id int) error
	CountFronts(ctx context.Context, baseID int) (int, error)
	CountEntrantsForTeam(ctx context.Context, teamID int) (int, error)
}

// EntrantRepository defines entrant data operations
type EntrantRepository interface {
	ListEntrants(ctx context.Context) ([]models.Entrant, error)
	GetEntrant(ctx context.Context, id int) (*models.Entrant, error)
	CreateEntrant(ctx context.Context, e models.Entrant) (int64, error)
	UpdateEntrant(ctx context.Context, e models.Entrant) error
	DeleteEntrant(ctx context.Context, id int) error
}

// ExceptionRepository defines exception data operations
type ExceptionRepository interface {
	ListExceptions(ctx context.Context) ([]models.Exception, error)
	CreateException(ctx context.Context, teamA, teamB int) (int64, error)
	ExceptionExists(ctx context.Context, teamA, teamB int) (bool, error)
	DeleteException(ctx context.Context, id int) error
}

// MatchRepository defines bout and leftover persistence
type MatchRepository interface {
	SaveMatchResult(ctx context.Context, result models.MatchResult) error
	LoadMatchResult(ctx context.Context) (*models.MatchResult, error)
	ListBouts(ctx context.Context) ([]models.Bout, error)
	ListLeftovers(ctx context.Context) ([]models.Leftover, error)
	ApplyManualPair(ctx context.Context, bout models.Bout, remaining []models.Leftover) error
	UpdateBoutOutcome(ctx context.Context, seq int, outcome models.Outcome, durationSeconds *int) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetStats(ctx context.Context) (map[string]int, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	TeamRepository
	EntrantRepository
	ExceptionRepository
	MatchRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
