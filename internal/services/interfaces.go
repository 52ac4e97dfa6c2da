package services

import (
	"context"
	"io"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// TeamServicer defines the interface for team operations
type TeamServicer interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	CreateTeam(ctx context.Context, in TeamInput) (int64, error)
	UpdateTeam(ctx context.Context, id int, in TeamInput) error
	DeleteTeam(ctx context.Context, id int) error
}

// EntrantServicer defines the interface for entrant operations
type EntrantServicer interface {
	ListEntrants(ctx context.Context) ([]models.Entrant, error)
	GetEntrant(ctx context.Context, id int) (*models.Entrant, error)
	CreateEntrant(ctx context.Context, e models.Entrant) (int64, error)
	UpdateEntrant(ctx context.Context, e models.Entrant) error
	DeleteEntrant(ctx context.Context, id int) error
	SeedMockEntrants(ctx context.Context, count int, seed uint64) (int, error)
}

// ExceptionServicer defines the interface for exception operations
type ExceptionServicer interface {
	ListExceptions(ctx context.Context) ([]models.Exception, error)
	CreateException(ctx context.Context, teamA, teamB int) (int64, error)
	DeleteException(ctx context.Context, id int) error
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	TournamentConfigProvider
	UpdateTournamentConfig(ctx context.Context, cfg models.TournamentConfig) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetScoreboardURL(ctx context.Context) (string, error)
	SetScoreboardURL(ctx context.Context, url string) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// MatchingServicer defines the interface for matching and scoring operations
type MatchingServicer interface {
	RunMatching(ctx context.Context) (*models.MatchResult, error)
	CurrentResult(ctx context.Context) (*models.MatchResult, error)
	ManualPair(ctx context.Context, entrantA, entrantB int) (*models.Bout, error)
	RecordOutcome(ctx context.Context, seq int, outcome models.Outcome, durationSeconds int) (*models.Bout, error)
	SyncOutcomes(ctx context.Context, url string) (*SyncResult, error)
	PublishCards(ctx context.Context, url string) (int, error)
	SetBroadcaster(b Broadcaster)
}

// StandingsServicer defines the interface for standings operations
type StandingsServicer interface {
	Standings(ctx context.Context, key string) (*StandingsView, error)
	ExportWorkbook(ctx context.Context) ([]byte, error)
	Chart(ctx context.Context) ([]byte, error)
}

// BoutServicer defines the interface for per-bout operations
type BoutServicer interface {
	GetBout(ctx context.Context, seq int) (*models.Bout, error)
	BoutQR(ctx context.Context, seq int) ([]byte, error)
	WriteBoutSheet(ctx context.Context, w io.Writer) error
}

// Ensure concrete types implement interfaces
var (
	_ TeamServicer      = (*TeamService)(nil)
	_ EntrantServicer   = (*EntrantService)(nil)
	_ ExceptionServicer = (*ExceptionService)(nil)
	_ SettingsServicer  = (*SettingsService)(nil)
	_ MatchingServicer  = (*MatchingService)(nil)
	_ StandingsServicer = (*StandingsService)(nil)
	_ BoutServicer      = (*BoutService)(nil)
)
