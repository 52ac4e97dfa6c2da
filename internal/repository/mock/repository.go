package mock

import (
	"context"

	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveMatchResultError = errors.New("database error")
//	svc := services.NewMatchingService(log, mockRepo, nil, nil, nil)
//	_, err := svc.RunMatching(ctx)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Team Errors =====
	ListTeamsError            error
	GetTeamError              error
	TeamNameExistsError       error
	CreateTeamError           error
	UpdateTeamError           error
	DeleteTeamError           error
	CountFrontsError          error
	CountEntrantsForTeamError error

	// ===== Entrant Errors =====
	ListEntrantsError  error
	GetEntrantError    error
	CreateEntrantError error
	UpdateEntrantError error
	DeleteEntrantError error

	// ===== Exception Errors =====
	ListExceptionsError  error
	CreateExceptionError error
	ExceptionExistsError error
	DeleteExceptionError error

	// ===== Match Errors =====
	SaveMatchResultError   error
	LoadMatchResultError   error
	ListBoutsError         error
	ApplyManualPairError   error
	UpdateBoutOutcomeError error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
	GetStatsError   error
	ClearTableError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Team Methods =====

func (m *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.FullRepository.ListTeams(ctx)
}

func (m *Repository) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	if m.GetTeamError != nil {
		return nil, m.GetTeamError
	}
	return m.FullRepository.GetTeam(ctx, id)
}

func (m *Repository) TeamNameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	if m.TeamNameExistsError != nil {
		return false, m.TeamNameExistsError
	}
	return m.FullRepository.TeamNameExists(ctx, name, excludeID)
}

func (m *Repository) CreateTeam(ctx context.Context, name string, baseTeamID *int) (int64, error) {
	if m.CreateTeamError != nil {
		return 0, m.CreateTeamError
	}
	return m.FullRepository.CreateTeam(ctx, name, baseTeamID)
}

func (m *Repository) UpdateTeam(ctx context.Context, id int, name string, baseTeamID *int) error {
	if m.UpdateTeamError != nil {
		return m.UpdateTeamError
	}
	return m.FullRepository.UpdateTeam(ctx, id, name, baseTeamID)
}

func (m *Repository) DeleteTeam(ctx context.Context, id int) error {
	if m.DeleteTeamError != nil {
		return m.DeleteTeamError
	}
	return m.FullRepository.DeleteTeam(ctx, id)
}

func (m *Repository) CountFronts(ctx context.Context, baseID int) (int, error) {
	if m.CountFrontsError != nil {
		return 0, m.CountFrontsError
	}
	return m.FullRepository.CountFronts(ctx, baseID)
}

func (m *Repository) CountEntrantsForTeam(ctx context.Context, teamID int) (int, error) {
	if m.CountEntrantsForTeamError != nil {
		return 0, m.CountEntrantsForTeamError
	}
	return m.FullRepository.CountEntrantsForTeam(ctx, teamID)
}

// ===== Entrant Methods =====

func (m *Repository) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	if m.ListEntrantsError != nil {
		return nil, m.ListEntrantsError
	}
	return m.FullRepository.ListEntrants(ctx)
}

func (m *Repository) GetEntrant(ctx context.Context, id int) (*models.Entrant, error) {
	if m.GetEntrantError != nil {
		return nil, m.GetEntrantError
	}
	return m.FullRepository.GetEntrant(ctx, id)
}

func (m *Repository) CreateEntrant(ctx context.Context, e models.Entrant) (int64, error) {
	if m.CreateEntrantError != nil {
		return 0, m.CreateEntrantError
	}
	return m.FullRepository.CreateEntrant(ctx, e)
}

func (m *Repository) UpdateEntrant(ctx context.Context, e models.Entrant) error {
	if m.UpdateEntrantError != nil {
		return m.UpdateEntrantError
	}
	return m.FullRepository.UpdateEntrant(ctx, e)
}

func (m *Repository) DeleteEntrant(ctx context.Context, id int) error {
	if m.DeleteEntrantError != nil {
		return m.DeleteEntrantError
	}
	return m.FullRepository.DeleteEntrant(ctx, id)
}

// ===== Exception Methods =====

func (m *Repository) ListExceptions(ctx context.Context) ([]models.Exception, error) {
	if m.ListExceptionsError != nil {
		return nil, m.ListExceptionsError
	}
	return m.FullRepository.ListExceptions(ctx)
}

func (m *Repository) CreateException(ctx context.Context, teamA, teamB int) (int64, error) {
	if m.CreateExceptionError != nil {
		return 0, m.CreateExceptionError
	}
	return m.FullRepository.CreateException(ctx, teamA, teamB)
}

func (m *Repository) ExceptionExists(ctx context.Context, teamA, teamB int) (bool, error) {
	if m.ExceptionExistsError != nil {
		return false, m.ExceptionExistsError
	}
	return m.FullRepository.ExceptionExists(ctx, teamA, teamB)
}

func (m *Repository) DeleteException(ctx context.Context, id int) error {
	if m.DeleteExceptionError != nil {
		return m.DeleteExceptionError
	}
	return m.FullRepository.DeleteException(ctx, id)
}

// ===== Match Methods =====

func (m *Repository) SaveMatchResult(ctx context.Context, result models.MatchResult) error {
	if m.SaveMatchResultError != nil {
		return m.SaveMatchResultError
	}
	return m.FullRepository.SaveMatchResult(ctx, result)
}

func (m *Repository) LoadMatchResult(ctx context.Context) (*models.MatchResult, error) {
	if m.LoadMatchResultError != nil {
		return nil, m.LoadMatchResultError
	}
	return m.FullRepository.LoadMatchResult(ctx)
}

func (m *Repository) ListBouts(ctx context.Context) ([]models.Bout, error) {
	if m.ListBoutsError != nil {
		return nil, m.ListBoutsError
	}
	return m.FullRepository.ListBouts(ctx)
}

func (m *Repository) ApplyManualPair(ctx context.Context, bout models.Bout, remaining []models.Leftover) error {
	if m.ApplyManualPairError != nil {
		return m.ApplyManualPairError
	}
	return m.FullRepository.ApplyManualPair(ctx, bout, remaining)
}

func (m *Repository) UpdateBoutOutcome(ctx context.Context, seq int, outcome models.Outcome, durationSeconds *int) error {
	if m.UpdateBoutOutcomeError != nil {
		return m.UpdateBoutOutcomeError
	}
	return m.FullRepository.UpdateBoutOutcome(ctx, seq, outcome, durationSeconds)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) GetStats(ctx context.Context) (map[string]int, error) {
	if m.GetStatsError != nil {
		return nil, m.GetStatsError
	}
	return m.FullRepository.GetStats(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
