package services

import (
	"context"
	"sync"

	"github.com/abrezinsky/boutmatch/internal/engine"
	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/export"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

// StandingsServiceRepository defines the repository methods needed by StandingsService
type StandingsServiceRepository interface {
	repository.TeamRepository
	repository.MatchRepository
}

// StandingsService derives the standings table from the stored bouts and
// remembers the last requested ordering.
type StandingsService struct {
	log    logger.Logger
	repo   StandingsServiceRepository
	config TournamentConfigProvider

	mu   sync.Mutex
	sort engine.SortState
}

// NewStandingsService creates a new StandingsService ordered by points, highest first
func NewStandingsService(log logger.Logger, repo StandingsServiceRepository, config TournamentConfigProvider) *StandingsService {
	return &StandingsService{
		log:    log,
		repo:   repo,
		config: config,
		sort:   engine.SortState{Key: engine.SortByPoints, Direction: engine.Descending},
	}
}

// StandingsView is a standings table with the ordering it was built with
type StandingsView struct {
	Sort      engine.SortKey        `json:"sort"`
	Direction engine.Direction      `json:"direction"`
	Rows      []models.StandingsRow `json:"rows"`
}

// Standings returns the standings table. A non-empty key selects the primary
// ordering; asking for the current key again flips its direction. An empty
// key keeps the current ordering.
func (s *StandingsService) Standings(ctx context.Context, key string) (*StandingsView, error) {
	state, err := s.selectSort(key)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, state)
	if err != nil {
		return nil, err
	}
	return &StandingsView{Sort: state.Key, Direction: state.Direction, Rows: rows}, nil
}

func (s *StandingsService) selectSort(key string) (engine.SortState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		return s.sort, nil
	}
	parsed, err := engine.ParseSortKey(key)
	if err != nil {
		return engine.SortState{}, err
	}
	s.sort = s.sort.Select(parsed)
	return s.sort, nil
}

func (s *StandingsService) currentSort() engine.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *StandingsService) rows(ctx context.Context, state engine.SortState) ([]models.StandingsRow, error) {
	bouts, err := s.repo.ListBouts(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	cfg, err := s.config.GetTournamentConfig(ctx)
	if err != nil {
		return nil, err
	}
	return engine.ComputeStandings(bouts, engine.NewTeams(teams), cfg, state.Key, state.Direction), nil
}

// ExportWorkbook renders the standings in the current ordering, the bouts
// and the leftovers as an XLSX workbook.
func (s *StandingsService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	rows, err := s.rows(ctx, s.currentSort())
	if err != nil {
		return nil, err
	}
	var result *models.MatchResult
	if loaded, err := s.repo.LoadMatchResult(ctx); err == nil {
		result = loaded
	} else if err != repository.ErrNotFound {
		return nil, errors.Internal(err)
	}
	names, err := loadTeamNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	data, err := export.Workbook(rows, result, names)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to build workbook")
	}
	return data, nil
}

// Chart renders points per team as a PNG bar chart, highest first
func (s *StandingsService) Chart(ctx context.Context) ([]byte, error) {
	rows, err := s.rows(ctx, engine.SortState{Key: engine.SortByPoints, Direction: engine.Descending})
	if err != nil {
		return nil, err
	}
	data, err := export.StandingsChart(rows)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render chart")
	}
	return data, nil
}
