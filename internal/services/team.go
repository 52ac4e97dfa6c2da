package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

// TeamServiceRepository defines the repository methods TeamService needs
type TeamServiceRepository interface {
	repository.TeamRepository
	repository.ExceptionRepository
}

// TeamService handles team-related business logic
type TeamService struct {
	log  logger.Logger
	repo TeamServiceRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(log logger.Logger, repo TeamServiceRepository) *TeamService {
	return &TeamService{log: log, repo: repo}
}

// TeamInput represents a team for create/update operations
type TeamInput struct {
	Name       string
	BaseTeamID *int
}

// ListTeams returns all teams ordered by id
func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.repo.ListTeams(ctx)
}

// GetTeam returns a team by ID
func (s *TeamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.repo.GetTeam(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("team %d not found", id)
	}
	return team, err
}

// CreateTeam creates a team, optionally as a front of an existing base team
func (s *TeamService) CreateTeam(ctx context.Context, in TeamInput) (int64, error) {
	name, err := s.validate(ctx, 0, in)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateTeam(ctx, name, in.BaseTeamID)
	if err != nil {
		return 0, errors.Internal(err)
	}
	s.log.Info("team created", "id", id, "name", name)
	return id, nil
}

// UpdateTeam renames a team or changes its base team. A base team named
// by an exception cannot become a front until the exception is removed.
func (s *TeamService) UpdateTeam(ctx context.Context, id int, in TeamInput) error {
	current, err := s.GetTeam(ctx, id)
	if err != nil {
		return err
	}
	name, err := s.validate(ctx, id, in)
	if err != nil {
		return err
	}
	if in.BaseTeamID != nil {
		fronts, err := s.repo.CountFronts(ctx, id)
		if err != nil {
			return errors.Internal(err)
		}
		if fronts > 0 {
			return errors.Conflictf("team %d has %d front(s) and cannot become a front itself", id, fronts)
		}
		if !current.IsFront() {
			n, err := s.countExceptions(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return errors.Conflictf("team %d is named by %d exception(s) and cannot become a front", id, n)
			}
		}
	}
	if err := s.repo.UpdateTeam(ctx, id, name, in.BaseTeamID); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("team %d not found", id)
		}
		return errors.Internal(err)
	}
	return nil
}

// DeleteTeam removes a team that has no fronts and no entrants
func (s *TeamService) DeleteTeam(ctx context.Context, id int) error {
	if _, err := s.GetTeam(ctx, id); err != nil {
		return err
	}
	fronts, err := s.repo.CountFronts(ctx, id)
	if err != nil {
		return errors.Internal(err)
	}
	if fronts > 0 {
		return errors.Conflictf("team %d still has %d front(s)", id, fronts)
	}
	entrants, err := s.repo.CountEntrantsForTeam(ctx, id)
	if err != nil {
		return errors.Internal(err)
	}
	if entrants > 0 {
		return errors.Conflictf("team %d still has %d entrant(s)", id, entrants)
	}
	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("team %d not found", id)
		}
		return errors.Internal(err)
	}
	s.log.Info("team deleted", "id", id)
	return nil
}

// countExceptions returns how many exceptions name the team
func (s *TeamService) countExceptions(ctx context.Context, id int) (int, error) {
	list, err := s.repo.ListExceptions(ctx)
	if err != nil {
		return 0, errors.Internal(err)
	}
	n := 0
	for _, ex := range list {
		if ex.TeamAID == id || ex.TeamBID == id {
			n++
		}
	}
	return n, nil
}

// validate checks name uniqueness and that a base team exists and is not
// itself a front. It returns the trimmed name.
func (s *TeamService) validate(ctx context.Context, id int, in TeamInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", errors.Validation("team name is required")
	}
	exists, err := s.repo.TeamNameExists(ctx, name, id)
	if err != nil {
		return "", errors.Internal(err)
	}
	if exists {
		return "", errors.Conflictf("team %q already exists", name)
	}

	if in.BaseTeamID == nil {
		return name, nil
	}
	if id != 0 && *in.BaseTeamID == id {
		return "", errors.Validation("a team cannot be its own base team")
	}
	base, err := s.repo.GetTeam(ctx, *in.BaseTeamID)
	if err == repository.ErrNotFound {
		return "", errors.Validationf("base team %d does not exist", *in.BaseTeamID)
	}
	if err != nil {
		return "", errors.Internal(err)
	}
	if base.IsFront() {
		return "", errors.Validationf("team %d is itself a front and cannot be a base team", base.ID)
	}
	return name, nil
}
