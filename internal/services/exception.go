package services

import (
	"context"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

// ExceptionServiceRepository defines the repository methods needed by ExceptionService
type ExceptionServiceRepository interface {
	repository.ExceptionRepository
	repository.TeamRepository
}

// ExceptionService manages the base-team pairs that may never meet
type ExceptionService struct {
	log  logger.Logger
	repo ExceptionServiceRepository
}

// NewExceptionService creates a new ExceptionService
func NewExceptionService(log logger.Logger, repo ExceptionServiceRepository) *ExceptionService {
	return &ExceptionService{log: log, repo: repo}
}

// ListExceptions returns all exceptions
func (s *ExceptionService) ListExceptions(ctx context.Context) ([]models.Exception, error) {
	return s.repo.ListExceptions(ctx)
}

// CreateException forbids bouts between two base teams
func (s *ExceptionService) CreateException(ctx context.Context, teamA, teamB int) (int64, error) {
	if teamA == teamB {
		return 0, errors.Validation("a team cannot be excepted from itself")
	}
	for _, id := range []int{teamA, teamB} {
		team, err := s.repo.GetTeam(ctx, id)
		if err == repository.ErrNotFound {
			return 0, errors.Validationf("team %d does not exist", id)
		}
		if err != nil {
			return 0, errors.Internal(err)
		}
		if team.IsFront() {
			return 0, errors.Validationf("team %d is a front; exceptions apply to base teams", id)
		}
	}

	exists, err := s.repo.ExceptionExists(ctx, teamA, teamB)
	if err != nil {
		return 0, errors.Internal(err)
	}
	if exists {
		return 0, errors.Conflictf("teams %d and %d are already excepted", teamA, teamB)
	}

	id, err := s.repo.CreateException(ctx, teamA, teamB)
	if err != nil {
		return 0, errors.Internal(err)
	}
	s.log.Info("exception created", "team_a", teamA, "team_b", teamB)
	return id, nil
}

// DeleteException removes an exception
func (s *ExceptionService) DeleteException(ctx context.Context, id int) error {
	if err := s.repo.DeleteException(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("exception %d not found", id)
		}
		return errors.Internal(err)
	}
	return nil
}
