package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

const (
	maxSeedCount  = 500
	seedTeamCount = 4
)

// EntrantServiceRepository defines the repository methods needed by EntrantService
type EntrantServiceRepository interface {
	repository.EntrantRepository
	repository.TeamRepository
}

// EntrantService handles entrant-related business logic
type EntrantService struct {
	log  logger.Logger
	repo EntrantServiceRepository
}

// NewEntrantService creates a new EntrantService
func NewEntrantService(log logger.Logger, repo EntrantServiceRepository) *EntrantService {
	return &EntrantService{log: log, repo: repo}
}

// ListEntrants returns all entrants ordered by id
func (s *EntrantService) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	return s.repo.ListEntrants(ctx)
}

// GetEntrant returns an entrant by ID
func (s *EntrantService) GetEntrant(ctx context.Context, id int) (*models.Entrant, error) {
	e, err := s.repo.GetEntrant(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("entrant %d not found", id)
	}
	return e, err
}

// CreateEntrant validates and stores a new entrant
func (s *EntrantService) CreateEntrant(ctx context.Context, e models.Entrant) (int64, error) {
	if err := s.validate(ctx, &e); err != nil {
		return 0, err
	}
	id, err := s.repo.CreateEntrant(ctx, e)
	if err != nil {
		return 0, errors.Internal(err)
	}
	return id, nil
}

// UpdateEntrant validates and overwrites an existing entrant
func (s *EntrantService) UpdateEntrant(ctx context.Context, e models.Entrant) error {
	if err := s.validate(ctx, &e); err != nil {
		return err
	}
	if err := s.repo.UpdateEntrant(ctx, e); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("entrant %d not found", e.ID)
		}
		return errors.Internal(err)
	}
	return nil
}

// DeleteEntrant removes an entrant. Bouts already drawn keep their snapshot.
func (s *EntrantService) DeleteEntrant(ctx context.Context, id int) error {
	if err := s.repo.DeleteEntrant(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("entrant %d not found", id)
		}
		return errors.Internal(err)
	}
	return nil
}

func (s *EntrantService) validate(ctx context.Context, e *models.Entrant) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return errors.Validation("entrant name is required")
	}
	if !e.Phenotype.Valid() {
		return errors.Validationf("unknown phenotype %q", e.Phenotype)
	}
	if e.AgeMonths < 0 {
		return errors.Validation("age must not be negative")
	}
	if e.Weight < 0 {
		return errors.Validation("weight must not be negative")
	}
	if _, err := s.repo.GetTeam(ctx, e.TeamID); err != nil {
		if err == repository.ErrNotFound {
			return errors.Validationf("team %d does not exist", e.TeamID)
		}
		return errors.Internal(err)
	}
	return nil
}

// SeedMockEntrants adds count generated entrants spread across the existing
// teams, creating a few teams first when there are none. A zero seed picks a
// random one.
func (s *EntrantService) SeedMockEntrants(ctx context.Context, count int, seed uint64) (int, error) {
	if count < 1 || count > maxSeedCount {
		return 0, ErrInvalidSeedCount
	}
	faker := gofakeit.New(seed)

	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return 0, errors.Internal(err)
	}
	if len(teams) == 0 {
		if teams, err = s.seedTeams(ctx, faker); err != nil {
			return 0, err
		}
	}

	added := 0
	for i := 0; i < count; i++ {
		e := models.Entrant{
			TeamID:    teams[faker.Number(0, len(teams)-1)].ID,
			Name:      faker.FirstName(),
			Phenotype: models.Phenotypes[faker.Number(0, len(models.Phenotypes)-1)],
			AgeMonths: faker.Number(3, 48),
			Weight:    faker.Number(40, 110),
		}
		if _, err := s.repo.CreateEntrant(ctx, e); err != nil {
			return added, errors.Internal(err)
		}
		added++
	}
	s.log.Info("seeded mock entrants", "count", added, "teams", len(teams))
	return added, nil
}

func (s *EntrantService) seedTeams(ctx context.Context, faker *gofakeit.Faker) ([]models.Team, error) {
	used := make(map[string]bool)
	var teams []models.Team
	for i := 0; len(teams) < seedTeamCount; i++ {
		name := faker.City()
		if used[name] {
			name = fmt.Sprintf("%s %d", name, i)
		}
		used[name] = true
		id, err := s.repo.CreateTeam(ctx, name, nil)
		if err != nil {
			return nil, errors.Internal(err)
		}
		teams = append(teams, models.Team{ID: int(id), Name: name})
	}
	return teams, nil
}
