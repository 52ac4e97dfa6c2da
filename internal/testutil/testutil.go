package testutil

import (
	"testing"

	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// OpenRules returns tournament rules with wide weight bounds, no quota and
// the usual 3/1 scoring.
func OpenRules() models.TournamentConfig {
	return models.TournamentConfig{
		WeightTolerance: 1,
		AgeTolerance:    2,
		MinWeight:       0,
		MaxWeight:       1000,
		PointsForWin:    3,
		PointsForDraw:   1,
	}
}
