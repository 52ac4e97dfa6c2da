package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository/mock"
	"github.com/abrezinsky/boutmatch/internal/services"
	"github.com/abrezinsky/boutmatch/internal/testutil"
)

func TestEntrantService_CRUD(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewEntrantService(logger.New(), repo)
	ctx := context.Background()
	team := mustTeam(t, repo, "Ridgeback", nil)

	id, err := svc.CreateEntrant(ctx, models.Entrant{TeamID: team, Name: " Ada ", Phenotype: models.PhenotypeLight, AgeMonths: 6, Weight: 50})
	if err != nil {
		t.Fatalf("CreateEntrant failed: %v", err)
	}

	e, err := svc.GetEntrant(ctx, int(id))
	if err != nil {
		t.Fatalf("GetEntrant failed: %v", err)
	}
	if e.Name != "Ada" || e.AgeClass() != models.AgeClassJuvenile {
		t.Errorf("unexpected entrant: %+v", e)
	}

	e.Weight = 55
	e.AgeMonths = 14
	if err := svc.UpdateEntrant(ctx, *e); err != nil {
		t.Fatalf("UpdateEntrant failed: %v", err)
	}
	updated, err := svc.GetEntrant(ctx, int(id))
	if err != nil {
		t.Fatalf("GetEntrant failed: %v", err)
	}
	if updated.Weight != 55 || updated.AgeClass() != models.AgeClassMature {
		t.Errorf("unexpected entrant after update: %+v", updated)
	}

	if err := svc.DeleteEntrant(ctx, int(id)); err != nil {
		t.Fatalf("DeleteEntrant failed: %v", err)
	}
	if _, err := svc.GetEntrant(ctx, int(id)); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteEntrant(ctx, int(id)); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestEntrantService_Validation(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewEntrantService(logger.New(), repo)
	ctx := context.Background()
	team := mustTeam(t, repo, "Ridgeback", nil)
	valid := models.Entrant{TeamID: team, Name: "Ada", Phenotype: models.PhenotypeLight, AgeMonths: 6, Weight: 50}

	tests := []struct {
		name   string
		mutate func(e *models.Entrant)
	}{
		{"empty name", func(e *models.Entrant) { e.Name = "" }},
		{"unknown phenotype", func(e *models.Entrant) { e.Phenotype = "striped" }},
		{"negative age", func(e *models.Entrant) { e.AgeMonths = -1 }},
		{"negative weight", func(e *models.Entrant) { e.Weight = -5 }},
		{"unknown team", func(e *models.Entrant) { e.TeamID = 404 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if _, err := svc.CreateEntrant(ctx, e); !errors.Is(err, errors.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEntrantService_UpdateEntrant_NotFound(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewEntrantService(logger.New(), repo)
	team := mustTeam(t, repo, "Ridgeback", nil)

	err := svc.UpdateEntrant(context.Background(), models.Entrant{ID: 404, TeamID: team, Name: "Ghost", Phenotype: models.PhenotypeDark, Weight: 10})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEntrantService_SeedMockEntrants(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewEntrantService(logger.New(), repo)
	ctx := context.Background()

	added, err := svc.SeedMockEntrants(ctx, 25, 42)
	if err != nil {
		t.Fatalf("SeedMockEntrants failed: %v", err)
	}
	if added != 25 {
		t.Errorf("expected 25 entrants, got %d", added)
	}

	teams, err := repo.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}
	if len(teams) != 4 {
		t.Errorf("expected 4 generated teams, got %d", len(teams))
	}

	entrants, err := svc.ListEntrants(ctx)
	if err != nil {
		t.Fatalf("ListEntrants failed: %v", err)
	}
	known := make(map[int]bool)
	for _, team := range teams {
		known[team.ID] = true
	}
	for _, e := range entrants {
		if e.Name == "" || !e.Phenotype.Valid() || e.Weight <= 0 || !known[e.TeamID] {
			t.Errorf("generated entrant is not valid: %+v", e)
		}
	}
}

func TestEntrantService_SeedMockEntrants_UsesExistingTeams(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewEntrantService(logger.New(), repo)
	ctx := context.Background()
	team := mustTeam(t, repo, "Ridgeback", nil)

	if _, err := svc.SeedMockEntrants(ctx, 5, 7); err != nil {
		t.Fatalf("SeedMockEntrants failed: %v", err)
	}
	entrants, err := svc.ListEntrants(ctx)
	if err != nil {
		t.Fatalf("ListEntrants failed: %v", err)
	}
	for _, e := range entrants {
		if e.TeamID != team {
			t.Errorf("expected entrant on existing team %d, got %d", team, e.TeamID)
		}
	}
}

func TestEntrantService_SeedMockEntrants_Deterministic(t *testing.T) {
	names := func() []string {
		repo := testutil.NewTestRepository(t)
		svc := services.NewEntrantService(logger.New(), repo)
		if _, err := svc.SeedMockEntrants(context.Background(), 10, 99); err != nil {
			t.Fatalf("SeedMockEntrants failed: %v", err)
		}
		entrants, _ := svc.ListEntrants(context.Background())
		var out []string
		for _, e := range entrants {
			out = append(out, e.Name)
		}
		return out
	}

	first, second := names(), names()
	if len(first) != len(second) {
		t.Fatalf("expected equal lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entrant %d differs between seeded runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestEntrantService_SeedMockEntrants_InvalidCount(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewEntrantService(logger.New(), repo)

	for _, count := range []int{0, -1, 501} {
		if _, err := svc.SeedMockEntrants(context.Background(), count, 1); err != services.ErrInvalidSeedCount {
			t.Errorf("count %d: expected ErrInvalidSeedCount, got %v", count, err)
		}
	}
}

func TestEntrantService_SeedMockEntrants_CreateError(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	mockRepo.CreateEntrantError = stderrors.New("database error creating entrant")
	svc := services.NewEntrantService(logger.New(), mockRepo)

	added, err := svc.SeedMockEntrants(context.Background(), 3, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if added != 0 {
		t.Errorf("expected 0 added, got %d", added)
	}
}
