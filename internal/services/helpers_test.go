package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
	"github.com/abrezinsky/boutmatch/internal/services"
	"github.com/abrezinsky/boutmatch/internal/testutil"
	"github.com/abrezinsky/boutmatch/pkg/scoreboard"
)

// roster is the fixture used by the matching tests. With open rules it
// produces two bouts (Ada v Bo, Cyd v Fay) and leaves Dee, Eve and Gil over.
type roster struct {
	ridgeback, copperhead, ashford int
	ids                            map[string]int
}

func seedRoster(t *testing.T, repo repository.FullRepository) roster {
	t.Helper()
	ctx := context.Background()

	r := roster{ids: make(map[string]int)}
	r.ridgeback = mustTeam(t, repo, "Ridgeback", nil)
	r.copperhead = mustTeam(t, repo, "Copperhead", nil)
	r.ashford = mustTeam(t, repo, "Ashford", nil)

	entrants := []models.Entrant{
		{TeamID: r.ridgeback, Name: "Ada", Phenotype: models.PhenotypeLight, AgeMonths: 20, Weight: 50},
		{TeamID: r.copperhead, Name: "Bo", Phenotype: models.PhenotypeLight, AgeMonths: 24, Weight: 51},
		{TeamID: r.ridgeback, Name: "Cyd", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 70},
		{TeamID: r.copperhead, Name: "Fay", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 71},
		{TeamID: r.ashford, Name: "Dee", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 90},
		{TeamID: r.ridgeback, Name: "Eve", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 200},
		{TeamID: r.ashford, Name: "Gil", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 300},
	}
	for _, e := range entrants {
		id, err := repo.CreateEntrant(ctx, e)
		if err != nil {
			t.Fatalf("failed to create entrant %s: %v", e.Name, err)
		}
		r.ids[e.Name] = int(id)
	}
	return r
}

func mustTeam(t *testing.T, repo repository.TeamRepository, name string, base *int) int {
	t.Helper()
	id, err := repo.CreateTeam(context.Background(), name, base)
	if err != nil {
		t.Fatalf("failed to create team %s: %v", name, err)
	}
	return int(id)
}

func intPtr(v int) *int { return &v }

// recorder captures metric events
type recorder struct {
	mu       sync.Mutex
	runs     int
	accepted int
	rejected []string
	outcomes []string
}

func (r *recorder) MatchingRun(bouts, leftovers int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
}

func (r *recorder) ManualPair(accepted bool, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if accepted {
		r.accepted++
		return
	}
	r.rejected = append(r.rejected, reason)
}

func (r *recorder) OutcomeRecorded(outcome, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, source+":"+outcome)
}

func (r *recorder) WebSocketClients(n int) {}

// broadcaster captures broadcasts
type broadcaster struct {
	mu        sync.Mutex
	results   []*models.MatchResult
	standings [][]models.StandingsRow
}

func (b *broadcaster) BroadcastBoutsUpdated(result *models.MatchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = append(b.results, result)
}

func (b *broadcaster) BroadcastStandingsUpdated(rows []models.StandingsRow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.standings = append(b.standings, rows)
}

// matchingFixture wires a MatchingService over a fresh in-memory repository
type matchingFixture struct {
	repo        *repository.Repository
	settings    *services.SettingsService
	client      *scoreboard.MockClient
	metrics     *recorder
	broadcaster *broadcaster
	svc         *services.MatchingService
}

func newMatchingFixture(t *testing.T, opts ...scoreboard.MockOption) *matchingFixture {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	return newMatchingFixtureWithRepo(t, repo, repo, opts...)
}

func newMatchingFixtureWithRepo(t *testing.T, real *repository.Repository, repo repository.FullRepository, opts ...scoreboard.MockOption) *matchingFixture {
	t.Helper()
	log := logger.New()
	f := &matchingFixture{
		repo:        real,
		settings:    services.NewSettingsService(log, repo, testutil.OpenRules()),
		client:      scoreboard.NewMockClient(opts...),
		metrics:     &recorder{},
		broadcaster: &broadcaster{},
	}
	f.svc = services.NewMatchingService(log, repo, f.settings, f.client, f.metrics)
	f.svc.SetBroadcaster(f.broadcaster)
	return f
}
