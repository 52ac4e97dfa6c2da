package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/boutmatch/internal/auth"
	"github.com/abrezinsky/boutmatch/internal/handlers"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
	"github.com/abrezinsky/boutmatch/internal/services"
	"github.com/abrezinsky/boutmatch/internal/testutil"
	"github.com/abrezinsky/boutmatch/pkg/scoreboard"
)

// testSetup creates all the dependencies needed for testing handlers
type testSetup struct {
	repo       *repository.Repository
	handlers   *handlers.Handlers
	router     chi.Router
	authCookie *http.Cookie
	scoreboard *scoreboard.MockClient
}

// newTestSetup creates a new test setup with in-memory repository
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.New()
	board := scoreboard.NewMockClient()

	settingsService := services.NewSettingsService(log, repo, testutil.OpenRules())
	matchingService := services.NewMatchingService(log, repo, settingsService, board, nil)
	settingsService.SetRunLock(matchingService.RunLock())
	h := handlers.NewForTesting(handlers.Services{
		Team:      services.NewTeamService(log, repo),
		Entrant:   services.NewEntrantService(log, repo),
		Exception: services.NewExceptionService(log, repo),
		Settings:  settingsService,
		Matching:  matchingService,
		Standings: services.NewStandingsService(log, repo, settingsService),
		Bout:      services.NewBoutService(log, repo, settingsService),
	})

	token, ok := h.Auth.Login(handlers.TestPassword)
	if !ok {
		t.Fatal("login with test password failed")
	}

	return &testSetup{
		repo:       repo,
		handlers:   h,
		router:     h.Router(),
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
		scoreboard: board,
	}
}

// do sends an authenticated request with an optional JSON body
func (s *testSetup) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(s.authCookie)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// fixture holds the ids created by seedRoster
type fixture struct {
	ridgeback, copperhead, ashford int
	ids                            map[string]int
}

// seedRoster stores three teams and seven entrants. With open rules a run
// pairs Ada v Bo and Cyd v Fay and leaves Dee, Eve and Gil over.
func (s *testSetup) seedRoster(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{ids: make(map[string]int)}
	for name, dst := range map[string]*int{"Ridgeback": &f.ridgeback, "Copperhead": &f.copperhead, "Ashford": &f.ashford} {
		id, err := s.repo.CreateTeam(ctx, name, nil)
		if err != nil {
			t.Fatalf("failed to create team %s: %v", name, err)
		}
		*dst = int(id)
	}

	entrants := []models.Entrant{
		{TeamID: f.ridgeback, Name: "Ada", Phenotype: models.PhenotypeLight, AgeMonths: 20, Weight: 50},
		{TeamID: f.copperhead, Name: "Bo", Phenotype: models.PhenotypeLight, AgeMonths: 24, Weight: 51},
		{TeamID: f.ridgeback, Name: "Cyd", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 70},
		{TeamID: f.copperhead, Name: "Fay", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 71},
		{TeamID: f.ashford, Name: "Dee", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 90},
		{TeamID: f.ridgeback, Name: "Eve", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 200},
		{TeamID: f.ashford, Name: "Gil", Phenotype: models.PhenotypeDark, AgeMonths: 30, Weight: 300},
	}
	for _, e := range entrants {
		id, err := s.repo.CreateEntrant(ctx, e)
		if err != nil {
			t.Fatalf("failed to create entrant %s: %v", e.Name, err)
		}
		f.ids[e.Name] = int(id)
	}
	return f
}

// runMatching seeds the roster and runs matching through the API
func (s *testSetup) runMatching(t *testing.T) fixture {
	t.Helper()
	f := s.seedRoster(t)
	rec := s.do(t, http.MethodPost, "/api/admin/matching/run", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("matching run failed: %d %s", rec.Code, rec.Body.String())
	}
	return f
}
