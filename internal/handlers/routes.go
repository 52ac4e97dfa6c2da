package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Public
	r.Get("/healthz", h.handleHealth)
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	// Auth
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Teams
		r.Get("/api/admin/teams", h.handleGetTeams)
		r.Post("/api/admin/teams", h.handleCreateTeam)
		r.Get("/api/admin/teams/{id}", h.handleGetTeam)
		r.Put("/api/admin/teams/{id}", h.handleUpdateTeam)
		r.Delete("/api/admin/teams/{id}", h.handleDeleteTeam)

		// Entrants
		r.Get("/api/admin/entrants", h.handleGetEntrants)
		r.Post("/api/admin/entrants", h.handleCreateEntrant)
		r.Post("/api/admin/entrants/seed", h.handleSeedEntrants)
		r.Get("/api/admin/entrants/{id}", h.handleGetEntrant)
		r.Put("/api/admin/entrants/{id}", h.handleUpdateEntrant)
		r.Delete("/api/admin/entrants/{id}", h.handleDeleteEntrant)

		// Exceptions
		r.Get("/api/admin/exceptions", h.handleGetExceptions)
		r.Post("/api/admin/exceptions", h.handleCreateException)
		r.Delete("/api/admin/exceptions/{id}", h.handleDeleteException)

		// Tournament rules
		r.Get("/api/admin/tournament", h.handleGetTournament)
		r.Put("/api/admin/tournament", h.handleUpdateTournament)

		// Matching
		r.Post("/api/admin/matching/run", h.handleRunMatching)
		r.Get("/api/admin/matching", h.handleGetMatching)
		r.Post("/api/admin/matching/manual", h.handleManualPair)

		// Bouts
		r.Get("/api/admin/bouts/sheet.txt", h.handleGetBoutSheet)
		r.Get("/api/admin/bouts/{seq}", h.handleGetBout)
		r.Put("/api/admin/bouts/{seq}/outcome", h.handleRecordOutcome)
		r.Get("/api/admin/bouts/{seq}/qr", h.handleGetBoutQR)

		// Scoreboard
		r.Post("/api/admin/scoreboard/sync", h.handleSyncScoreboard)
		r.Post("/api/admin/scoreboard/publish", h.handlePublishCards)

		// Standings
		r.Get("/api/admin/standings", h.handleGetStandings)
		r.Get("/api/admin/standings/export.xlsx", h.handleExportStandings)
		r.Get("/api/admin/standings/chart.png", h.handleStandingsChart)

		// Settings
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Put("/api/admin/settings", h.handleUpdateSettings)

		// Database Management
		r.Post("/api/admin/reset", h.handleResetDatabase)
	})

	return r
}
