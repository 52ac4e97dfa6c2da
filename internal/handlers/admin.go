package handlers

import (
	"bytes"
	"net/http"

	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/services"
)

// ==================== Teams ====================

func (h *Handlers) handleGetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Team.ListTeams(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, teams)
}

func (h *Handlers) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	team, err := h.Team.GetTeam(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Team.CreateTeam(r.Context(), services.TeamInput{Name: req.Name, BaseTeamID: req.BaseTeamID})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, IDResponse{ID: id})
}

func (h *Handlers) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req TeamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Team.UpdateTeam(r.Context(), id, services.TeamInput{Name: req.Name, BaseTeamID: req.BaseTeamID}); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Team updated")
}

func (h *Handlers) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Team.DeleteTeam(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Entrants ====================

func (h *Handlers) handleGetEntrants(w http.ResponseWriter, r *http.Request) {
	entrants, err := h.Entrant.ListEntrants(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entrants)
}

func (h *Handlers) handleGetEntrant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	entrant, err := h.Entrant.GetEntrant(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entrant)
}

func (h *Handlers) handleCreateEntrant(w http.ResponseWriter, r *http.Request) {
	var req EntrantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Entrant.CreateEntrant(r.Context(), req.entrant(0))
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, IDResponse{ID: id})
}

func (h *Handlers) handleUpdateEntrant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req EntrantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Entrant.UpdateEntrant(r.Context(), req.entrant(id)); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Entrant updated")
}

func (h *Handlers) handleDeleteEntrant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Entrant.DeleteEntrant(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSeedEntrants(w http.ResponseWriter, r *http.Request) {
	var req SeedEntrantsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	added, err := h.Entrant.SeedMockEntrants(r.Context(), req.Count, req.Seed)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, SeedResponse{Added: added})
}

func (req EntrantRequest) entrant(id int) models.Entrant {
	return models.Entrant{
		ID:        id,
		TeamID:    req.TeamID,
		Name:      req.Name,
		Phenotype: req.Phenotype,
		AgeMonths: req.AgeMonths,
		Weight:    req.Weight,
	}
}

// ==================== Exceptions ====================

func (h *Handlers) handleGetExceptions(w http.ResponseWriter, r *http.Request) {
	exceptions, err := h.Exception.ListExceptions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, exceptions)
}

func (h *Handlers) handleCreateException(w http.ResponseWriter, r *http.Request) {
	var req ExceptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Exception.CreateException(r.Context(), req.TeamAID, req.TeamBID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, IDResponse{ID: id})
}

func (h *Handlers) handleDeleteException(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Exception.DeleteException(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Tournament rules ====================

func (h *Handlers) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Settings.GetTournamentConfig(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, cfg)
}

func (h *Handlers) handleUpdateTournament(w http.ResponseWriter, r *http.Request) {
	var cfg models.TournamentConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.UpdateTournamentConfig(r.Context(), cfg); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, cfg)
}

// ==================== Matching ====================

func (h *Handlers) handleRunMatching(w http.ResponseWriter, r *http.Request) {
	result, err := h.Matching.RunMatching(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleGetMatching(w http.ResponseWriter, r *http.Request) {
	result, err := h.Matching.CurrentResult(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleManualPair(w http.ResponseWriter, r *http.Request) {
	var req ManualPairRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	bout, err := h.Matching.ManualPair(r.Context(), req.EntrantA, req.EntrantB)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, bout)
}

// ==================== Bouts ====================

func (h *Handlers) handleGetBout(w http.ResponseWriter, r *http.Request) {
	seq, err := parseSeqParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	bout, err := h.Bout.GetBout(r.Context(), seq)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, bout)
}

func (h *Handlers) handleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	seq, err := parseSeqParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req OutcomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	bout, err := h.Matching.RecordOutcome(r.Context(), seq, req.Outcome, req.DurationSeconds)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, bout)
}

func (h *Handlers) handleGetBoutQR(w http.ResponseWriter, r *http.Request) {
	seq, err := parseSeqParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Bout.BoutQR(r.Context(), seq)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (h *Handlers) handleGetBoutSheet(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Bout.WriteBoutSheet(r.Context(), &buf); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

// ==================== Scoreboard ====================

func (h *Handlers) handleSyncScoreboard(w http.ResponseWriter, r *http.Request) {
	var req ScoreboardRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	summary, err := h.Matching.SyncOutcomes(r.Context(), req.URL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, summary)
}

func (h *Handlers) handlePublishCards(w http.ResponseWriter, r *http.Request) {
	var req ScoreboardRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	n, err := h.Matching.PublishCards(r.Context(), req.URL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, PublishResponse{Published: n})
}

// ==================== Standings ====================

func (h *Handlers) handleGetStandings(w http.ResponseWriter, r *http.Request) {
	view, err := h.Standings.Standings(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, view)
}

func (h *Handlers) handleExportStandings(w http.ResponseWriter, r *http.Request) {
	data, err := h.Standings.ExportWorkbook(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="standings.xlsx"`)
	w.Write(data)
}

func (h *Handlers) handleStandingsChart(w http.ResponseWriter, r *http.Request) {
	png, err := h.Standings.Chart(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	baseURL, err := h.Settings.GetBaseURL(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	scoreboardURL, err := h.Settings.GetScoreboardURL(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, SettingsResponse{BaseURL: baseURL, ScoreboardURL: scoreboardURL})
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.UpdateSettings(r.Context(), services.Settings{
		BaseURL:       req.BaseURL,
		ScoreboardURL: req.ScoreboardURL,
	}); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Settings updated")
}

// ==================== Database Management ====================

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// ==================== Health ====================

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.Hub != nil {
		resp.WSClients = h.Hub.ClientCount()
	}
	respondOK(w, resp)
}
