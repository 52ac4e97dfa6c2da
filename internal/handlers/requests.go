package handlers

import "github.com/abrezinsky/boutmatch/internal/models"

// LoginRequest represents an admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// TeamRequest represents a request to create or update a team
type TeamRequest struct {
	Name       string `json:"name"`
	BaseTeamID *int   `json:"base_team_id"`
}

// EntrantRequest represents a request to create or update an entrant
type EntrantRequest struct {
	TeamID    int              `json:"team_id"`
	Name      string           `json:"name"`
	Phenotype models.Phenotype `json:"phenotype"`
	AgeMonths int              `json:"age_months"`
	Weight    int              `json:"weight"`
}

// SeedEntrantsRequest represents a request to generate demo entrants
type SeedEntrantsRequest struct {
	Count int    `json:"count"`
	Seed  uint64 `json:"seed"`
}

// ExceptionRequest represents a request to forbid bouts between two teams
type ExceptionRequest struct {
	TeamAID int `json:"team_a_id"`
	TeamBID int `json:"team_b_id"`
}

// ManualPairRequest represents an operator-chosen pairing of two leftovers
type ManualPairRequest struct {
	EntrantA int `json:"entrant_a"`
	EntrantB int `json:"entrant_b"`
}

// OutcomeRequest represents a recorded bout outcome
type OutcomeRequest struct {
	Outcome         models.Outcome `json:"outcome"`
	DurationSeconds int            `json:"duration_seconds"`
}

// ScoreboardRequest optionally overrides the stored scoreboard URL
type ScoreboardRequest struct {
	URL string `json:"url"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	BaseURL       string `json:"base_url"`
	ScoreboardURL string `json:"scoreboard_url"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
