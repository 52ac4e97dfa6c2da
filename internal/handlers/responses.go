package handlers

// LoginResponse carries the session token for clients that cannot hold cookies
type LoginResponse struct {
	Token string `json:"token"`
}

// IDResponse is returned by create operations
type IDResponse struct {
	ID int64 `json:"id"`
}

// SeedResponse is the response for demo entrant generation
type SeedResponse struct {
	Added int `json:"added"`
}

// PublishResponse is the response for publishing bout cards
type PublishResponse struct {
	Published int `json:"published"`
}

// SettingsResponse is the response for settings
type SettingsResponse struct {
	BaseURL       string `json:"base_url"`
	ScoreboardURL string `json:"scoreboard_url"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status    string `json:"status"`
	WSClients int    `json:"ws_clients"`
}
