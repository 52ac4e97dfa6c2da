package handlers

import (
	"net/http"

	"github.com/abrezinsky/boutmatch/internal/auth"
	"github.com/abrezinsky/boutmatch/internal/services"
	"github.com/abrezinsky/boutmatch/internal/websocket"
)

// Services groups the service dependencies of the HTTP layer
type Services struct {
	Team      services.TeamServicer
	Entrant   services.EntrantServicer
	Exception services.ExceptionServicer
	Settings  services.SettingsServicer
	Matching  services.MatchingServicer
	Standings services.StandingsServicer
	Bout      services.BoutServicer
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Team      services.TeamServicer
	Entrant   services.EntrantServicer
	Exception services.ExceptionServicer
	Settings  services.SettingsServicer
	Matching  services.MatchingServicer
	Standings services.StandingsServicer
	Bout      services.BoutServicer
	Auth      *auth.Auth
	Hub       *websocket.Hub
	Metrics   http.Handler
	Log       HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies.
// metricsHandler may be nil, in which case /metrics is not mounted.
func New(svc Services, adminAuth *auth.Auth, hub *websocket.Hub, metricsHandler http.Handler, log HTTPLogger) *Handlers {
	return &Handlers{
		Team:      svc.Team,
		Entrant:   svc.Entrant,
		Exception: svc.Exception,
		Settings:  svc.Settings,
		Matching:  svc.Matching,
		Standings: svc.Standings,
		Bout:      svc.Bout,
		Auth:      adminAuth,
		Hub:       hub,
		Metrics:   metricsHandler,
		Log:       log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// TestPassword is the admin password used by NewForTesting
const TestPassword = "test-password"

// NewForTesting creates a Handlers instance without a websocket hub or
// metrics endpoint, guarded by an auth instance using TestPassword.
func NewForTesting(svc Services) *Handlers {
	return New(svc, auth.New(TestPassword), nil, nil, NoopHTTPLogger{})
}
