package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/boutmatch/internal/auth"
	"github.com/abrezinsky/boutmatch/internal/config"
	"github.com/abrezinsky/boutmatch/internal/handlers"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/metrics"
	"github.com/abrezinsky/boutmatch/internal/repository"
	"github.com/abrezinsky/boutmatch/internal/services"
	"github.com/abrezinsky/boutmatch/internal/websocket"
	"github.com/abrezinsky/boutmatch/pkg/scoreboard"
)

const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	metrics  *metrics.Metrics

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, board scoreboard.Client, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	// Initialize services
	settingsService := services.NewSettingsService(log, repo, cfg.Tournament.Rules())
	matchingService := services.NewMatchingService(log, repo, settingsService, board, m)
	settingsService.SetRunLock(matchingService.RunLock())

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, matchingService, m)
	hub.Start()
	matchingService.SetBroadcaster(hub)

	h := handlers.New(handlers.Services{
		Team:      services.NewTeamService(log, repo),
		Entrant:   services.NewEntrantService(log, repo),
		Exception: services.NewExceptionService(log, repo),
		Settings:  settingsService,
		Matching:  matchingService,
		Standings: services.NewStandingsService(log, repo, settingsService),
		Bout:      services.NewBoutService(log, repo, settingsService),
	}, adminAuth, hub, m.Handler(), log)

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
		metrics:  m,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close shuts the HTTP server down, if running, and releases the database
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	srv := a.server
	a.server = nil
	a.mu.Unlock()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	return a.repo.Close()
}

// Run starts the HTTP server and blocks until it stops
func (a *App) Run(addr string) error {
	baseURL := a.cfg.Server.BaseURL
	if baseURL == "" {
		// Use detected LAN IP so bout QR codes work from phones on the same network
		ip := getPreferredIP(realNetworkProvider{})
		baseURL = fmt.Sprintf("http://%s%s", ip, addr)
	}
	a.setDefaultBaseURL(baseURL)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.server = srv
	a.mu.Unlock()

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Admin API", "url", baseURL+"/api/admin")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// setDefaultBaseURL stores the base URL used in bout QR codes unless one is
// already configured. A stored localhost URL is replaced.
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, "base_url")

	// Set default if empty or if current value uses localhost
	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.repo.SetSetting(ctx, "base_url", baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
