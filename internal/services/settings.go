package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abrezinsky/boutmatch/internal/engine"
	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

// Settings keys
const (
	settingTournament    = "tournament"
	settingBaseURL       = "base_url"
	settingScoreboardURL = "scoreboard_url"
)

// TournamentConfigProvider supplies the active tournament rules
type TournamentConfigProvider interface {
	GetTournamentConfig(ctx context.Context) (models.TournamentConfig, error)
}

// SettingsServiceRepository defines the repository methods needed by SettingsService
type SettingsServiceRepository interface {
	repository.SettingsRepository
	repository.MatchRepository
}

// SettingsService handles settings-related business logic
type SettingsService struct {
	log      logger.Logger
	repo     SettingsServiceRepository
	defaults models.TournamentConfig

	// runLock serializes resets with matching runs, manual pairs and outcomes
	runLock sync.Locker
}

// NewSettingsService creates a new SettingsService. defaults are the rules
// used until an operator stores their own.
func NewSettingsService(log logger.Logger, repo SettingsServiceRepository, defaults models.TournamentConfig) *SettingsService {
	return &SettingsService{log: log, repo: repo, defaults: defaults}
}

// SetRunLock shares the lock guarding the current match result, so a reset
// cannot interleave with an operation that rewrites it.
func (s *SettingsService) SetRunLock(l sync.Locker) {
	s.runLock = l
}

// GetTournamentConfig returns the stored rules, or the defaults when none are stored
func (s *SettingsService) GetTournamentConfig(ctx context.Context) (models.TournamentConfig, error) {
	raw, err := s.repo.GetSetting(ctx, settingTournament)
	if err != nil {
		if err == repository.ErrNotFound {
			return s.defaults, nil
		}
		return models.TournamentConfig{}, errors.Internal(err)
	}
	var cfg models.TournamentConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return models.TournamentConfig{}, errors.Wrap(err, errors.ErrInternal, "stored tournament config is corrupt")
	}
	return cfg, nil
}

// UpdateTournamentConfig validates and stores new rules. They apply to the
// next matching run and to standings immediately.
func (s *SettingsService) UpdateTournamentConfig(ctx context.Context, cfg models.TournamentConfig) error {
	if err := engine.ValidateConfig(cfg); err != nil {
		return err
	}
	data, _ := json.Marshal(cfg) // plain ints never fail to marshal
	if err := s.repo.SetSetting(ctx, settingTournament, string(data)); err != nil {
		return errors.Internal(err)
	}
	s.log.Info("tournament config updated",
		"weight_tolerance", cfg.WeightTolerance,
		"age_tolerance", cfg.AgeTolerance,
		"quota", cfg.Quota,
		"min_weight", cfg.MinWeight,
		"max_weight", cfg.MaxWeight)
	return nil
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.optional(ctx, settingBaseURL)
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, settingBaseURL, url)
}

// GetScoreboardURL returns the configured scoreboard URL
func (s *SettingsService) GetScoreboardURL(ctx context.Context) (string, error) {
	return s.optional(ctx, settingScoreboardURL)
}

// SetScoreboardURL saves the scoreboard URL
func (s *SettingsService) SetScoreboardURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, settingScoreboardURL, url)
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

func (s *SettingsService) optional(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// AllSettings returns commonly used settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	settings["base_url"] = baseURL

	scoreboardURL, err := s.GetScoreboardURL(ctx)
	if err != nil {
		return nil, err
	}
	settings["scoreboard_url"] = scoreboardURL

	cfg, err := s.GetTournamentConfig(ctx)
	if err != nil {
		return nil, err
	}
	settings["tournament"] = cfg

	return settings, nil
}

// Settings represents application settings for update operations
type Settings struct {
	BaseURL       string
	ScoreboardURL string
}

// UpdateSettings updates multiple settings at once. Empty fields are left unchanged.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.ScoreboardURL != "" {
		if err := s.SetScoreboardURL(ctx, settings.ScoreboardURL); err != nil {
			return err
		}
	}
	return nil
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// resetOrder lists the resettable tables in an order that never leaves a
// dangling reference behind.
var resetOrder = []string{"bouts", "leftovers", "exceptions", "entrants", "teams", "settings"}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"bouts": true, "leftovers": true, "exceptions": true, "entrants": true, "teams": true, "settings": true,
}

// ResetTables validates and clears the specified tables. Clearing entrants or
// teams also clears the current match; clearing teams also clears exceptions.
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	selected := make(map[string]bool)
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		selected[table] = true
	}
	if selected["teams"] {
		selected["exceptions"] = true
	}
	if selected["teams"] || selected["entrants"] || selected["bouts"] || selected["leftovers"] {
		selected["bouts"] = true
		selected["leftovers"] = true
	}

	if s.runLock != nil {
		s.runLock.Lock()
		defer s.runLock.Unlock()
	}

	var cleared []string
	for _, table := range resetOrder {
		if !selected[table] {
			continue
		}
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
		cleared = append(cleared, table)
	}

	// Drop the run metadata too so the match reads as never run.
	if selected["bouts"] && !selected["settings"] {
		if err := s.repo.SaveMatchResult(ctx, models.MatchResult{}); err != nil {
			return nil, errors.Internal(err)
		}
	}

	s.log.Warn("tables reset", "tables", cleared)
	return &ResetTablesResult{
		Tables:  cleared,
		Message: "Successfully deleted data from tables",
	}, nil
}
