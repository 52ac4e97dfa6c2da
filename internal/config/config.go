package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// Config holds the process configuration. Tournament rules live in the
// database; the values here only seed a fresh database.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Scoreboard ScoreboardConfig `yaml:"scoreboard"`
	Tournament TournamentConfig `yaml:"tournament"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int    `yaml:"port" env:"BOUTMATCH_PORT"`
	AdminPassword string `yaml:"admin_password" env:"BOUTMATCH_ADMIN_PASSWORD"`
	BaseURL       string `yaml:"base_url" env:"BOUTMATCH_BASE_URL"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `yaml:"level" env:"BOUTMATCH_LOG_LEVEL"`
	Format      string `yaml:"format" env:"BOUTMATCH_LOG_FORMAT"` // text|json
	HTTPLogging bool   `yaml:"http_logging" env:"BOUTMATCH_HTTP_LOGGING"`
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"BOUTMATCH_DB"`
}

// ScoreboardConfig points at the live-scoring service outcomes are pulled from.
type ScoreboardConfig struct {
	URL    string `yaml:"url" env:"BOUTMATCH_SCOREBOARD_URL"`
	APIKey string `yaml:"api_key" env:"BOUTMATCH_SCOREBOARD_API_KEY"`
}

// TournamentConfig holds default matching and scoring rules.
type TournamentConfig struct {
	WeightTolerance int `yaml:"weight_tolerance"`
	AgeTolerance    int `yaml:"age_tolerance"`
	Quota           int `yaml:"quota"`
	MinWeight       int `yaml:"min_weight"`
	MaxWeight       int `yaml:"max_weight"`
	PointsForWin    int `yaml:"points_for_win"`
	PointsForDraw   int `yaml:"points_for_draw"`
}

// Rules converts the defaults into the engine's config type
func (t TournamentConfig) Rules() models.TournamentConfig {
	return models.TournamentConfig{
		WeightTolerance: t.WeightTolerance,
		AgeTolerance:    t.AgeTolerance,
		Quota:           t.Quota,
		MinWeight:       t.MinWeight,
		MaxWeight:       t.MaxWeight,
		PointsForWin:    t.PointsForWin,
		PointsForDraw:   t.PointsForDraw,
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8081},
		Log:      LogConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{Path: "boutmatch.db"},
		Tournament: TournamentConfig{
			WeightTolerance: 1,
			AgeTolerance:    2,
			Quota:           0,
			MinWeight:       0,
			MaxWeight:       1000,
			PointsForWin:    3,
			PointsForDraw:   1,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (lowest first).
// An empty filename skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously broken values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.Tournament.MinWeight > c.Tournament.MaxWeight {
		return fmt.Errorf("tournament min_weight %d exceeds max_weight %d", c.Tournament.MinWeight, c.Tournament.MaxWeight)
	}
	return nil
}
