package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boutmatch.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("expected default port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "boutmatch.db" {
		t.Errorf("expected default db path, got %q", cfg.Database.Path)
	}
	if cfg.Tournament.PointsForWin != 3 {
		t.Errorf("expected 3 points for a win, got %d", cfg.Tournament.PointsForWin)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
log:
  level: debug
  format: json
tournament:
  weight_tolerance: 2
  quota: 4
  min_weight: 50
  max_weight: 80
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json format, got %q", cfg.Log.Format)
	}
	rules := cfg.Tournament.Rules()
	if rules.WeightTolerance != 2 || rules.Quota != 4 || rules.MinWeight != 50 || rules.MaxWeight != 80 {
		t.Errorf("unexpected rules: %+v", rules)
	}
	if rules.PointsForDraw != 1 {
		t.Errorf("expected untouched default points for draw, got %d", rules.PointsForDraw)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\ndatabase:\n  path: file.db\n")
	t.Setenv("BOUTMATCH_PORT", "7070")
	t.Setenv("BOUTMATCH_DB", "env.db")
	t.Setenv("BOUTMATCH_SCOREBOARD_URL", "http://scores.local")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "env.db" {
		t.Errorf("expected env db path, got %q", cfg.Database.Path)
	}
	if cfg.Scoreboard.URL != "http://scores.local" {
		t.Errorf("expected scoreboard url from env, got %q", cfg.Scoreboard.URL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad yaml", "server: [", "unmarshal"},
		{"bad port", "server:\n  port: 70000\n", "invalid server port"},
		{"bad format", "log:\n  format: xml\n", "invalid log format"},
		{"weights reversed", "tournament:\n  min_weight: 90\n  max_weight: 10\n", "exceeds max_weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
