package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/abrezinsky/boutmatch/internal/config"
	"github.com/abrezinsky/boutmatch/internal/logger"
)

const testRoster = `
teams:
  - id: 1
    name: Ridgeback
  - id: 2
    name: Copperhead
  - id: 3
    name: Annex
    base_team_id: 1
entrants:
  - {id: 1, team_id: 1, name: Ada, phenotype: light, age_months: 20, weight: 50}
  - {id: 2, team_id: 2, name: Bo, phenotype: light, age_months: 24, weight: 51}
  - {id: 3, team_id: 3, name: Cyd, phenotype: dark, age_months: 30, weight: 70}
  - {id: 4, team_id: 1, name: Dot, phenotype: dark, age_months: 30, weight: 70}
  - {id: 5, team_id: 9, name: Eli, phenotype: dark, age_months: 30, weight: 70}
exceptions:
  - [1, 2]
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newCLI()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"boutmatch"}, args...))
	return out.String(), err
}

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write roster: %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "boutmatch "+version) {
		t.Errorf("expected version output, got %q", out)
	}
}

func TestMatchCommand_PrintsBoutSheet(t *testing.T) {
	out, err := runCLI(t, "match", writeRoster(t, testRoster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Bout sheet", "LEFTOVERS", "Eli", "unresolved_team", "unknown team 9"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	// Ridgeback and Copperhead are excepted and Annex is a front of Ridgeback
	if strings.Contains(out, "pending") {
		t.Errorf("expected no bouts, got:\n%s", out)
	}
	if n := strings.Count(out, "unmatched"); n != 4 {
		t.Errorf("expected 4 unmatched entrants, got %d:\n%s", n, out)
	}
}

func TestMatchCommand_PairsWithoutException(t *testing.T) {
	roster := strings.Replace(testRoster, "exceptions:\n  - [1, 2]\n", "", 1)

	out, err := runCLI(t, "match", writeRoster(t, roster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Ada") || !strings.Contains(out, "Bo") {
		t.Fatalf("expected Ada and Bo in output:\n%s", out)
	}
	if !strings.Contains(out, "pending") {
		t.Errorf("expected a pending bout:\n%s", out)
	}
}

func TestMatchCommand_RequiresRosterArgument(t *testing.T) {
	if _, err := runCLI(t, "match"); err == nil {
		t.Error("expected error without a roster file")
	}
}

func TestMatchCommand_MissingFile(t *testing.T) {
	_, err := runCLI(t, "match", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read roster") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestParseRoster_InvalidPhenotype(t *testing.T) {
	_, err := parseRoster([]byte("entrants:\n  - {id: 7, team_id: 1, name: X, phenotype: spotted, weight: 10}\n"))
	if err == nil || !strings.Contains(err.Error(), "spotted") {
		t.Errorf("expected phenotype error, got %v", err)
	}
}

func TestParseRoster_Exceptions(t *testing.T) {
	r, err := parseRoster([]byte(testRoster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.teams) != 3 || len(r.entrants) != 5 {
		t.Fatalf("expected 3 teams and 5 entrants, got %d and %d", len(r.teams), len(r.entrants))
	}
	if r.teams[2].BaseTeamID == nil || *r.teams[2].BaseTeamID != 1 {
		t.Error("expected Annex to be a front of team 1")
	}
	if len(r.exceptions) != 1 || r.exceptions[0].TeamAID != 1 || r.exceptions[0].TeamBID != 2 {
		t.Errorf("unexpected exceptions %+v", r.exceptions)
	}
}

func TestLoadServeConfig_FlagsOverride(t *testing.T) {
	var cfg *config.Config
	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  "serve",
			Flags: serveCommand().Flags,
			Action: func(c *cli.Context) error {
				var err error
				cfg, err = loadServeConfig(c)
				return err
			},
		}},
	}

	err := app.Run([]string{"boutmatch", "serve", "--port", "9090", "--db", "other.db", "--adminpw", "pw", "--loglevel", "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Database.Path != "other.db" || cfg.Server.AdminPassword != "pw" || cfg.Log.Level != "debug" {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoadServeConfig_InvalidPort(t *testing.T) {
	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  "serve",
			Flags: serveCommand().Flags,
			Action: func(c *cli.Context) error {
				_, err := loadServeConfig(c)
				return err
			},
		}},
	}

	if err := app.Run([]string{"boutmatch", "serve", "--port", "0"}); err == nil {
		t.Error("expected invalid port error")
	}
}

func TestHandleKey_TogglesHTTPLogging(t *testing.T) {
	var out bytes.Buffer
	log := logger.New()

	handleKey(&out, 'h', log, func() {})
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging enabled")
	}
	handleKey(&out, 'H', log, func() {})
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging disabled")
	}
}

func TestHandleKey_CyclesLogLevel(t *testing.T) {
	var out bytes.Buffer
	log := logger.NewWithLevel(slog.LevelError)

	handleKey(&out, 'l', log, func() {})
	if log.GetLevel() != slog.LevelDebug {
		t.Errorf("expected debug after error, got %v", log.GetLevel())
	}
	handleKey(&out, 'l', log, func() {})
	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected info after debug, got %v", log.GetLevel())
	}
}

func TestReadKeys_StopsOnQuit(t *testing.T) {
	var out bytes.Buffer
	log := logger.New()
	quits := 0

	readKeys(strings.NewReader("h?qh"), &out, log, func() { quits++ })

	if quits != 1 {
		t.Errorf("expected quit once, got %d", quits)
	}
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected keys after q to be ignored")
	}
	if !strings.Contains(out.String(), "Keyboard Shortcuts") {
		t.Error("expected help output")
	}
}

func TestPrintLogo(t *testing.T) {
	var out bytes.Buffer
	printLogo(&out)
	if strings.Count(out.String(), "║") != 10 {
		t.Errorf("expected five framed logo lines, got:\n%s", out.String())
	}
}
