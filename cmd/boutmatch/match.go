package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/boutmatch/internal/config"
	"github.com/abrezinsky/boutmatch/internal/engine"
	"github.com/abrezinsky/boutmatch/internal/export"
	"github.com/abrezinsky/boutmatch/internal/models"
)

// rosterFile is the YAML layout read by the match command
type rosterFile struct {
	Teams []struct {
		ID         int    `yaml:"id"`
		Name       string `yaml:"name"`
		BaseTeamID *int   `yaml:"base_team_id"`
	} `yaml:"teams"`
	Entrants []struct {
		ID        int    `yaml:"id"`
		TeamID    int    `yaml:"team_id"`
		Name      string `yaml:"name"`
		Phenotype string `yaml:"phenotype"`
		AgeMonths int    `yaml:"age_months"`
		Weight    int    `yaml:"weight"`
	} `yaml:"entrants"`
	Exceptions [][2]int `yaml:"exceptions"`
}

// roster is a decoded roster file
type roster struct {
	teams      []models.Team
	entrants   []models.Entrant
	exceptions []models.Exception
}

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "pair a roster file offline and print the bout sheet",
		ArgsUsage: "ROSTER.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file with tournament rules", EnvVars: []string{"BOUTMATCH_CONFIG"}},
			&cli.IntFlag{Name: "quota", Usage: "per-team entrant quota (0 means unlimited)"},
			&cli.IntFlag{Name: "weight-tolerance", Usage: "maximum weight difference within a bout"},
			&cli.IntFlag{Name: "age-tolerance", Usage: "maximum age difference in months for juvenile bouts"},
		},
		Action: runMatch,
	}
}

func runMatch(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("match needs exactly one roster file", 2)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	rules := cfg.Tournament.Rules()
	if c.IsSet("quota") {
		rules.Quota = c.Int("quota")
	}
	if c.IsSet("weight-tolerance") {
		rules.WeightTolerance = c.Int("weight-tolerance")
	}
	if c.IsSet("age-tolerance") {
		rules.AgeTolerance = c.Int("age-tolerance")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read roster: %w", err)
	}
	r, err := parseRoster(data)
	if err != nil {
		return err
	}
	return writeMatch(c.App.Writer, r, rules)
}

// parseRoster decodes and checks a roster file
func parseRoster(data []byte) (roster, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return roster{}, fmt.Errorf("failed to unmarshal roster: %w", err)
	}

	var r roster
	for _, t := range file.Teams {
		r.teams = append(r.teams, models.Team{ID: t.ID, Name: t.Name, BaseTeamID: t.BaseTeamID})
	}
	for _, e := range file.Entrants {
		p := models.Phenotype(e.Phenotype)
		if !p.Valid() {
			return roster{}, fmt.Errorf("entrant %d: invalid phenotype %q", e.ID, e.Phenotype)
		}
		r.entrants = append(r.entrants, models.Entrant{
			ID:        e.ID,
			TeamID:    e.TeamID,
			Name:      e.Name,
			Phenotype: p,
			AgeMonths: e.AgeMonths,
			Weight:    e.Weight,
		})
	}
	for i, pair := range file.Exceptions {
		r.exceptions = append(r.exceptions, models.Exception{ID: i + 1, TeamAID: pair[0], TeamBID: pair[1]})
	}
	return r, nil
}

// writeMatch runs matching over the roster and writes the bout sheet
func writeMatch(w io.Writer, r roster, rules models.TournamentConfig) error {
	result, err := engine.Match(r.entrants, engine.NewTeams(r.teams), engine.NewExceptions(r.exceptions), rules)
	if err != nil {
		return err
	}
	result.RunID = uuid.NewString()

	names := make(export.TeamNames, len(r.teams))
	for _, t := range r.teams {
		names[t.ID] = t.Name
	}
	return export.WriteBoutSheet(w, result, names)
}
