package engine

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/models"
)

// SortKey selects the primary ordering of the standings table
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByPoints   SortKey = "points"
	SortByWins     SortKey = "wins"
	SortByDuration SortKey = "duration"
)

// Direction is the primary sort direction
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseSortKey validates a sort key, defaulting to points when empty
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortByPoints, nil
	case SortByName, SortByPoints, SortByWins, SortByDuration:
		return k, nil
	}
	return "", errors.InvalidInputf("unknown sort key %q", s)
}

// DefaultDirection is descending for points and wins, ascending otherwise
func DefaultDirection(key SortKey) Direction {
	if key == SortByPoints || key == SortByWins {
		return Descending
	}
	return Ascending
}

// SortState remembers the last requested ordering so a repeated request flips it
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Select returns the state after the caller asks for key
func (s SortState) Select(key SortKey) SortState {
	if s.Key == key {
		if s.Direction == Ascending {
			return SortState{Key: key, Direction: Descending}
		}
		return SortState{Key: key, Direction: Ascending}
	}
	return SortState{Key: key, Direction: DefaultDirection(key)}
}

// ComputeStandings aggregates decided bouts per team and orders the rows.
// Teams without a decided bout are left out. Whenever the primary key ties,
// higher points rank first, then lower winning duration.
func ComputeStandings(bouts []models.Bout, teams Teams, cfg models.TournamentConfig, key SortKey, dir Direction) []models.StandingsRow {
	byTeam := make(map[int]*models.StandingsRow)
	row := func(teamID int) *models.StandingsRow {
		r, ok := byTeam[teamID]
		if !ok {
			r = &models.StandingsRow{TeamID: teamID, TeamName: teams[teamID].Name}
			byTeam[teamID] = r
		}
		return r
	}

	for _, b := range bouts {
		if !b.Outcome.Decided() {
			continue
		}
		duration := 0
		if b.DurationSeconds != nil {
			duration = *b.DurationSeconds
		}
		a, c := row(b.EntrantA.TeamID), row(b.EntrantB.TeamID)
		switch b.Outcome {
		case models.OutcomeWinA:
			a.Wins++
			a.WinningDurationSeconds += duration
			c.Losses++
		case models.OutcomeWinB:
			c.Wins++
			c.WinningDurationSeconds += duration
			a.Losses++
		case models.OutcomeDraw:
			a.Draws++
			c.Draws++
		}
	}

	rows := make([]models.StandingsRow, 0, len(byTeam))
	for _, r := range byTeam {
		r.Points = r.Wins*cfg.PointsForWin + r.Draws*cfg.PointsForDraw
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TeamID < rows[j].TeamID })

	coll := collate.New(language.Und, collate.IgnoreCase)
	primary := func(x, y models.StandingsRow) int {
		switch key {
		case SortByName:
			return coll.CompareString(x.TeamName, y.TeamName)
		case SortByWins:
			return compareInt(x.Wins, y.Wins)
		case SortByDuration:
			return compareInt(x.WinningDurationSeconds, y.WinningDurationSeconds)
		default:
			return compareInt(x.Points, y.Points)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		x, y := rows[i], rows[j]
		if c := primary(x, y); c != 0 {
			if dir == Descending {
				return c > 0
			}
			return c < 0
		}
		if x.Points != y.Points {
			return x.Points > y.Points
		}
		return x.WinningDurationSeconds < y.WinningDurationSeconds
	})
	return rows
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
