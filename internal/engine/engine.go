// Package engine implements bout matching and standings scoring.
//
// Every function in this package is a pure computation over the snapshot it
// is given. Nothing here reads or writes storage, and nothing is remembered
// between calls.
package engine

import (
	"sort"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// Teams is an id-indexed snapshot of the team table
type Teams map[int]models.Team

// NewTeams indexes a team list by id
func NewTeams(teams []models.Team) Teams {
	t := make(Teams, len(teams))
	for _, team := range teams {
		t[team.ID] = team
	}
	return t
}

// BaseOf resolves a team id to its base team id.
// The second return value is false when the team is unknown.
func (t Teams) BaseOf(teamID int) (int, bool) {
	team, ok := t[teamID]
	if !ok {
		return 0, false
	}
	return team.BaseID(), true
}

type teamPair [2]int

func newTeamPair(a, b int) teamPair {
	if a > b {
		a, b = b, a
	}
	return teamPair{a, b}
}

// Exceptions is a symmetric set of forbidden base-team pairings
type Exceptions map[teamPair]struct{}

// NewExceptions builds the set from exception records
func NewExceptions(list []models.Exception) Exceptions {
	ex := make(Exceptions, len(list))
	for _, e := range list {
		ex.Add(e.TeamAID, e.TeamBID)
	}
	return ex
}

// Add forbids bouts between base teams a and b
func (ex Exceptions) Add(a, b int) {
	ex[newTeamPair(a, b)] = struct{}{}
}

// Excepted reports whether base teams a and b may never meet
func (ex Exceptions) Excepted(a, b int) bool {
	_, found := ex[newTeamPair(a, b)]
	return found
}

// sortedKeys returns the map keys in ascending order
func sortedKeys(m map[int][]models.Entrant) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
