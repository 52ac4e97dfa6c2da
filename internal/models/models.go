package models

// JuvenileMaxAgeMonths is the age threshold separating the two age classes.
// Entrants strictly younger than this are Juvenile.
const JuvenileMaxAgeMonths = 12

// Phenotype is the fixed categorical trait that must match for automatic pairing
type Phenotype string

const (
	PhenotypeLight Phenotype = "light"
	PhenotypeDark  Phenotype = "dark"
	PhenotypeMixed Phenotype = "mixed"
	PhenotypeOther Phenotype = "other"
)

// Phenotypes lists every accepted phenotype in display order
var Phenotypes = []Phenotype{PhenotypeLight, PhenotypeDark, PhenotypeMixed, PhenotypeOther}

// Valid reports whether p is one of the known phenotypes
func (p Phenotype) Valid() bool {
	for _, known := range Phenotypes {
		if p == known {
			return true
		}
	}
	return false
}

// AgeClass is derived from age-in-months and never stored
type AgeClass string

const (
	AgeClassJuvenile AgeClass = "juvenile"
	AgeClassMature   AgeClass = "mature"
)

// ClassifyAge returns the age class for an age in months
func ClassifyAge(ageMonths int) AgeClass {
	if ageMonths < JuvenileMaxAgeMonths {
		return AgeClassJuvenile
	}
	return AgeClassMature
}

// Team represents an organizational unit entrants are entered under.
// A team with BaseTeamID set is a front of that base team.
type Team struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	BaseTeamID *int   `json:"base_team_id,omitempty"`
}

// BaseID resolves the team to its base team id
func (t Team) BaseID() int {
	if t.BaseTeamID != nil {
		return *t.BaseTeamID
	}
	return t.ID
}

// IsFront reports whether the team is a front of another team
func (t Team) IsFront() bool {
	return t.BaseTeamID != nil
}

// Entrant represents a competing individual
type Entrant struct {
	ID        int       `json:"id"`
	TeamID    int       `json:"team_id"`
	Name      string    `json:"name"`
	Phenotype Phenotype `json:"phenotype"`
	AgeMonths int       `json:"age_months"`
	Weight    int       `json:"weight"` // ounces
}

// AgeClass derives the entrant's age class from its age in months
func (e Entrant) AgeClass() AgeClass {
	return ClassifyAge(e.AgeMonths)
}

// Exception forbids bouts between two base teams. Order is not meaningful.
type Exception struct {
	ID      int `json:"id"`
	TeamAID int `json:"team_a_id"`
	TeamBID int `json:"team_b_id"`
}

// TournamentConfig holds the matching and scoring rules
type TournamentConfig struct {
	WeightTolerance int `json:"weight_tolerance"`
	AgeTolerance    int `json:"age_tolerance"` // Juvenile class only
	Quota           int `json:"quota"`         // <= 0 means unlimited
	MinWeight       int `json:"min_weight"`
	MaxWeight       int `json:"max_weight"`
	PointsForWin    int `json:"points_for_win"`
	PointsForDraw   int `json:"points_for_draw"`
}

// Outcome is the state of a bout
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeWinA    Outcome = "win_a"
	OutcomeWinB    Outcome = "win_b"
	OutcomeDraw    Outcome = "draw"
)

// Decided reports whether the outcome is final
func (o Outcome) Decided() bool {
	return o == OutcomeWinA || o == OutcomeWinB || o == OutcomeDraw
}

// Bout represents a single contest between two entrants
type Bout struct {
	Seq             int     `json:"seq"`
	EntrantA        Entrant `json:"entrant_a"`
	EntrantB        Entrant `json:"entrant_b"`
	Outcome         Outcome `json:"outcome"`
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
	Manual          bool    `json:"manual"`
}

// LeftoverReason explains why an entrant was not paired automatically
type LeftoverReason string

const (
	ReasonIneligibleWeight LeftoverReason = "ineligible_weight"
	ReasonUnresolvedTeam   LeftoverReason = "unresolved_team"
	ReasonOverflow         LeftoverReason = "overflow"
	ReasonUnmatched        LeftoverReason = "unmatched"
)

// Leftover is an entrant without a bout
type Leftover struct {
	Entrant Entrant        `json:"entrant"`
	Reason  LeftoverReason `json:"reason"`
}

// StandingsRow is the derived per-team summary of decided bouts
type StandingsRow struct {
	TeamID                 int    `json:"team_id"`
	TeamName               string `json:"team_name"`
	Wins                   int    `json:"wins"`
	Draws                  int    `json:"draws"`
	Losses                 int    `json:"losses"`
	WinningDurationSeconds int    `json:"winning_duration_seconds"`
	Points                 int    `json:"points"`
}

// MatchResult is the full result aggregate of the latest matching run
type MatchResult struct {
	RunID       string     `json:"run_id"`
	Bouts       []Bout     `json:"bouts"`
	Leftovers   []Leftover `json:"leftovers"`
	Warnings    []string   `json:"warnings,omitempty"`
	NothingToDo bool       `json:"nothing_to_do"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
