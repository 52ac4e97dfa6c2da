package export

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abrezinsky/boutmatch/internal/models"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func intPtr(v int) *int { return &v }

func sampleNames() TeamNames {
	return TeamNames{1: "Ridgeback", 2: "Copperhead", 3: "Blue Hollow", 4: "Ashford", 5: "Ridgeback Annex", 6: "Millpond"}
}

func sampleResult() models.MatchResult {
	e := func(id, team, weight, age int, name string) models.Entrant {
		return models.Entrant{ID: id, TeamID: team, Name: name, Phenotype: models.PhenotypeLight, AgeMonths: age, Weight: weight}
	}
	return models.MatchResult{
		RunID: "run-7f3a",
		Bouts: []models.Bout{
			{Seq: 1, EntrantA: e(1, 1, 50, 5, "Ada"), EntrantB: e(2, 2, 51, 6, "Bo"), Outcome: models.OutcomePending},
			{Seq: 2, EntrantA: e(3, 3, 70, 40, "Cyrus"), EntrantB: e(4, 5, 71, 38, "Dee"), Outcome: models.OutcomeWinB, DurationSeconds: intPtr(95)},
			{Seq: 3, EntrantA: e(5, 6, 64, 22, "Florentina Marsh"), EntrantB: e(6, 4, 90, 30, "Gus"), Outcome: models.OutcomeDraw, DurationSeconds: intPtr(180), Manual: true},
		},
		Leftovers: []models.Leftover{
			{Entrant: e(11, 9, 44, 30, "Eve"), Reason: models.ReasonUnresolvedTeam},
			{Entrant: e(12, 6, 120, 50, "Hal"), Reason: models.ReasonIneligibleWeight},
		},
		Warnings: []string{"entrant 11 references unknown team 9"},
	}
}

func sampleRows() []models.StandingsRow {
	return []models.StandingsRow{
		{TeamID: 5, TeamName: "Ridgeback Annex", Wins: 1, WinningDurationSeconds: 95, Points: 3},
		{TeamID: 6, TeamName: "Millpond", Draws: 1, Points: 1},
		{TeamID: 4, TeamName: "Ashford", Draws: 1, Points: 1},
		{TeamID: 3, TeamName: "Blue Hollow", Losses: 1},
	}
}

func TestWriteBoutSheet_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteBoutSheet(&buf, sampleResult(), sampleNames()))
	g.Assert(t, "bout_sheet", buf.Bytes())
}

func TestWriteBoutSheet_NothingToDo_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	result := models.MatchResult{
		RunID:       "run-empty",
		NothingToDo: true,
		Leftovers: []models.Leftover{{
			Entrant: models.Entrant{ID: 1, TeamID: 1, Name: "Ada", AgeMonths: 5, Weight: 50},
			Reason:  models.ReasonUnmatched,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBoutSheet(&buf, result, sampleNames()))
	g.Assert(t, "bout_sheet_nothing_to_do", buf.Bytes())
}

func TestClip(t *testing.T) {
	assert.Equal(t, "Ada", clip("Ada"))
	assert.Equal(t, "exactlytwelv", clip("exactlytwelv"))
	assert.Equal(t, "Ridgeback A~", clip("Ridgeback Annex"))
	assert.Equal(t, "Ærøskøbing ~", clip("Ærøskøbing Østerby"))
}

func TestTeamNames_Fallback(t *testing.T) {
	names := TeamNames{1: "Ridgeback"}
	assert.Equal(t, "Ridgeback", names.Name(1))
	assert.Equal(t, "team 42", names.Name(42))
}

func TestWorkbook(t *testing.T) {
	result := sampleResult()
	data, err := Workbook(sampleRows(), &result, sampleNames())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStandings, SheetBouts, SheetLeftovers}, f.GetSheetList())

	standings, err := f.GetRows(SheetStandings)
	require.NoError(t, err)
	require.Len(t, standings, 5)
	assert.Equal(t, []string{"Rank", "Team", "Wins", "Draws", "Losses", "Winning Duration (s)", "Points"}, standings[0])
	assert.Equal(t, []string{"1", "Ridgeback Annex", "1", "0", "0", "95", "3"}, standings[1])

	bouts, err := f.GetRows(SheetBouts)
	require.NoError(t, err)
	require.Len(t, bouts, 4)
	assert.Equal(t, "Ridgeback Annex", bouts[2][4])
	assert.Equal(t, "win_b", bouts[2][5])
	assert.Equal(t, "95", bouts[2][6])
	assert.Equal(t, "TRUE", bouts[3][7])

	leftovers, err := f.GetRows(SheetLeftovers)
	require.NoError(t, err)
	require.Len(t, leftovers, 3)
	assert.Equal(t, "team 9", leftovers[1][1])
	assert.Equal(t, "ineligible_weight", leftovers[2][5])
}

func TestWorkbook_WithoutMatchResult(t *testing.T) {
	data, err := Workbook(nil, nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetBouts)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestStandingsChart(t *testing.T) {
	data, err := StandingsChart(sampleRows())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature), "expected PNG output")
}

func TestStandingsChart_AllZero(t *testing.T) {
	data, err := StandingsChart([]models.StandingsRow{{TeamID: 1, TeamName: "Ridgeback", Losses: 2}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}

func TestStandingsChart_Empty(t *testing.T) {
	data, err := StandingsChart(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}
