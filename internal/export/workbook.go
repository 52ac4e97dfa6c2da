// Package export renders standings and bouts into downloadable formats.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// Sheet names in the standings workbook
const (
	SheetStandings = "Standings"
	SheetBouts     = "Bouts"
	SheetLeftovers = "Leftovers"
)

// TeamNames maps team ids to display names
type TeamNames map[int]string

// Name returns the display name for id, falling back to "team <id>"
func (n TeamNames) Name(id int) string {
	if name, ok := n[id]; ok {
		return name
	}
	return fmt.Sprintf("team %d", id)
}

// Workbook builds an XLSX file with standings, bouts and leftovers sheets.
// result may be nil when matching has not run.
func Workbook(rows []models.StandingsRow, result *models.MatchResult, names TeamNames) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStandings); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetBouts); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetLeftovers); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	standings := [][]interface{}{{"Rank", "Team", "Wins", "Draws", "Losses", "Winning Duration (s)", "Points"}}
	for i, r := range rows {
		standings = append(standings, []interface{}{i + 1, r.TeamName, r.Wins, r.Draws, r.Losses, r.WinningDurationSeconds, r.Points})
	}
	if err := writeRows(f, SheetStandings, standings, bold); err != nil {
		return nil, err
	}

	bouts := [][]interface{}{{"Seq", "Entrant A", "Team A", "Entrant B", "Team B", "Outcome", "Duration (s)", "Manual"}}
	leftovers := [][]interface{}{{"Entrant", "Team", "Phenotype", "Age (months)", "Weight", "Reason"}}
	if result != nil {
		for _, b := range result.Bouts {
			var duration interface{}
			if b.DurationSeconds != nil {
				duration = *b.DurationSeconds
			}
			bouts = append(bouts, []interface{}{
				b.Seq,
				b.EntrantA.Name, names.Name(b.EntrantA.TeamID),
				b.EntrantB.Name, names.Name(b.EntrantB.TeamID),
				string(b.Outcome), duration, b.Manual,
			})
		}
		for _, l := range result.Leftovers {
			e := l.Entrant
			leftovers = append(leftovers, []interface{}{
				e.Name, names.Name(e.TeamID), string(e.Phenotype), e.AgeMonths, e.Weight, string(l.Reason),
			})
		}
	}
	if err := writeRows(f, SheetBouts, bouts, bold); err != nil {
		return nil, err
	}
	if err := writeRows(f, SheetLeftovers, leftovers, bold); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
