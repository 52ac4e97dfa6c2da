package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/abrezinsky/boutmatch/internal/models"
)

const sheetColumn = 12

// WriteBoutSheet writes a fixed-width printable bout sheet: every bout in
// sequence order followed by the leftover pool.
func WriteBoutSheet(w io.Writer, result models.MatchResult, names TeamNames) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Bout sheet %s\n\n", result.RunID)
	fmt.Fprintf(bw, "%3s  %-12s %-12s %4s %3s  vs  %-12s %-12s %4s %3s  %s\n",
		"#", "ENTRANT A", "TEAM A", "WT", "AGE", "ENTRANT B", "TEAM B", "WT", "AGE", "RESULT")
	for _, b := range result.Bouts {
		a, c := b.EntrantA, b.EntrantB
		fmt.Fprintf(bw, "%3d  %-12s %-12s %4d %3d  vs  %-12s %-12s %4d %3d  %s\n",
			b.Seq,
			clip(a.Name), clip(names.Name(a.TeamID)), a.Weight, a.AgeMonths,
			clip(c.Name), clip(names.Name(c.TeamID)), c.Weight, c.AgeMonths,
			resultLabel(b))
	}
	if result.NothingToDo {
		fmt.Fprintln(bw, "(not enough entrants to pair)")
	}

	if len(result.Leftovers) > 0 {
		fmt.Fprintf(bw, "\nLEFTOVERS (%d)\n", len(result.Leftovers))
		for _, l := range result.Leftovers {
			e := l.Entrant
			fmt.Fprintf(bw, "     %-12s %-12s %4d %3d  %s\n",
				clip(e.Name), clip(names.Name(e.TeamID)), e.Weight, e.AgeMonths, l.Reason)
		}
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(bw, "! %s\n", warning)
	}

	return bw.Flush()
}

func resultLabel(b models.Bout) string {
	label := string(b.Outcome)
	if b.DurationSeconds != nil {
		d := *b.DurationSeconds
		label += fmt.Sprintf(" %d:%02d", d/60, d%60)
	}
	if b.Manual {
		label += " [manual]"
	}
	return label
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= sheetColumn {
		return s
	}
	return string(r[:sheetColumn-1]) + "~"
}
