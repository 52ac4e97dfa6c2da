package engine

import (
	"math"
	"sort"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// ageWeight scales age difference against weight difference when scoring a candidate
const ageWeight = 100

// unlimitedAge is the age tolerance applied to the Mature class
const unlimitedAge = math.MaxInt

// PairingResult is the output of RunPairing
type PairingResult struct {
	Bouts       []models.Bout
	Leftovers   []models.Entrant
	NothingToDo bool
}

// RunPairing greedily pairs the main subsets. Juvenile entrants are matched
// with the configured age tolerance, Mature entrants with no age limit, and
// the two classes never meet. Juvenile bouts come first; sequence numbers run
// 1..N across both classes.
func RunPairing(mainByTeam map[int][]models.Entrant, teams Teams, exceptions Exceptions, cfg models.TournamentConfig) PairingResult {
	var juvenile, mature []models.Entrant
	for _, base := range sortedKeys(mainByTeam) {
		for _, e := range mainByTeam[base] {
			if e.AgeClass() == models.AgeClassJuvenile {
				juvenile = append(juvenile, e)
			} else {
				mature = append(mature, e)
			}
		}
	}
	if len(juvenile)+len(mature) < 2 {
		return PairingResult{
			Leftovers:   append(juvenile, mature...),
			NothingToDo: true,
		}
	}

	jb, jl := pairClass(juvenile, teams, exceptions, cfg.WeightTolerance, cfg.AgeTolerance)
	mb, ml := pairClass(mature, teams, exceptions, cfg.WeightTolerance, unlimitedAge)

	bouts := append(jb, mb...)
	for i := range bouts {
		bouts[i].Seq = i + 1
	}
	return PairingResult{
		Bouts:     bouts,
		Leftovers: append(jl, ml...),
	}
}

// pairClass runs the greedy single pass over one age class.
// It does not assign sequence numbers.
func pairClass(subset []models.Entrant, teams Teams, exceptions Exceptions, weightTol, ageTol int) ([]models.Bout, []models.Entrant) {
	sorted := make([]models.Entrant, len(subset))
	copy(sorted, subset)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight < sorted[j].Weight
		}
		return sorted[i].AgeMonths < sorted[j].AgeMonths
	})

	bases := make([]int, len(sorted))
	for i, e := range sorted {
		bases[i], _ = teams.BaseOf(e.TeamID)
	}
	available := make([]bool, len(sorted))
	for i := range available {
		available[i] = true
	}

	var bouts []models.Bout
	for i, a := range sorted {
		if !available[i] {
			continue
		}
		best, bestScore := -1, 0
		for j, b := range sorted {
			if j == i || !available[j] {
				continue
			}
			if !compatible(a, b, bases[i], bases[j], exceptions) {
				continue
			}
			dw := abs(a.Weight - b.Weight)
			da := abs(a.AgeMonths - b.AgeMonths)
			if dw > weightTol || da > ageTol {
				continue
			}
			score := dw + da*ageWeight
			if best < 0 || score < bestScore {
				best, bestScore = j, score
			}
		}
		if best < 0 {
			continue
		}
		available[i], available[best] = false, false
		bouts = append(bouts, models.Bout{
			EntrantA: a,
			EntrantB: sorted[best],
			Outcome:  models.OutcomePending,
		})
	}

	// An entrant left without a partner stays available, so whatever is
	// still available after the pass is the leftover list.
	var leftovers []models.Entrant
	for i, e := range sorted {
		if available[i] {
			leftovers = append(leftovers, e)
		}
	}
	return bouts, leftovers
}

// compatible applies the hard rules of automatic pairing
func compatible(a, b models.Entrant, baseA, baseB int, exceptions Exceptions) bool {
	if a.ID == b.ID {
		return false
	}
	if a.Phenotype != b.Phenotype || a.AgeClass() != b.AgeClass() {
		return false
	}
	if baseA == baseB {
		return false
	}
	return !exceptions.Excepted(baseA, baseB)
}
