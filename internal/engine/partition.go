package engine

import (
	"fmt"
	"sort"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/models"
)

// Partition is the output of PartitionRoster
type Partition struct {
	// MainByTeam holds each base team's quota-bounded main subset, lightest first
	MainByTeam map[int][]models.Entrant
	Leftovers  []models.Leftover
	Warnings   []string
}

// MainCount returns the number of entrants across all main subsets
func (p Partition) MainCount() int {
	n := 0
	for _, group := range p.MainByTeam {
		n += len(group)
	}
	return n
}

// ValidateConfig checks a tournament config for internal consistency
func ValidateConfig(cfg models.TournamentConfig) error {
	if cfg.MinWeight > cfg.MaxWeight {
		return errors.Validationf("minimum weight %d is greater than maximum weight %d", cfg.MinWeight, cfg.MaxWeight)
	}
	if cfg.WeightTolerance < 0 {
		return errors.Validation("weight tolerance must not be negative")
	}
	if cfg.AgeTolerance < 0 {
		return errors.Validation("age tolerance must not be negative")
	}
	return nil
}

// PartitionRoster splits the entrant pool into per-team main subsets and leftovers.
// Leftovers are reported in the order ineligible weight, unresolved team, overflow.
func PartitionRoster(entrants []models.Entrant, teams Teams, cfg models.TournamentConfig) (Partition, error) {
	if err := ValidateConfig(cfg); err != nil {
		return Partition{}, err
	}

	var (
		ineligible []models.Leftover
		unresolved []models.Leftover
		warnings   []string
	)
	groups := make(map[int][]models.Entrant)

	for _, e := range entrants {
		if e.Weight < cfg.MinWeight || e.Weight > cfg.MaxWeight {
			ineligible = append(ineligible, models.Leftover{Entrant: e, Reason: models.ReasonIneligibleWeight})
			continue
		}
		base, ok := teams.BaseOf(e.TeamID)
		if !ok {
			unresolved = append(unresolved, models.Leftover{Entrant: e, Reason: models.ReasonUnresolvedTeam})
			warnings = append(warnings, fmt.Sprintf("entrant %d references unknown team %d", e.ID, e.TeamID))
			continue
		}
		groups[base] = append(groups[base], e)
	}

	main := make(map[int][]models.Entrant, len(groups))
	var overflow []models.Leftover
	for _, base := range sortedKeys(groups) {
		group := groups[base]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Weight < group[j].Weight
		})
		cut := len(group)
		if cfg.Quota > 0 && cfg.Quota < cut {
			cut = cfg.Quota
		}
		main[base] = group[:cut]
		for _, e := range group[cut:] {
			overflow = append(overflow, models.Leftover{Entrant: e, Reason: models.ReasonOverflow})
		}
	}

	leftovers := make([]models.Leftover, 0, len(ineligible)+len(unresolved)+len(overflow))
	leftovers = append(leftovers, ineligible...)
	leftovers = append(leftovers, unresolved...)
	leftovers = append(leftovers, overflow...)

	return Partition{MainByTeam: main, Leftovers: leftovers, Warnings: warnings}, nil
}
