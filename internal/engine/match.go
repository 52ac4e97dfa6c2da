package engine

import "github.com/abrezinsky/boutmatch/internal/models"

// Match partitions the roster and pairs the main subsets. Leftovers from the
// partition come first, followed by entrants the pairing pass left unmatched.
// The returned result has no RunID; callers assign one.
func Match(entrants []models.Entrant, teams Teams, exceptions Exceptions, cfg models.TournamentConfig) (models.MatchResult, error) {
	partition, err := PartitionRoster(entrants, teams, cfg)
	if err != nil {
		return models.MatchResult{}, err
	}
	pairing := RunPairing(partition.MainByTeam, teams, exceptions, cfg)

	leftovers := make([]models.Leftover, 0, len(partition.Leftovers)+len(pairing.Leftovers))
	leftovers = append(leftovers, partition.Leftovers...)
	for _, e := range pairing.Leftovers {
		leftovers = append(leftovers, models.Leftover{Entrant: e, Reason: models.ReasonUnmatched})
	}
	bouts := pairing.Bouts
	if bouts == nil {
		bouts = []models.Bout{}
	}

	return models.MatchResult{
		Bouts:       bouts,
		Leftovers:   leftovers,
		Warnings:    partition.Warnings,
		NothingToDo: pairing.NothingToDo,
	}, nil
}
