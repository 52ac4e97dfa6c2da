package engine

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/abrezinsky/boutmatch/internal/models"
)

func baseTeam(id int) models.Team {
	return models.Team{ID: id, Name: teamName(id)}
}

func frontTeam(id, base int) models.Team {
	b := base
	return models.Team{ID: id, Name: teamName(id), BaseTeamID: &b}
}

func teamName(id int) string {
	names := map[int]string{
		1: "Ridgeback", 2: "Copperhead", 3: "Blue Hollow", 4: "Ashford",
		5: "Ridgeback Annex", 6: "Millpond",
	}
	if n, ok := names[id]; ok {
		return n
	}
	return "Team"
}

func entrant(id, teamID, weight, age int, p models.Phenotype) models.Entrant {
	return models.Entrant{ID: id, TeamID: teamID, Weight: weight, AgeMonths: age, Phenotype: p}
}

func openConfig() models.TournamentConfig {
	return models.TournamentConfig{
		WeightTolerance: 1,
		AgeTolerance:    2,
		MinWeight:       0,
		MaxWeight:       1000,
		PointsForWin:    3,
		PointsForDraw:   1,
	}
}

// randomRoster builds a reproducible roster over a handful of teams, some of
// them fronts, with weights clustered tightly enough that most entrants find
// a partner.
func randomRoster(seed uint64, n int) ([]models.Entrant, []models.Team, []models.Exception) {
	faker := gofakeit.New(seed)

	teams := []models.Team{baseTeam(1), baseTeam(2), baseTeam(3), baseTeam(4), frontTeam(5, 1), baseTeam(6)}
	exceptions := []models.Exception{{ID: 1, TeamAID: 2, TeamBID: 3}}

	entrants := make([]models.Entrant, 0, n)
	for i := 1; i <= n; i++ {
		entrants = append(entrants, models.Entrant{
			ID:        i,
			TeamID:    teams[faker.Number(0, len(teams)-1)].ID,
			Name:      faker.FirstName(),
			Phenotype: models.Phenotypes[faker.Number(0, 1)],
			AgeMonths: faker.Number(6, 20),
			Weight:    faker.Number(60, 72),
		})
	}
	return entrants, teams, exceptions
}
