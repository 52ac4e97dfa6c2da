package engine

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/boutmatch/internal/models"
)

func manualFixture() ([]models.Leftover, Teams, Exceptions) {
	teams := NewTeams([]models.Team{baseTeam(1), baseTeam(2), baseTeam(3), frontTeam(5, 1)})
	ex := NewExceptions([]models.Exception{{TeamAID: 3, TeamBID: 2}})
	pool := []models.Leftover{
		{Entrant: entrant(1, 1, 50, 5, models.PhenotypeLight), Reason: models.ReasonUnmatched},
		{Entrant: entrant(2, 2, 58, 30, models.PhenotypeDark), Reason: models.ReasonOverflow},
		{Entrant: entrant(3, 3, 51, 5, models.PhenotypeLight), Reason: models.ReasonUnmatched},
		{Entrant: entrant(4, 5, 50, 5, models.PhenotypeLight), Reason: models.ReasonIneligibleWeight},
		{Entrant: entrant(9, 77, 50, 5, models.PhenotypeLight), Reason: models.ReasonUnresolvedTeam},
	}
	return pool, teams, ex
}

func TestValidateManualPair_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		a, b   int
		reason RejectReason
	}{
		{"unknown entrant", 1, 42, RejectNotInPool},
		{"same entrant twice", 1, 1, RejectNotInPool},
		{"front of same base team", 1, 4, RejectSameTeam},
		{"excepted teams", 2, 3, RejectExcepted},
		{"excepted teams reversed", 3, 2, RejectExcepted},
		{"unresolved team", 1, 9, RejectUnresolvedTeam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, teams, ex := manualFixture()
			before := append([]models.Leftover(nil), pool...)

			_, rest, err := ValidateManualPair(tt.a, tt.b, pool, teams, ex, 7)

			require.Error(t, err)
			var rej *Rejection
			require.True(t, stderrors.As(err, &rej))
			assert.Equal(t, tt.reason, rej.Reason)
			assert.Nil(t, rest)
			assert.Equal(t, before, pool, "pool must be unchanged")
		})
	}
}

func TestValidateManualPair_AllowsCrossPhenotypeAndAge(t *testing.T) {
	pool, teams, ex := manualFixture()

	bout, rest, err := ValidateManualPair(1, 2, pool, teams, ex, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, bout.Seq)
	assert.Equal(t, 1, bout.EntrantA.ID)
	assert.Equal(t, 2, bout.EntrantB.ID)
	assert.True(t, bout.Manual)
	assert.Equal(t, models.OutcomePending, bout.Outcome)
	assert.Equal(t, []int{3, 4, 9}, leftoverIDs(rest))
	assert.Len(t, pool, 5, "input pool must not shrink")
}

func TestValidateManualPair_IneligibleEntrantsCanBeForced(t *testing.T) {
	pool, teams, ex := manualFixture()

	bout, rest, err := ValidateManualPair(4, 3, pool, teams, ex, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, bout.EntrantA.ID)
	assert.Equal(t, 3, bout.EntrantB.ID)
	assert.Equal(t, []int{1, 2, 9}, leftoverIDs(rest))
}

func TestRejection_Error(t *testing.T) {
	err := &Rejection{Reason: RejectSameTeam, EntrantA: 3, EntrantB: 8}
	assert.Equal(t, "entrants 3 and 8 belong to the same base team", err.Error())
}

func TestNextSeq(t *testing.T) {
	assert.Equal(t, 1, NextSeq(nil))
	assert.Equal(t, 6, NextSeq([]models.Bout{{Seq: 2}, {Seq: 5}, {Seq: 3}}))
}
