package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/models"
)

func TestApplyOutcome(t *testing.T) {
	bouts := []models.Bout{pending(1, 1, 2), pending(2, 3, 4)}

	out, err := ApplyOutcome(bouts, 2, models.OutcomeWinB, 75)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeWinB, out[1].Outcome)
	require.NotNil(t, out[1].DurationSeconds)
	assert.Equal(t, 75, *out[1].DurationSeconds)
	assert.Equal(t, models.OutcomePending, out[0].Outcome)

	assert.Equal(t, models.OutcomePending, bouts[1].Outcome, "input must not be modified")
	assert.Nil(t, bouts[1].DurationSeconds)
}

func TestApplyOutcome_Errors(t *testing.T) {
	bouts := []models.Bout{pending(1, 1, 2)}

	_, err := ApplyOutcome(bouts, 9, models.OutcomeDraw, 10)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = ApplyOutcome(bouts, 1, models.OutcomePending, 10)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = ApplyOutcome(bouts, 1, models.Outcome("forfeit"), 10)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = ApplyOutcome(bouts, 1, models.OutcomeWinA, -5)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
