package engine

import (
	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/models"
)

// ApplyOutcome returns a copy of bouts with the bout numbered seq decided.
// Recording an outcome on an already decided bout replaces it.
func ApplyOutcome(bouts []models.Bout, seq int, outcome models.Outcome, durationSeconds int) ([]models.Bout, error) {
	if !outcome.Decided() {
		return nil, errors.InvalidInputf("outcome %q is not a final result", outcome)
	}
	if durationSeconds < 0 {
		return nil, errors.InvalidInput("duration must not be negative")
	}

	idx := -1
	for i, b := range bouts {
		if b.Seq == seq {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.NotFoundf("bout %d not found", seq)
	}

	out := make([]models.Bout, len(bouts))
	copy(out, bouts)
	d := durationSeconds
	out[idx].Outcome = outcome
	out[idx].DurationSeconds = &d
	return out, nil
}
