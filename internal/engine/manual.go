package engine

import (
	"fmt"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// RejectReason classifies why a manual pairing was refused
type RejectReason string

const (
	RejectNotInPool      RejectReason = "not_in_pool"
	RejectSameTeam       RejectReason = "same_team"
	RejectExcepted       RejectReason = "excepted"
	RejectUnresolvedTeam RejectReason = "unresolved_team"
)

// Rejection is returned when a manual pairing breaks a hard rule.
// The leftover pool is left untouched.
type Rejection struct {
	Reason   RejectReason
	EntrantA int
	EntrantB int
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case RejectNotInPool:
		return fmt.Sprintf("entrants %d and %d are not both in the leftover pool", r.EntrantA, r.EntrantB)
	case RejectSameTeam:
		return fmt.Sprintf("entrants %d and %d belong to the same base team", r.EntrantA, r.EntrantB)
	case RejectExcepted:
		return fmt.Sprintf("entrants %d and %d belong to excepted teams", r.EntrantA, r.EntrantB)
	case RejectUnresolvedTeam:
		return fmt.Sprintf("entrants %d and %d cannot both be resolved to a team", r.EntrantA, r.EntrantB)
	}
	return fmt.Sprintf("pairing %d with %d rejected: %s", r.EntrantA, r.EntrantB, r.Reason)
}

// ValidateManualPair pairs two leftovers chosen by an operator. Only the
// same-team and exception rules apply here; phenotype and age class are not
// checked so operators can force such bouts deliberately.
//
// On success it returns the new bout numbered nextSeq and a new pool without
// the two entrants. The input pool is never modified.
func ValidateManualPair(idA, idB int, pool []models.Leftover, teams Teams, exceptions Exceptions, nextSeq int) (models.Bout, []models.Leftover, error) {
	reject := func(reason RejectReason) (models.Bout, []models.Leftover, error) {
		return models.Bout{}, nil, &Rejection{Reason: reason, EntrantA: idA, EntrantB: idB}
	}

	if idA == idB {
		return reject(RejectNotInPool)
	}
	ia, ib := -1, -1
	for i, l := range pool {
		switch l.Entrant.ID {
		case idA:
			ia = i
		case idB:
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return reject(RejectNotInPool)
	}

	a, b := pool[ia].Entrant, pool[ib].Entrant
	baseA, okA := teams.BaseOf(a.TeamID)
	baseB, okB := teams.BaseOf(b.TeamID)
	if !okA || !okB {
		return reject(RejectUnresolvedTeam)
	}
	if baseA == baseB {
		return reject(RejectSameTeam)
	}
	if exceptions.Excepted(baseA, baseB) {
		return reject(RejectExcepted)
	}

	rest := make([]models.Leftover, 0, len(pool)-2)
	for i, l := range pool {
		if i != ia && i != ib {
			rest = append(rest, l)
		}
	}
	bout := models.Bout{
		Seq:      nextSeq,
		EntrantA: a,
		EntrantB: b,
		Outcome:  models.OutcomePending,
		Manual:   true,
	}
	return bout, rest, nil
}

// NextSeq returns the sequence number following the highest one in bouts
func NextSeq(bouts []models.Bout) int {
	next := 1
	for _, b := range bouts {
		if b.Seq >= next {
			next = b.Seq + 1
		}
	}
	return next
}
