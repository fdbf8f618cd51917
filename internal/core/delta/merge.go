package delta

import (
	"sort"
	"time"
)

// ResolveContext says which references of a training log exist at the
// authority, scoped to the bundle's target line.
type ResolveContext struct {
	EmployeeKnown bool
	PositionKnown bool
	Now           time.Time
}

// ResolveTrainingLog prepares the authority's copy of an incoming training log.
// Unknown references are nulled and flagged; the log itself is always kept.
func ResolveTrainingLog(l TrainingLog, ctx ResolveContext) TrainingLog {
	out := l
	out.EmployeeResolved = ctx.EmployeeKnown && l.EmployeeID != nil
	out.PositionResolved = ctx.PositionKnown && l.PositionID != nil
	if !out.EmployeeResolved {
		out.EmployeeID = nil
	}
	if !out.PositionResolved {
		out.PositionID = nil
	}
	now := ctx.Now.UTC()
	out.ImportedAt = &now
	out.SyncedToAuthority = true
	return out
}

// DedupOpen returns the client ids of open recommendations that must be
// deleted so that only the oldest open one remains. All recs must share
// one (employee, position) pair. Ties on creation time fall back to clientId.
func DedupOpen(recs []Recommendation) []string {
	var open []Recommendation
	for _, r := range recs {
		if r.IsOpen() {
			open = append(open, r)
		}
	}
	if len(open) <= 1 {
		return nil
	}

	sort.SliceStable(open, func(i, j int) bool {
		if !open[i].CreatedAt.Equal(open[j].CreatedAt) {
			return open[i].CreatedAt.Before(open[j].CreatedAt)
		}
		return open[i].ClientID < open[j].ClientID
	})

	remove := make([]string, 0, len(open)-1)
	for _, r := range open[1:] {
		remove = append(remove, r.ClientID)
	}
	return remove
}
