package skill

import (
	"strings"
	"time"
)

// Signature is one approver's sign-off on a promotion.
type Signature struct {
	Name    string
	Role    Role
	Comment string
}

// PromoteResult contains the outcome of an accepted signature.
type PromoteResult struct {
	Record Record
	// Promoted is true when CurrentLevel changed.
	Promoted bool
	// PendingDual is true when the signature opened a dual-signature request.
	PendingDual bool
}

// Promote applies a signature to the record.
//
// Targets below QualifiedLevel take effect immediately. Targets at or above
// QualifiedLevel open a pending_dual request on the first signature and complete
// on a valid second signature. The caller passes the current time to enable testing.
func Promote(r Record, sig Signature, now time.Time) (PromoteResult, error) {
	if err := CanPromote(PromoteContext{Record: r, ApproverName: sig.Name, ApproverRole: sig.Role}).Error(); err != nil {
		return PromoteResult{}, err
	}

	name := strings.TrimSpace(sig.Name)
	target := r.CurrentLevel + 1
	approval := Approval{
		ApproverName: name,
		Role:         sig.Role,
		Comment:      strings.TrimSpace(sig.Comment),
		ForLevel:     target,
		At:           now,
	}

	next := r.clone()

	if target < QualifiedLevel {
		next.CurrentLevel = target
		next.RequestedLevel = nil
		next.Status = StatusApproved
		next.Approvals = []Approval{approval}
		next.History = append(next.History, promotionEntry(r.CurrentLevel, target, approval))
		return PromoteResult{Record: next, Promoted: true}, nil
	}

	// A pending request that lost its first approval starts over.
	if r.Status != StatusPendingDual || len(r.Approvals) == 0 {
		next.RequestedLevel = &target
		next.Status = StatusPendingDual
		next.Approvals = []Approval{approval}
		return PromoteResult{Record: next, PendingDual: true}, nil
	}

	// Second signature completes the pending request.
	next.CurrentLevel = target
	next.RequestedLevel = nil
	next.Status = StatusApproved
	next.Approvals = []Approval{r.Approvals[0], approval}
	next.History = append(next.History, promotionEntry(r.CurrentLevel, target, approval))
	return PromoteResult{Record: next, Promoted: true}, nil
}

func promotionEntry(from, to int, a Approval) HistoryEntry {
	return HistoryEntry{
		Type:      HistoryPromotion,
		FromLevel: from,
		ToLevel:   to,
		By:        a.ApproverName,
		Role:      a.Role,
		At:        a.At,
	}
}

// Demote lowers the record to targetLevel. Demotion always resets the record to
// approved and discards any pending dual-signature request.
func Demote(r Record, supervisorName string, targetLevel int, reason string, now time.Time) (Record, error) {
	ctx := DemoteContext{Record: r, SupervisorName: supervisorName, TargetLevel: targetLevel, Reason: reason}
	if err := CanDemote(ctx).Error(); err != nil {
		return Record{}, err
	}

	next := r.clone()
	next.CurrentLevel = targetLevel
	next.Status = StatusApproved
	next.RequestedLevel = nil
	next.Approvals = nil
	next.History = append(next.History, HistoryEntry{
		Type:      HistoryDemotion,
		FromLevel: r.CurrentLevel,
		ToLevel:   targetLevel,
		By:        strings.TrimSpace(supervisorName),
		Role:      RoleSupervisor,
		Reason:    strings.TrimSpace(reason),
		At:        now,
	})
	return next, nil
}
