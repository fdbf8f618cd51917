package skill

import (
	"fmt"
	"strings"
)

// Code is a stable machine-readable rejection code. Presentation layers
// localize it; it is never shown as-is.
type Code string

const (
	CodeNoName         Code = "no_name"
	CodeMaxLevel       Code = "max_level"
	CodeSamePerson     Code = "same_person"
	CodeNeedSupervisor Code = "need_supervisor"
	CodeReasonRequired Code = "reason_required"
	CodeInvalidLevel   Code = "invalid_level"
)

// RejectionError is returned when a transition is refused. The record is
// never modified when a RejectionError is returned.
type RejectionError struct {
	Code   Code
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// Is matches any RejectionError with the same code, so callers can write
// errors.Is(err, &skill.RejectionError{Code: skill.CodeSamePerson}).
func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Code == e.Code
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    Code
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &RejectionError{Code: r.Code, Reason: r.Reason}
}

func deny(code Code, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// PromoteContext provides context for promotion guards.
type PromoteContext struct {
	Record       Record
	ApproverName string
	ApproverRole Role
}

// CanPromote evaluates whether a signature may be applied to the record.
// Rules:
// - Approver name must be non-blank
// - Current level must be below MaxLevel
// - A second dual signature must come from a different person
// - One of the two dual signatures must be a supervisor's
func CanPromote(ctx PromoteContext) GuardResult {
	name := strings.TrimSpace(ctx.ApproverName)
	if name == "" {
		return deny(CodeNoName, "approver name is required")
	}

	rec := ctx.Record
	if rec.CurrentLevel >= MaxLevel {
		return deny(CodeMaxLevel, "already at level %d", rec.CurrentLevel)
	}

	if rec.Status != StatusPendingDual || len(rec.Approvals) == 0 {
		return GuardResult{Allowed: true}
	}

	first := rec.Approvals[0]
	if strings.TrimSpace(first.ApproverName) == name {
		return deny(CodeSamePerson, "%s already signed this promotion", name)
	}
	if first.Role != RoleSupervisor && ctx.ApproverRole != RoleSupervisor {
		return deny(CodeNeedSupervisor, "level %d requires a supervisor signature", rec.CurrentLevel+1)
	}

	return GuardResult{Allowed: true}
}

// DemoteContext provides context for demotion guards.
type DemoteContext struct {
	Record         Record
	SupervisorName string
	TargetLevel    int
	Reason         string
}

// CanDemote evaluates whether a demotion may be applied.
// Rules:
// - Supervisor name must be non-blank
// - Reason must be non-blank
// - Target level must be strictly below the current level
// - Target level must not be negative
func CanDemote(ctx DemoteContext) GuardResult {
	if strings.TrimSpace(ctx.SupervisorName) == "" {
		return deny(CodeNoName, "supervisor name is required")
	}
	if strings.TrimSpace(ctx.Reason) == "" {
		return deny(CodeReasonRequired, "a reason is required to demote")
	}
	if ctx.TargetLevel >= ctx.Record.CurrentLevel {
		return deny(CodeReasonRequired, "target level %d is not below current level %d", ctx.TargetLevel, ctx.Record.CurrentLevel)
	}
	if ctx.TargetLevel < MinLevel {
		return deny(CodeInvalidLevel, "target level %d is below %d", ctx.TargetLevel, MinLevel)
	}
	return GuardResult{Allowed: true}
}
