package model

import "context"

// ScopeLevel is one level of the PlanState key hierarchy spec.md §3
// defines: values set at a narrower scope shadow the same key set at a
// wider one, and a get searches narrow-to-wide.
type ScopeLevel int

const (
	ScopeHost ScopeLevel = iota
	ScopeGroup
	ScopeService
	ScopeProvider
	ScopeUniverse
)

// PlanState is the scoped key/value store a plan function reads and
// writes through its Session, letting one target's plan leave state for
// a later phase or a sibling target at a wider scope to see (spec.md §3,
// §4.5 item 3, "plan state scoped by {universe, provider, service, host,
// group}").
type PlanState interface {
	// Get searches from level outward to ScopeUniverse and returns the
	// first match.
	Get(level ScopeLevel, key string) (any, bool)
	// Set writes key at exactly level, visible to any narrower-scope Get
	// that falls through to it.
	Set(level ScopeLevel, key string, value any)
}

// Session is what a PlanFunc receives: the target it's bound to, the
// plan state it reads/writes, the identity it runs as, and the
// ActionResult sink the executor drains into the PhaseResult (spec.md
// §4.5).
type Session interface {
	Context() context.Context
	Target() Target
	PlanState() PlanState
	User() string

	// Record appends one ActionResult to this session's running phase
	// result; it is how a plan function reports a shell action without
	// itself constructing a PhaseResult.
	Record(ActionResult)

	// Execute dispatches action through this session's executor
	// effector and records the outcome. The returned error is non-nil
	// only for executor-level failures (spec.md §7 "Provider error"
	// analog for the executor side); a non-zero ActionResult.ExitCode
	// with a nil error is a domain error the plan function must inspect
	// and decide how to react to.
	Execute(action Action) (ActionResult, error)
}
