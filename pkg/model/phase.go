// Package model holds the data model from spec.md §3: NodeSpec,
// ServerSpec, GroupSpec, ClusterSpec, Target, GroupDelta, PlanState,
// Session, ActionResult, PhaseResult. It has no dependency on any other
// fleetctl package besides pkg/node, so every algorithmic component
// (pkg/spec, pkg/target, pkg/delta, pkg/phase, pkg/adjuster,
// pkg/operation) can depend on it without import cycles.
package model

import (
	"context"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ExecutionSettings carries the per-phase execution settings and
// partitioning hints spec.md §4.5 item 1 refers to without enumerating.
type ExecutionSettings struct {
	ScriptDir    string
	ScriptPrefix string
	SudoUser     string
	PartitionF   func([]Target) [][]Target
}

// PlanFunc describes actions without performing them: it is evaluated by
// the phase executor, which supplies a Session bound to one target.
// Returning a non-nil error models a domain error (spec.md §4.5 item 4,
// "domain errors ... attached to the result map"): it is recorded as data
// and phase execution continues. A panic inside a PlanFunc is the
// "unexpected exception" case and is recovered by the executor into a
// PlanCrashError, set as that target's PhaseResult.Exception and
// returned as the phase's error alongside the collected results; the
// error value itself does not carry those results.
type PlanFunc func(ctx context.Context, s Session) (any, error)

// Phase bundles a plan function with its execution metadata. Phase maps
// are the dynamic-dispatch mechanism spec.md §9 calls for: "a mapping
// from name to a first-class plan function value".
type Phase struct {
	Name     string
	Fn       PlanFunc
	Settings ExecutionSettings
}

// PhaseMap preserves declaration order so the default single-partition
// phase executor and cluster/group-merge fixtures iterate
// deterministically; order has no semantic effect on which phase runs,
// only on test reproducibility and partition composition.
type PhaseMap = *orderedmap.OrderedMap[string, Phase]

func NewPhaseMap() PhaseMap {
	return orderedmap.New[string, Phase]()
}

// ClonePhaseMap returns a shallow copy — phase values are immutable
// records, so sharing them across specs is safe, but the map itself must
// never be shared: merging into a cloned map must not mutate a parent's.
func ClonePhaseMap(m PhaseMap) PhaseMap {
	out := NewPhaseMap()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// MergePhaseMaps merges child over parent key-by-key: child wins per key
// (spec.md §4.1 spec-merge algorithm: "phase maps merge recursively
// (child wins per key, metadata merges)"). For a phase name both sides
// carry, each execution-settings field the child leaves unset is taken
// from the parent's phase. The ordering places parent
// phases first, followed by any phase names the child adds that the
// parent didn't have, preserving declaration order within each side.
func MergePhaseMaps(parent, child PhaseMap) PhaseMap {
	out := ClonePhaseMap(parent)
	if child == nil {
		return out
	}
	for pair := child.Oldest(); pair != nil; pair = pair.Next() {
		merged := pair.Value
		if prev, ok := out.Get(pair.Key); ok {
			if merged.Settings.ScriptDir == "" {
				merged.Settings.ScriptDir = prev.Settings.ScriptDir
			}
			if merged.Settings.ScriptPrefix == "" {
				merged.Settings.ScriptPrefix = prev.Settings.ScriptPrefix
			}
			if merged.Settings.SudoUser == "" {
				merged.Settings.SudoUser = prev.Settings.SudoUser
			}
			if merged.Settings.PartitionF == nil {
				merged.Settings.PartitionF = prev.Settings.PartitionF
			}
		}
		out.Set(pair.Key, merged)
	}
	return out
}
