// Package operation implements the operation driver (C6): the public
// Converge/Lift entry points that validate options, build the session,
// sequence C1-C5, and enforce timeout/async semantics (spec.md §4.6).
package operation

import (
	"time"

	"github.com/fleetctl/fleetctl/pkg/compute"
	"github.com/fleetctl/fleetctl/pkg/executor"
	"github.com/fleetctl/fleetctl/pkg/model"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/phase"
	"github.com/fleetctl/fleetctl/pkg/spec"
)

// Options is the closed option schema of spec.md §6. Validate rejects
// anything outside it by construction — unlike the original's dynamic
// option map, a Go struct cannot carry an unknown key, so validation
// here only checks cross-field invariants.
type Options struct {
	Compute      compute.Provider
	Executor     executor.Executor
	User         string
	Phase        []PhaseRef
	Environment  spec.Environment
	PlanState    map[string]any
	AllNodeSet   []model.GroupSpec
	OSDetect     *bool
	PartitionF   func([]model.Target) [][]model.Target
	PostPhaseF   func([]model.PhaseResult)
	PostPhaseFsm func([]model.PhaseResult)
	Async        bool
	TimeoutMS    int
	TimeoutVal   any
	Debug        DebugOptions
}

// PhaseRef is one entry of spec.md §6's `phase` option: `name | fn |
// seq`. Name references a phase already attached to every group's
// phase map; Fn supplies an inline plan function that process-phases
// (spec.md §4.6 step 2) gensyms a name for and registers before the
// phase list runs.
type PhaseRef struct {
	Name     string
	Fn       model.PlanFunc
	Settings model.ExecutionSettings
}

// DebugOptions is spec.md §6's `debug` map: diagnostic-only.
type DebugOptions struct {
	ScriptComments bool
	ScriptTrace    bool
}

func (o Options) osDetect() bool {
	if o.OSDetect == nil {
		return true
	}
	return *o.OSDetect
}

func (o Options) timeout() time.Duration {
	if o.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(o.TimeoutMS) * time.Millisecond
}

// Validate checks the cross-field invariants spec.md §4.6 step 1 calls
// for: a compute provider, an executor and a user are required. Phase
// names and AllNodeSet groups are not checked here; a phase name a
// target does not carry is skipped for that target at execution time.
func (o Options) Validate() error {
	if o.Compute == nil {
		return fleeterrors.NewValidationError("options.compute is required")
	}
	if o.Executor == nil {
		return fleeterrors.NewValidationError("options.executor is required")
	}
	if o.User == "" {
		return fleeterrors.NewValidationError("options.user is required")
	}
	return nil
}

func (o Options) phaseOptions() phase.Options {
	return phase.Options{
		PartitionF:   o.PartitionF,
		PostPhaseF:   o.PostPhaseF,
		PostPhaseFsm: o.PostPhaseFsm,
	}
}
