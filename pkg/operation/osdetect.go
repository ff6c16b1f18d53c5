package operation

import (
	"context"

	"github.com/fleetctl/fleetctl/pkg/model"
)

// OS-detection phase names (spec.md §4.6 step 3: ":pallet/os-bs",
// ":pallet/os"). os-bs probes for a bootstrap-capable shell before any
// package manager exists; os runs right after os-bs to record the
// detected OS family into plan-state at host scope for later phases to
// branch on.
const (
	PhaseOSBootstrap = "pallet/os-bs"
	PhaseOSDetect    = "pallet/os"
)

// osDetectionPhases returns the default implementations merged into
// every group's phase map when options.os-detect is true. They are
// intentionally thin: the real OS-family dispatch (package-manager
// selection) is an external collaborator's concern (spec.md §1), this
// only records the fact via the executor effector so later phases can
// read it back out of plan-state.
func osDetectionPhases() model.PhaseMap {
	phases := model.NewPhaseMap()
	phases.Set(PhaseOSBootstrap, model.Phase{
		Name: PhaseOSBootstrap,
		Fn: func(_ context.Context, s model.Session) (any, error) {
			_, err := s.Execute(model.Action{Command: "test -x /bin/sh || test -x /usr/bin/sh"})
			return nil, err
		},
	})
	phases.Set(PhaseOSDetect, model.Phase{
		Name: PhaseOSDetect,
		Fn: func(_ context.Context, s model.Session) (any, error) {
			result, err := s.Execute(model.Action{Command: "uname -s"})
			if err != nil {
				return nil, err
			}
			s.PlanState().Set(model.ScopeHost, "os", result.Output)
			return result.Output, nil
		},
	})
	return phases
}
