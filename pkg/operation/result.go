package operation

import "github.com/fleetctl/fleetctl/pkg/model"

// Result is `converge`/`lift`'s user-visible return value (spec.md §7
// "User-visible failure"): every phase result collected before any
// failure, the best-effort final target set, and every node ID actually
// destroyed.
type Result struct {
	Results    []model.PhaseResult
	Targets    []model.Target
	OldNodeIDs []string
}
