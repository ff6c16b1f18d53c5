package operation

import (
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/google/uuid"
)

// processPhases implements spec.md §4.6 step 2: split keyword references
// from inline plan functions. Inline functions are gensym'd into a
// local phase-map and substituted into the returned phase-name list, so
// the executor only ever dispatches by name (spec.md §9 "Phase maps as
// dynamic dispatch").
func processPhases(refs []PhaseRef) ([]string, model.PhaseMap) {
	names := make([]string, 0, len(refs))
	extra := model.NewPhaseMap()
	for _, r := range refs {
		if r.Fn == nil {
			names = append(names, r.Name)
			continue
		}
		name := "inline-" + uuid.NewString()
		extra.Set(name, model.Phase{Name: name, Fn: r.Fn, Settings: r.Settings})
		names = append(names, name)
	}
	return names, extra
}
