// Package delta implements the delta calculator (C3): per-group
// actual/target/delta counts and the resulting add-specs and
// removal-specs the node-count adjuster consumes (spec.md §4.3).
package delta

import (
	"github.com/fleetctl/fleetctl/pkg/collections"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
)

// Compute derives one GroupDelta per group in groups: actual is the
// count of targets whose node satisfies the group's node-filter, target
// is the group's declared count (an error if unset), delta is
// target-actual (spec.md §4.3 steps 1-3).
func Compute(groups []model.GroupSpec, targets []model.Target) ([]model.GroupDelta, error) {
	out := make([]model.GroupDelta, 0, len(groups))
	var errs []error
	for _, g := range groups {
		if g.Count == nil {
			errs = append(errs, fleeterrors.ValidationError{
				Message: "group " + g.GroupName + " is missing count",
			})
			continue
		}
		matching := matchingTargets(g, targets)
		actual := len(matching)
		want := *g.Count
		out = append(out, model.GroupDelta{
			Group:   g,
			Actual:  actual,
			Target:  want,
			Delta:   want - actual,
			Targets: matching,
		})
	}
	if len(errs) > 0 {
		return out, fleeterrors.NewAggregateError(errs...)
	}
	return out, nil
}

func matchingTargets(g model.GroupSpec, targets []model.Target) []model.Target {
	return collections.Filter(func(t model.Target) bool {
		if t.Node == nil || g.NodeFilter == nil {
			return false
		}
		return g.NodeFilter(t.Node)
	}, targets)
}

// Partition splits deltas into add-specs and removal-specs per spec.md
// §4.3's partitioning rule: delta<0 yields a removal-spec selecting
// -delta targets via the group's removal-selection-fn (defaulting to
// model.Take), remove-group set when target==0; delta>0 yields an
// add-spec, create-group set when actual==0.
func Partition(deltas []model.GroupDelta) ([]model.AddSpec, []model.RemovalSpec) {
	var adds []model.AddSpec
	var removals []model.RemovalSpec
	for _, d := range deltas {
		switch {
		case d.NeedsShrink():
			selector := d.Group.RemovalSelectionFn
			if selector == nil {
				selector = model.Take
			}
			removals = append(removals, model.RemovalSpec{
				Group:       d.Group,
				Targets:     selector(-d.Delta, d.Targets),
				RemoveGroup: d.Target == 0,
			})
		case d.NeedsGrowth():
			adds = append(adds, model.AddSpec{
				Group:       d.Group,
				CreateCount: d.Delta,
				CreateGroup: d.Actual == 0,
			})
		}
	}
	return adds, removals
}
