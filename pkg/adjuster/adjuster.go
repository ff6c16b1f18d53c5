// Package adjuster implements the node-count adjuster (C4): driving
// creation and destruction concurrently through the compute effector,
// running the group-scope :create-group/:destroy-group phases, and
// aggregating the results spec.md §4.4 describes.
package adjuster

import (
	"context"

	"github.com/fleetctl/fleetctl/pkg/compute"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/phase"
	"github.com/fleetctl/fleetctl/pkg/target"
	"github.com/fleetctl/fleetctl/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Result is the adjuster's aggregated output (spec.md §4.4
// "Aggregation"): targets is (initial minus old-node-ids) ∪ new-targets;
// results lists each removal spec's destroy-server then destroy-group
// results, in removal-spec order, followed by each add spec's
// create-group results. With several removal specs, one spec's
// destroy-group results come before the next spec's destroy-server
// results; they are not regrouped by phase.
type Result struct {
	Results    []model.PhaseResult
	Targets    []model.Target
	OldNodeIDs []string
}

// taskResult is the per-spec (add or removal) outcome the fan-out
// completion channel carries.
type taskResult struct {
	results    []model.PhaseResult
	newTargets []model.Target
	oldNodeIDs []string
}

// Adjust runs every add-spec and removal-spec as an independent
// concurrent task (spec.md §4.4 "Concurrency topology"; §5
// "Parallelism points" a/b), then combines their reports into one
// Result. initialTargets is the target set resolved before adjustment;
// it is used to compute the surviving-targets side of the aggregation.
// A task that fails still contributes the results, new targets and
// destroyed node IDs it collected before failing.
func Adjust(
	ctx context.Context,
	provider compute.Provider,
	root *phase.Session,
	adds []model.AddSpec,
	removals []model.RemovalSpec,
	initialTargets []model.Target,
	user string,
) (Result, error) {
	addSlots := make([]taskResult, len(adds))
	removalSlots := make([]taskResult, len(removals))
	var calls []func() (taskResult, error)
	for i, a := range adds {
		i, a := i, a
		calls = append(calls, func() (taskResult, error) {
			tr, err := runAdd(ctx, provider, root, a, user)
			addSlots[i] = tr
			return tr, err
		})
	}
	for i, r := range removals {
		i, r := i, r
		calls = append(calls, func() (taskResult, error) {
			tr, err := runRemoval(ctx, provider, root, r)
			removalSlots[i] = tr
			return tr, err
		})
	}

	_, err := util.FanOut(calls...).Await()

	var result Result
	removedIDs := map[string]bool{}
	for _, tr := range append(removalSlots, addSlots...) {
		result.Results = append(result.Results, tr.results...)
		result.Targets = append(result.Targets, tr.newTargets...)
		result.OldNodeIDs = append(result.OldNodeIDs, tr.oldNodeIDs...)
		for _, id := range tr.oldNodeIDs {
			removedIDs[id] = true
		}
	}
	for _, t := range initialTargets {
		if t.Node != nil && removedIDs[t.Node.ID()] {
			continue
		}
		result.Targets = append(result.Targets, t)
	}

	return result, err
}

// runRemoval implements spec.md §4.4's removal task: destroy-server on
// the selected targets, then destroy-group once if every selected node
// was actually destroyed and the group is being dissolved.
func runRemoval(ctx context.Context, provider compute.Provider, root *phase.Session, spec model.RemovalSpec) (taskResult, error) {
	var tr taskResult

	results, err := phase.LiftPhase(ctx, root, "destroy-server", spec.Targets, phase.Options{})
	tr.results = append(tr.results, results...)
	if err != nil {
		return tr, err
	}

	destroyed, destroyErr := provider.DestroyNodes(ctx, spec.Targets)
	tr.oldNodeIDs = destroyed.DestroyedNodeIDs
	if destroyErr != nil {
		return tr, fleeterrors.NewProviderError(spec.Group.GroupName, destroyErr)
	}
	if len(destroyed.Errors) > 0 {
		return tr, fleeterrors.NewProviderError(spec.Group.GroupName, fleeterrors.CombineErrors(destroyed.Errors...))
	}

	if len(destroyed.DestroyedNodeIDs) == len(spec.Targets) && spec.RemoveGroup {
		groupResults, err := phase.LiftPhase(ctx, root, "destroy-group", []model.Target{groupScopeTarget(spec.Group)}, phase.Options{})
		tr.results = append(tr.results, groupResults...)
		if err != nil {
			return tr, err
		}
	}
	return tr, nil
}

// runAdd implements spec.md §4.4's add task: create-group once if the
// group didn't previously exist, then ask the provider for CreateCount
// new nodes and wrap them as targets. Bootstrap is deferred until after
// all adjustments settle (§4.4 step 3, §4.6), so the only report from
// this task is {create-group, targets} — Converge runs bootstrap once,
// against the full adjusted target set.
func runAdd(ctx context.Context, provider compute.Provider, root *phase.Session, spec model.AddSpec, user string) (taskResult, error) {
	var tr taskResult

	if spec.CreateGroup {
		results, err := phase.LiftPhase(ctx, root, "create-group", []model.Target{groupScopeTarget(spec.Group)}, phase.Options{})
		tr.results = append(tr.results, results...)
		if err != nil {
			return tr, err
		}
	}

	created, err := provider.CreateNodes(ctx, spec.Group.NodeSpec, spec.Group.GroupName, user, spec.CreateCount)
	if err != nil {
		return tr, fleeterrors.NewProviderError(spec.Group.GroupName, err)
	}
	if len(created) < spec.CreateCount {
		log.WithFields(log.Fields{
			"group":     spec.Group.GroupName,
			"requested": spec.CreateCount,
			"created":   len(created),
		}).Warn("provider returned fewer nodes than requested")
	}

	tr.newTargets = target.ResolveRaw(spec.Group, created)
	return tr, nil
}

func groupScopeTarget(g model.GroupSpec) model.Target {
	return model.Target{
		Type:      model.TargetPendingGroup,
		GroupName: g.GroupName,
		Roles:     g.Roles,
		Phases:    g.Phases,
	}
}
