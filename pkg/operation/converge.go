package operation

import (
	"context"

	"github.com/fleetctl/fleetctl/pkg/adjuster"
	"github.com/fleetctl/fleetctl/pkg/delta"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/phase"
	"github.com/fleetctl/fleetctl/pkg/spec"
	"github.com/fleetctl/fleetctl/pkg/target"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Converge implements spec.md §4.6 `converge(groups, options)`: validate
// options; process phases; optionally inject OS-detection; expand
// clusters and nested counts; compose and overlay every group; resolve
// targets against the live fleet; adjust node counts; then run
// os-detection (if enabled) ++ [:settings, :bootstrap] ++ caller-phases
// against the resulting target set. When options.timeout-ms is set,
// the call blocks only up to that deadline, returning options.timeout-val
// (or a TimeoutError if it is unset or not a Result) on expiry, per §4.6
// "Async semantics".
func Converge(ctx context.Context, groups []model.GroupSpec, clusters []model.ClusterSpec, opts Options) (Result, error) {
	if opts.TimeoutMS <= 0 {
		return convergeSync(ctx, groups, clusters, opts)
	}
	op := ConvergeAsync(ctx, groups, clusters, opts)
	return Await(ctx, op, opts)
}

func convergeSync(ctx context.Context, groups []model.GroupSpec, clusters []model.ClusterSpec, opts Options) (Result, error) {
	opID := uuid.NewString()
	logger := log.WithFields(log.Fields{"operation": "converge", "operation-id": opID})

	if err := opts.Validate(); err != nil {
		logger.WithError(err).Error("rejected invalid options")
		return Result{}, err
	}

	callerPhaseNames, inlinePhases := processPhases(opts.Phase)

	for _, c := range clusters {
		groups = append(groups, spec.ExpandCluster(c)...)
	}

	composed := make([]model.GroupSpec, 0, len(groups))
	var errs []error
	for _, g := range groups {
		g.Phases = model.MergePhaseMaps(g.Phases, inlinePhases)
		if opts.osDetect() {
			g.Phases = model.MergePhaseMaps(g.Phases, osDetectionPhases())
		}
		c, err := spec.Compose(g)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c = spec.Overlay(opts.Environment, c)
		composed = append(composed, c)
	}

	allNodeSet := make([]model.GroupSpec, 0, len(opts.AllNodeSet))
	for _, g := range opts.AllNodeSet {
		c, err := spec.Compose(g)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		allNodeSet = append(allNodeSet, c)
	}
	if len(errs) > 0 {
		logger.WithField("error-count", len(errs)).Error("group composition failed")
		return Result{}, fleeterrors.CombineErrors(errs...)
	}

	root := phase.NewSession(ctx, phase.NewPlanState(opts.PlanState), opts.User, phase.NewDispatch(ctx, opts.Executor))

	nodes, err := opts.Compute.Nodes(ctx)
	if err != nil {
		logger.WithError(err).Error("compute provider failed to list nodes")
		return Result{}, fleeterrors.NewProviderError("", err)
	}
	resolved := target.Resolve(nodes, composed)

	deltas, err := delta.Compute(composed, resolved)
	if err != nil {
		logger.WithError(err).Error("delta computation failed")
		return Result{}, err
	}
	adds, removals := delta.Partition(deltas)
	logger.WithFields(log.Fields{"groups": len(composed), "adds": len(adds), "removals": len(removals)}).Info("delta computed")

	adjustResult, err := adjuster.Adjust(ctx, opts.Compute, root, adds, removals, resolved, opts.User)
	if err != nil {
		logger.WithError(err).Warn("adjust reported errors, continuing with partial targets")
		return Result{Results: adjustResult.Results, Targets: adjustResult.Targets, OldNodeIDs: adjustResult.OldNodeIDs}, err
	}

	var phaseNames []string
	if opts.osDetect() {
		phaseNames = append(phaseNames, PhaseOSBootstrap, PhaseOSDetect)
	}
	phaseNames = append(phaseNames, "settings", "bootstrap")
	phaseNames = append(phaseNames, callerPhaseNames...)

	logger.WithField("phases", phaseNames).Info("running phases against adjusted targets")
	phaseResults, liftErr := phase.LiftOp(ctx, root, phaseNames, adjustResult.Targets, opts.phaseOptions())
	if liftErr != nil {
		logger.WithError(liftErr).Warn("lift-op reported errors")
	}

	allTargets := append([]model.Target{}, adjustResult.Targets...)
	allResults := append(adjustResult.Results, phaseResults...)

	if len(allNodeSet) > 0 {
		retained := target.Resolve(nodes, allNodeSet)
		logger.WithField("retained", len(retained)).Info("running settings against all-node-set targets")
		retainedResults, retainedErr := phase.LiftPhase(ctx, root, "settings", retained, opts.phaseOptions())
		allResults = append(allResults, retainedResults...)
		allTargets = append(allTargets, retained...)
		if retainedErr != nil {
			logger.WithError(retainedErr).Warn("all-node-set settings reported errors")
			if liftErr == nil {
				liftErr = retainedErr
			}
		}
	}

	return Result{
		Results:    allResults,
		Targets:    allTargets,
		OldNodeIDs: adjustResult.OldNodeIDs,
	}, liftErr
}
