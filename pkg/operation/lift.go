package operation

import (
	"context"

	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
	"github.com/fleetctl/fleetctl/pkg/phase"
	"github.com/fleetctl/fleetctl/pkg/spec"
	"github.com/fleetctl/fleetctl/pkg/target"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Lift implements spec.md §4.6 `lift(node-set, options)`: converge
// without the delta/adjust steps or the :bootstrap prepend; it always
// runs [:settings] first as its own phase, checks for errors there, and
// only then runs the caller-supplied phases against the given nodes.
// Honors options.timeout-ms/timeout-val the same way Converge does.
func Lift(ctx context.Context, nodes []node.Node, group model.GroupSpec, opts Options) (Result, error) {
	if opts.TimeoutMS <= 0 {
		return liftSync(ctx, nodes, group, opts)
	}
	op := LiftAsync(ctx, nodes, group, opts)
	return Await(ctx, op, opts)
}

func liftSync(ctx context.Context, nodes []node.Node, group model.GroupSpec, opts Options) (Result, error) {
	logger := log.WithFields(log.Fields{"operation": "lift", "operation-id": uuid.NewString(), "group": group.GroupName})

	if err := opts.Validate(); err != nil {
		logger.WithError(err).Error("rejected invalid options")
		return Result{}, err
	}

	callerPhaseNames, inlinePhases := processPhases(opts.Phase)

	group.Phases = model.MergePhaseMaps(group.Phases, inlinePhases)
	if opts.osDetect() {
		group.Phases = model.MergePhaseMaps(group.Phases, osDetectionPhases())
	}
	composed, err := spec.Compose(group)
	if err != nil {
		return Result{}, err
	}
	composed = spec.Overlay(opts.Environment, composed)

	targets := target.ResolveRaw(composed, nodes)

	root := phase.NewSession(ctx, phase.NewPlanState(opts.PlanState), opts.User, phase.NewDispatch(ctx, opts.Executor))

	logger.WithField("targets", len(targets)).Info("running settings phase")
	settingsResults, err := phase.LiftPhase(ctx, root, "settings", targets, opts.phaseOptions())
	if err != nil {
		logger.WithError(err).Error("settings phase failed")
		return Result{Results: settingsResults, Targets: targets}, err
	}
	if failedErr := firstActionError("settings", settingsResults); failedErr != nil {
		logger.WithError(failedErr).Error("settings phase reported a domain error, aborting lift")
		return Result{Results: settingsResults, Targets: targets}, failedErr
	}

	var phaseNames []string
	if opts.osDetect() {
		phaseNames = append(phaseNames, PhaseOSBootstrap, PhaseOSDetect)
	}
	phaseNames = append(phaseNames, callerPhaseNames...)

	logger.WithField("phases", phaseNames).Info("running caller phases")
	rest, liftErr := phase.LiftOp(ctx, root, phaseNames, targets, opts.phaseOptions())
	if liftErr != nil {
		logger.WithError(liftErr).Warn("lift-op reported errors")
	}

	return Result{
		Results: append(settingsResults, rest...),
		Targets: targets,
	}, liftErr
}

func firstActionError(phaseName string, results []model.PhaseResult) error {
	for _, r := range results {
		for _, a := range r.ActionResults {
			if a.Err != nil {
				return fleeterrors.DomainError{Action: phaseName, ExitCode: a.ExitCode, Message: a.Err.Error()}
			}
		}
	}
	return nil
}
