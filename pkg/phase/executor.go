package phase

import (
	"context"
	"fmt"

	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Options carries the overrides spec.md §6's option schema exposes that
// bear on phase execution: partition-f, post-phase-f/fsm, and a worker
// pool cap.
type Options struct {
	PartitionF     func([]model.Target) [][]model.Target
	PostPhaseF     func(results []model.PhaseResult)
	PostPhaseFsm   func(results []model.PhaseResult)
	MaxConcurrency int64
}

func defaultPartition(targets []model.Target) [][]model.Target {
	return [][]model.Target{targets}
}

// LiftPhase implements spec.md §4.5's `lift-phase(session, phase,
// targets, options)`: select each target's plan function for this phase
// name, partition, fan out one task per target per partition with a
// bounded worker pool, run partitions sequentially, and recover plan
// crashes into a PlanCrashError set as that target's
// PhaseResult.Exception, without aborting sibling targets already in
// flight. The partial results are returned alongside the error, not
// inside it. A crash is still returned as LiftPhase's own error (spec.md §4.5's state-
// machine note: "Only CrashedResults propagates an exception up").
func LiftPhase(ctx context.Context, root *Session, phaseName string, targets []model.Target, opts Options) ([]model.PhaseResult, error) {
	partitionF := opts.PartitionF
	if partitionF == nil {
		partitionF = defaultPartition
	}
	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 16
	}
	sem := semaphore.NewWeighted(maxConcurrency)

	var all []model.PhaseResult
	var errs []error
	for _, partition := range partitionF(targets) {
		results, err := runPartition(ctx, root, phaseName, partition, sem)
		all = append(all, results...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if opts.PostPhaseF != nil {
		opts.PostPhaseF(all)
	}
	if opts.PostPhaseFsm != nil {
		opts.PostPhaseFsm(all)
	}

	return all, fleeterrors.CombineErrors(errs...)
}

func runPartition(ctx context.Context, root *Session, phaseName string, targets []model.Target, sem *semaphore.Weighted) ([]model.PhaseResult, error) {
	results := make([]model.PhaseResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		i, t := i, t
		phaseVal, ok := phaseLookup(t, phaseName)
		if !ok {
			results[i] = model.PhaseResult{Target: t}
			continue
		}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			result := runOne(ctx, root, t, phaseVal)
			results[i] = result
			return result.Exception
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func phaseLookup(t model.Target, name string) (model.Phase, bool) {
	if t.Phases == nil {
		return model.Phase{}, false
	}
	return t.Phases.Get(name)
}

// runOne runs one target's plan function, recovering a panic into a
// PlanCrashError per spec.md §4.5 item 4 and §7's "Plan crash" taxonomy
// entry; a returned (non-panic) error is a domain error and flows as
// data, appended to PhaseResult.ActionResults. Exception is NOT set for
// it — only a crash sets Exception.
func runOne(ctx context.Context, root *Session, t model.Target, ph model.Phase) model.PhaseResult {
	s := root.WithTarget(t)

	var returnValue any
	var domainErr error
	var crash error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				crash = fleeterrors.PlanCrashError{TargetGroupName: t.GroupName, Cause: err}
			}
		}()
		returnValue, domainErr = ph.Fn(ctx, s)
	}()

	result := model.PhaseResult{
		Target:        t,
		ActionResults: s.ActionResults(),
		ReturnValue:   returnValue,
	}
	if crash != nil {
		result.Exception = crash
		return result
	}
	if domainErr != nil {
		result.ActionResults = append(result.ActionResults, model.ActionResult{
			Action: ph.Name,
			Err:    domainErr,
		})
	}
	return result
}

// LiftOp implements spec.md §4.5's `lift-op(session, [p1...pn], targets,
// options)`: run LiftPhase for each phase in order; phase i+1 never
// starts until phase i has completed for all targets (spec.md §5
// "Ordering guarantees"). After each phase it inspects results for any
// action carrying an error and, if present, records a "phase failed"
// error while still passing accumulated results onward. Once a phase has
// a crashed target (PhaseResult.Exception set), the remaining phases are
// not run.
func LiftOp(ctx context.Context, root *Session, phases []string, targets []model.Target, opts Options) ([]model.PhaseResult, error) {
	var all []model.PhaseResult
	var errs []error
	for _, p := range phases {
		results, err := LiftPhase(ctx, root, p, targets, opts)
		all = append(all, results...)
		if err != nil {
			errs = append(errs, err)
		}
		if failedErr := phaseFailedError(p, results); failedErr != nil {
			errs = append(errs, failedErr)
		}
		if hasCrash(results) {
			break
		}
	}
	return all, fleeterrors.CombineErrors(errs...)
}

func phaseFailedError(phaseName string, results []model.PhaseResult) error {
	for _, r := range results {
		for _, a := range r.ActionResults {
			if a.Err != nil {
				return fmt.Errorf("phase %q failed: %w", phaseName, a.Err)
			}
		}
	}
	return nil
}

func hasCrash(results []model.PhaseResult) bool {
	for _, r := range results {
		if r.Exception != nil {
			return true
		}
	}
	return false
}
