// Package executor implements the executor effector (spec.md §6): the
// `execute(target, action) → ActionResult` operation plan functions call
// synchronously from their own perspective, backed by SSH, a local
// subprocess, or an in-memory recorder for tests.
package executor

import (
	"context"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/samber/mo"
)

// Action is an alias for model.Action: executors dispatch the same
// action record plan functions build through their Session.
type Action = model.Action

// Executor is the effector interface of spec.md §6: execute an action
// against a target and report an ActionResult, distinguishing domain
// errors (returned inside the Ok value, ExitCode != 0) from executor-
// level failures (returned as the Result's error, e.g. a broken
// connection) so the phase executor can tell them apart.
type Executor interface {
	Execute(ctx context.Context, t model.Target, action Action) mo.Result[model.ActionResult]
}

// Adapter wraps an Executor into the simpler (ActionResult, error) shape
// model.Session.Execute needs, unwrapping the mo.Result at the
// boundary.
type Adapter struct {
	Inner Executor
	Ctx   func() context.Context
}

func (a Adapter) Execute(t model.Target, action Action) (model.ActionResult, error) {
	ctx := context.Background()
	if a.Ctx != nil {
		ctx = a.Ctx()
	}
	return a.Inner.Execute(ctx, t, action).Get()
}
