package phase

import (
	"context"

	"github.com/fleetctl/fleetctl/pkg/executor"
)

// NewDispatch builds the dispatchFunc a Session uses from any
// executor.Executor, so callers outside this package never need to know
// about dispatchFunc's shape.
func NewDispatch(ctx context.Context, e executor.Executor) dispatchFunc {
	adapter := executor.Adapter{Inner: e, Ctx: func() context.Context { return ctx }}
	return adapter.Execute
}
