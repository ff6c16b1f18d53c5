package executor

import (
	"context"
	"sync"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/samber/mo"
)

// Recording is one call captured by a RecordingExecutor.
type Recording struct {
	Target model.Target
	Action Action
}

// RecordingExecutor is the in-memory test-double executor spec.md §6
// calls for: every Execute call is recorded, and its ActionResult is
// taken from a caller-supplied stub keyed by action command, or a
// zero-exit no-op default when no stub matches.
type RecordingExecutor struct {
	mu    sync.Mutex
	Calls []Recording
	Stubs map[string]mo.Result[model.ActionResult]
}

var _ Executor = (*RecordingExecutor)(nil)

func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{Stubs: map[string]mo.Result[model.ActionResult]{}}
}

func (r *RecordingExecutor) Execute(_ context.Context, t model.Target, action Action) mo.Result[model.ActionResult] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, Recording{Target: t, Action: action})
	if stub, ok := r.Stubs[action.Command]; ok {
		return stub
	}
	return mo.Ok(model.ActionResult{Action: action.Command})
}

// StubError registers a domain-error stub: Execute still returns Ok so
// the phase executor treats it as a recorded domain error, not a crash.
func (r *RecordingExecutor) StubError(command string, exitCode int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stubs[command] = mo.Ok(model.ActionResult{Action: command, ExitCode: exitCode, Err: err})
}
