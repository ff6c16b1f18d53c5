package operation

import (
	"context"
	"sync"
	"sync/atomic"

	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
	"github.com/google/uuid"
)

// Status is the Operation's lifecycle state, pollable without blocking.
type Status int32

const (
	StatusRunning Status = iota
	StatusDone
	StatusCancelled
)

// Operation is the async handle spec.md §4.6 "Async semantics" returns
// when options.async is true: the caller can await the result, poll
// status, and cancel. All intermediate channels close when the
// operation terminates.
type Operation struct {
	ID     string
	status atomic.Int32
	done   chan struct{}
	once   sync.Once
	cancel context.CancelFunc

	mu     sync.Mutex
	result Result
	err    error
}

func newOperation(cancel context.CancelFunc) *Operation {
	return &Operation{ID: uuid.NewString(), done: make(chan struct{}), cancel: cancel}
}

func (o *Operation) finish(result Result, err error) {
	if err != nil && o.Status() == StatusCancelled {
		err = fleeterrors.CancellationError{}
	}
	o.mu.Lock()
	o.result, o.err = result, err
	o.mu.Unlock()
	if o.status.Load() == int32(StatusRunning) {
		o.status.Store(int32(StatusDone))
	}
	o.once.Do(func() { close(o.done) })
}

// Status reports the operation's current lifecycle state.
func (o *Operation) Status() Status { return Status(o.status.Load()) }

// Cancel closes the operation's cancellation channel (spec.md §5
// "Cancellation & timeouts"); pending tasks observe it at their next
// channel read or context check and exit, and an operation that then
// ends with an error reports a CancellationError.
func (o *Operation) Cancel() {
	o.status.Store(int32(StatusCancelled))
	o.cancel()
}

// Await blocks until the operation completes, returning its result and
// error.
func (o *Operation) Await(ctx context.Context) (Result, error) {
	select {
	case <-o.done:
		o.mu.Lock()
		defer o.mu.Unlock()
		return o.result, o.err
	case <-ctx.Done():
		return Result{}, fleeterrors.CancellationError{}
	}
}

// ConvergeAsync runs Converge in the background and returns immediately
// with an Operation handle (spec.md §4.6 "Async semantics").
func ConvergeAsync(ctx context.Context, groups []model.GroupSpec, clusters []model.ClusterSpec, opts Options) *Operation {
	opCtx, cancel := context.WithCancel(ctx)
	op := newOperation(cancel)
	go func() {
		result, err := convergeSync(opCtx, groups, clusters, opts)
		op.finish(result, err)
	}()
	return op
}

// LiftAsync runs Lift in the background and returns immediately with an
// Operation handle.
func LiftAsync(ctx context.Context, nodes []node.Node, group model.GroupSpec, opts Options) *Operation {
	opCtx, cancel := context.WithCancel(ctx)
	op := newOperation(cancel)
	go func() {
		result, err := liftSync(opCtx, nodes, group, opts)
		op.finish(result, err)
	}()
	return op
}

// Await blocks on an Operation up to timeout-ms (spec.md §4.6 "Async
// semantics"; §7 "Timeout / cancellation"). On expiry it returns
// timeout-val with a nil error when timeout-val is a Result, otherwise a
// zero Result and a TimeoutError.
func Await(ctx context.Context, op *Operation, opts Options) (Result, error) {
	if opts.TimeoutMS <= 0 {
		return op.Await(ctx)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()
	select {
	case <-op.done:
		return op.Await(ctx)
	case <-timeoutCtx.Done():
		if opts.TimeoutVal != nil {
			if r, ok := opts.TimeoutVal.(Result); ok {
				return r, nil
			}
		}
		return Result{}, fleeterrors.TimeoutError{TimeoutMS: opts.TimeoutMS}
	}
}
