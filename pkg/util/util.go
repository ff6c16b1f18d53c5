// Package util holds small fan-out helpers used by the adjuster; see
// spec.md §5 "Parallel fan-out": producers publish to
// a completion channel sized to the spawned-task count, a single
// aggregator drains exactly that many results.
package util

import (
	"github.com/hashicorp/go-multierror"

	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
)

// FanOutResult collects the typed results of a FanOut call.
type FanOutResult[T any] struct {
	resultChan chan fanOutItem[T]
	num        int
}

type fanOutItem[T any] struct {
	value T
	err   error
}

// Await blocks until every spawned call has published, in no particular
// order (spec.md §5: "Results within a partition are unordered"). It
// returns every non-error value plus a combined error built by appending
// every call's error, if any occurred.
func (r FanOutResult[T]) Await() ([]T, error) {
	values := make([]T, 0, r.num)
	var merr *multierror.Error
	for i := 0; i < r.num; i++ {
		item := <-r.resultChan
		if item.err != nil {
			merr = multierror.Append(merr, item.err)
			continue
		}
		values = append(values, item.value)
	}
	if merr != nil {
		return values, fleeterrors.WrapAndTrace(merr)
	}
	return values, nil
}

// FanOut spawns one goroutine per call and publishes every (value, error)
// pair to a channel buffered to len(calls) so producers never block on
// send (spec.md §5 "Back-pressure").
func FanOut[T any](calls ...func() (T, error)) FanOutResult[T] {
	res := FanOutResult[T]{
		resultChan: make(chan fanOutItem[T], len(calls)),
		num:        len(calls),
	}
	for _, c := range calls {
		go func(call func() (T, error)) {
			v, err := call()
			res.resultChan <- fanOutItem[T]{value: v, err: err}
		}(c)
	}
	return res
}

// RunEAsync is the error-only specialization used where no value needs
// to travel back, mirroring the teacher's original RunEAsync/RunEResult.
type RunEResult struct {
	inner FanOutResult[struct{}]
}

func (r RunEResult) Await() error {
	_, err := r.inner.Await()
	return err
}

func RunEAsync(calls ...func() error) RunEResult {
	wrapped := make([]func() (struct{}, error), len(calls))
	for i, c := range calls {
		c := c
		wrapped[i] = func() (struct{}, error) { return struct{}{}, c() }
	}
	return RunEResult{inner: FanOut(wrapped...)}
}

// MapAppend merges maps left to right, matching the overlay-merge shape
// used for plan-state seeds and environment scalar overrides.
func MapAppend(m map[string]interface{}, n ...map[string]interface{}) map[string]interface{} {
	if m == nil {
		m = make(map[string]interface{})
	}
	for _, item := range n {
		for key, value := range item {
			m[key] = value
		}
	}
	return m
}
