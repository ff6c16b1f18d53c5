// Package phase implements the phase executor (C5): lift-phase/lift-op,
// the concrete Session/PlanState that satisfy pkg/model's interfaces,
// and the per-target recorder stack spec.md §4.5/§9 describe.
package phase

import (
	"context"
	"fmt"
	"sync"

	"github.com/fleetctl/fleetctl/pkg/model"
)

// State is the concrete PlanState: a guarded cell per spec.md §5 "Shared
// resources" ("concurrent reads are safe, writes are serialized by the
// container implementation"), keyed by scope level then key.
type State struct {
	mu   sync.RWMutex
	data map[model.ScopeLevel]map[string]any
}

var _ model.PlanState = (*State)(nil)

// NewPlanState seeds a fresh scoped key/value store, optionally
// pre-populated at universe scope from a caller's `plan-state` option
// (spec.md §4.6 step 7, "in-memory plan-state (seeded from
// options.plan-state)").
func NewPlanState(seed map[string]any) *State {
	s := &State{data: map[model.ScopeLevel]map[string]any{}}
	for k, v := range seed {
		s.Set(model.ScopeUniverse, k, v)
	}
	return s
}

func (s *State) Get(level model.ScopeLevel, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for l := level; l <= model.ScopeUniverse; l++ {
		if scope, ok := s.data[l]; ok {
			if v, ok := scope[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

func (s *State) Set(level model.ScopeLevel, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scope, ok := s.data[level]
	if !ok {
		scope = map[string]any{}
		s.data[level] = scope
	}
	scope[key] = value
}

// recorder is the capture sink spec.md §9 describes as "a stack: each
// execute pushes a scope-local recorder juxtaposed with any enclosing
// recorder". A child recorder's results fan out into its parent's on
// Record, but the parent is never mutated by a sibling.
type recorder struct {
	mu      sync.Mutex
	parent  *recorder
	results []model.ActionResult
}

func newRecorder(parent *recorder) *recorder {
	return &recorder{parent: parent}
}

func (r *recorder) record(a model.ActionResult) {
	r.mu.Lock()
	r.results = append(r.results, a)
	r.mu.Unlock()
	if r.parent != nil {
		r.parent.record(a)
	}
}

func (r *recorder) snapshot() []model.ActionResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ActionResult(nil), r.results...)
}

// dispatchFunc is the shape pkg/executor.Adapter.Execute exposes; kept
// as a plain func type here so pkg/model stays free of any executor
// dependency while Session.Execute still has somewhere to dispatch to.
type dispatchFunc func(model.Target, model.Action) (model.ActionResult, error)

// Session is the concrete model.Session; values are treated as
// immutable (spec.md §9 "Session propagation") — WithTarget returns a
// derivative rather than mutating the receiver.
type Session struct {
	ctx      context.Context
	target   model.Target
	ps       model.PlanState
	user     string
	rec      *recorder
	dispatch dispatchFunc
}

var _ model.Session = (*Session)(nil)

// NewSession builds the root per-operation Session (spec.md §4.6 step 7).
func NewSession(ctx context.Context, ps model.PlanState, user string, dispatch dispatchFunc) *Session {
	return &Session{ctx: ctx, ps: ps, user: user, rec: newRecorder(nil), dispatch: dispatch}
}

// WithTarget derives a per-target session: target bound, a fresh child
// recorder pushed onto the stack so this target's actions fan out into
// the parent without the parent's actions leaking back down (spec.md
// §4.5 step 2, §9 "Session propagation").
func (s *Session) WithTarget(t model.Target) *Session {
	return &Session{ctx: s.ctx, target: t, ps: s.ps, user: s.user, rec: newRecorder(s.rec), dispatch: s.dispatch}
}

func (s *Session) Context() context.Context    { return s.ctx }
func (s *Session) Target() model.Target        { return s.target }
func (s *Session) PlanState() model.PlanState  { return s.ps }
func (s *Session) User() string                { return s.user }
func (s *Session) Record(a model.ActionResult) { s.rec.record(a) }

// Execute dispatches action through the session's executor and records
// the resulting ActionResult, whether it succeeded or carries a domain
// error (spec.md §4.5 item 3).
func (s *Session) Execute(action model.Action) (model.ActionResult, error) {
	if s.dispatch == nil {
		return model.ActionResult{}, fmt.Errorf("session has no executor configured")
	}
	result, err := s.dispatch(s.target, action)
	if err != nil {
		return result, err
	}
	s.Record(result)
	return result, nil
}

// ActionResults returns everything this session's recorder (and its
// descendants) has captured so far.
func (s *Session) ActionResults() []model.ActionResult { return s.rec.snapshot() }
