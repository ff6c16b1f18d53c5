package operation

import (
	"context"
	"testing"

	"github.com/fleetctl/fleetctl/pkg/compute"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/executor"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingExecutor waits for its context to be cancelled before
// returning, letting tests observe an Operation mid-flight.
type blockingExecutor struct{}

func (blockingExecutor) Execute(ctx context.Context, _ model.Target, _ executor.Action) mo.Result[model.ActionResult] {
	<-ctx.Done()
	return mo.Err[model.ActionResult](ctx.Err())
}

func TestLiftRunsSettingsThenCallerPhases(t *testing.T) {
	nodes := []node.Node{nodeNamed("web-a", "web")}
	phases := model.NewPhaseMap()
	phases.Set("settings", model.Phase{Name: "settings", Fn: func(_ context.Context, s model.Session) (any, error) {
		_, err := s.Execute(model.Action{Command: "apply-settings"})
		return nil, err
	}})
	phases.Set("deploy", model.Phase{Name: "deploy", Fn: func(_ context.Context, s model.Session) (any, error) {
		_, err := s.Execute(model.Action{Command: "deploy-app"})
		return nil, err
	}})
	group := model.GroupSpec{GroupName: "web", ServerSpec: model.ServerSpec{Phases: phases}}

	exec := executor.NewRecordingExecutor()
	opts := baseOptions(compute.NewFakeProvider(), exec)
	opts.Phase = []PhaseRef{{Name: "deploy"}}

	result, err := Lift(context.Background(), nodes, group, opts)
	require.NoError(t, err)
	assert.Len(t, result.Results, 2)

	var commands []string
	for _, c := range exec.Calls {
		commands = append(commands, c.Action.Command)
	}
	assert.Equal(t, []string{"apply-settings", "deploy-app"}, commands)
}

func TestLiftStopsAfterSettingsDomainError(t *testing.T) {
	nodes := []node.Node{nodeNamed("web-a", "web")}
	phases := model.NewPhaseMap()
	phases.Set("settings", model.Phase{Name: "settings", Fn: func(_ context.Context, s model.Session) (any, error) {
		_, err := s.Execute(model.Action{Command: "apply-settings"})
		return nil, err
	}})
	phases.Set("deploy", model.Phase{Name: "deploy", Fn: func(_ context.Context, s model.Session) (any, error) {
		_, err := s.Execute(model.Action{Command: "deploy-app"})
		return nil, err
	}})
	group := model.GroupSpec{GroupName: "web", ServerSpec: model.ServerSpec{Phases: phases}}

	exec := executor.NewRecordingExecutor()
	exec.StubError("apply-settings", 1, fleeterrors.DomainError{Action: "settings", ExitCode: 1, Message: "boom"})
	opts := baseOptions(compute.NewFakeProvider(), exec)
	opts.Phase = []PhaseRef{{Name: "deploy"}}

	_, err := Lift(context.Background(), nodes, group, opts)
	require.Error(t, err)

	for _, c := range exec.Calls {
		assert.NotEqual(t, "deploy-app", c.Action.Command)
	}
}

func TestLiftSyncHonorsTimeoutMS(t *testing.T) {
	nodes := []node.Node{nodeNamed("web-a", "web")}
	phases := model.NewPhaseMap()
	phases.Set("settings", model.Phase{Name: "settings", Fn: func(_ context.Context, s model.Session) (any, error) {
		_, err := s.Execute(model.Action{Command: "block"})
		return nil, err
	}})
	group := model.GroupSpec{GroupName: "web", ServerSpec: model.ServerSpec{Phases: phases}}

	opts := baseOptions(compute.NewFakeProvider(), blockingExecutor{})
	opts.TimeoutMS = 20

	// Lift delegates to LiftAsync+Await once TimeoutMS is set, so a
	// blocked settings phase returns a TimeoutError instead of hanging
	// the synchronous caller forever.
	_, err := Lift(context.Background(), nodes, group, opts)
	require.Error(t, err)
	assert.IsType(t, fleeterrors.TimeoutError{}, err)
}

func TestLiftAsyncCanBeCancelled(t *testing.T) {
	nodes := []node.Node{nodeNamed("web-a", "web")}
	phases := model.NewPhaseMap()
	phases.Set("settings", model.Phase{Name: "settings", Fn: func(_ context.Context, s model.Session) (any, error) {
		_, err := s.Execute(model.Action{Command: "block"})
		return nil, err
	}})
	group := model.GroupSpec{GroupName: "web", ServerSpec: model.ServerSpec{Phases: phases}}

	opts := baseOptions(compute.NewFakeProvider(), blockingExecutor{})
	opts.Async = true

	op := LiftAsync(context.Background(), nodes, group, opts)
	op.Cancel()

	_, err := op.Await(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StatusCancelled, op.Status())
}
