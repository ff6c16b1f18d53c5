package operation

import (
	"context"
	"testing"

	"github.com/fleetctl/fleetctl/pkg/compute"
	"github.com/fleetctl/fleetctl/pkg/executor"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webGroup(count int) model.GroupSpec {
	n := count
	return model.GroupSpec{
		GroupName: "web",
		Count:     &n,
		ServerSpec: model.ServerSpec{
			Phases: model.NewPhaseMap(),
		},
	}
}

func baseOptions(prov compute.Provider, exec executor.Executor) Options {
	osDetect := false
	return Options{
		Compute:  prov,
		Executor: exec,
		User:     "admin",
		OSDetect: &osDetect,
	}
}

func TestConvergeGrowsFromZero(t *testing.T) {
	prov := compute.NewFakeProvider()
	exec := executor.NewRecordingExecutor()
	group := webGroup(2)

	result, err := Converge(context.Background(), []model.GroupSpec{group}, nil, baseOptions(prov, exec))
	require.NoError(t, err)
	assert.Len(t, result.Targets, 2)

	nodes, _ := prov.Nodes(context.Background())
	assert.Len(t, nodes, 2)
}

func TestConvergeShrinksExistingGroup(t *testing.T) {
	seedA := nodeNamed("web-a", "web")
	seedB := nodeNamed("web-b", "web")
	prov := compute.NewFakeProvider(seedA, seedB)
	exec := executor.NewRecordingExecutor()
	group := webGroup(1)

	result, err := Converge(context.Background(), []model.GroupSpec{group}, nil, baseOptions(prov, exec))
	require.NoError(t, err)
	assert.Len(t, result.Targets, 1)
	assert.Len(t, result.OldNodeIDs, 1)

	nodes, _ := prov.Nodes(context.Background())
	assert.Len(t, nodes, 1)
}

func TestConvergeDissolvesGroupAtZero(t *testing.T) {
	seed := nodeNamed("web-a", "web")
	prov := compute.NewFakeProvider(seed)
	exec := executor.NewRecordingExecutor()
	group := webGroup(0)

	result, err := Converge(context.Background(), []model.GroupSpec{group}, nil, baseOptions(prov, exec))
	require.NoError(t, err)
	assert.Empty(t, result.Targets)
	assert.Len(t, result.OldNodeIDs, 1)
}

func TestConvergeRejectsMissingExecutor(t *testing.T) {
	prov := compute.NewFakeProvider()
	opts := baseOptions(prov, nil)

	_, err := Converge(context.Background(), []model.GroupSpec{webGroup(1)}, nil, opts)
	assert.Error(t, err)
}

func TestConvergeRunsBootstrapExactlyOncePerNewNode(t *testing.T) {
	prov := compute.NewFakeProvider()
	exec := executor.NewRecordingExecutor()

	var bootstrapRan int
	phases := model.NewPhaseMap()
	phases.Set("bootstrap", model.Phase{Name: "bootstrap", Fn: func(context.Context, model.Session) (any, error) {
		bootstrapRan++
		return nil, nil
	}})
	count := 3
	group := model.GroupSpec{GroupName: "web", Count: &count, ServerSpec: model.ServerSpec{Phases: phases}}

	result, err := Converge(context.Background(), []model.GroupSpec{group}, nil, baseOptions(prov, exec))
	require.NoError(t, err)
	assert.Len(t, result.Targets, 3)
	assert.Equal(t, 3, bootstrapRan)
}

func TestConvergeAllNodeSetReceivesOnlySettings(t *testing.T) {
	seed := nodeNamed("retained-a", "retained")
	prov := compute.NewFakeProvider(seed)
	exec := executor.NewRecordingExecutor()

	var settingsRan, bootstrapRan int
	phases := model.NewPhaseMap()
	phases.Set("settings", model.Phase{Name: "settings", Fn: func(context.Context, model.Session) (any, error) {
		settingsRan++
		return nil, nil
	}})
	phases.Set("bootstrap", model.Phase{Name: "bootstrap", Fn: func(context.Context, model.Session) (any, error) {
		bootstrapRan++
		return nil, nil
	}})
	retainedGroup := model.GroupSpec{GroupName: "retained", ServerSpec: model.ServerSpec{Phases: phases}}

	opts := baseOptions(prov, exec)
	opts.AllNodeSet = []model.GroupSpec{retainedGroup}

	result, err := Converge(context.Background(), nil, nil, opts)
	require.NoError(t, err)
	assert.Len(t, result.Targets, 1)
	assert.Equal(t, 1, settingsRan)
	assert.Equal(t, 0, bootstrapRan)
}

func TestConvergeAsyncCompletesAndIsAwaitable(t *testing.T) {
	prov := compute.NewFakeProvider()
	exec := executor.NewRecordingExecutor()
	opts := baseOptions(prov, exec)
	opts.Async = true

	op := ConvergeAsync(context.Background(), []model.GroupSpec{webGroup(1)}, nil, opts)
	result, err := op.Await(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Targets, 1)
	assert.Equal(t, StatusDone, op.Status())
}
