package delta

import (
	"testing"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPtr(n int) *int { return &n }

func webGroup(count int) model.GroupSpec {
	return model.GroupSpec{
		GroupName:  "web",
		Count:      countPtr(count),
		NodeFilter: func(n node.Node) bool { return n.HasBaseName("web") },
	}
}

func TestComputeErrorsOnMissingCount(t *testing.T) {
	_, err := Compute([]model.GroupSpec{{GroupName: "web"}}, nil)
	require.Error(t, err)
}

func TestComputeGrowFromZero(t *testing.T) {
	deltas, err := Compute([]model.GroupSpec{webGroup(2)}, nil)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, 0, deltas[0].Actual)
	assert.Equal(t, 2, deltas[0].Delta)
	assert.True(t, deltas[0].NeedsGrowth())
}

func TestPartitionDissolveSetsRemoveGroup(t *testing.T) {
	n1 := node.Basic{NodeID: "1", Name: "web"}
	targets := []model.Target{{Node: n1}}
	group := webGroup(0)
	deltas, err := Compute([]model.GroupSpec{group}, targets)
	require.NoError(t, err)

	_, removals := Partition(deltas)
	require.Len(t, removals, 1)
	assert.True(t, removals[0].RemoveGroup)
	assert.Len(t, removals[0].Targets, 1)
}

func TestPartitionGrowSetsCreateGroup(t *testing.T) {
	deltas, err := Compute([]model.GroupSpec{webGroup(3)}, nil)
	require.NoError(t, err)

	adds, _ := Partition(deltas)
	require.Len(t, adds, 1)
	assert.True(t, adds[0].CreateGroup)
	assert.Equal(t, 3, adds[0].CreateCount)
}

func TestPartitionShrinkWithoutDissolveKeepsGroup(t *testing.T) {
	n1 := node.Basic{NodeID: "1", Name: "web"}
	n2 := node.Basic{NodeID: "2", Name: "web"}
	targets := []model.Target{{Node: n1}, {Node: n2}}
	group := webGroup(1)
	deltas, err := Compute([]model.GroupSpec{group}, targets)
	require.NoError(t, err)

	_, removals := Partition(deltas)
	require.Len(t, removals, 1)
	assert.False(t, removals[0].RemoveGroup)
	assert.Len(t, removals[0].Targets, 1)
}
