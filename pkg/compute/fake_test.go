package compute

import (
	"context"
	"testing"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeProviderCreateAndDestroy(t *testing.T) {
	p := NewFakeProvider()

	created, err := p.CreateNodes(context.Background(), model.NodeSpec{Image: "ubuntu"}, "web", "admin", 2)
	require.NoError(t, err)
	require.Len(t, created, 2)

	nodes, err := p.Nodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	targets := []model.Target{{Node: created[0]}}
	res, err := p.DestroyNodes(context.Background(), targets)
	require.NoError(t, err)
	assert.Equal(t, []string{created[0].ID()}, res.DestroyedNodeIDs)

	nodes, err = p.Nodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestFakeProviderDestroyUnknownNodeErrors(t *testing.T) {
	p := NewFakeProvider()
	res, err := p.DestroyNodes(context.Background(), []model.Target{{Node: fakeNodeStub{"missing"}}})
	require.NoError(t, err)
	assert.Empty(t, res.DestroyedNodeIDs)
	assert.Len(t, res.Errors, 1)
}

type fakeNodeStub struct{ id string }

func (f fakeNodeStub) ID() string                     { return f.id }
func (f fakeNodeStub) BaseName() string                { return f.id }
func (f fakeNodeStub) PrimaryIP() string               { return "" }
func (f fakeNodeStub) Taggable() bool                  { return false }
func (f fakeNodeStub) Tag(string) (string, bool)       { return "", false }
func (f fakeNodeStub) HasBaseName(name string) bool    { return f.id == name }
func (f fakeNodeStub) ComputeService() string          { return "" }
