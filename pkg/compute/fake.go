package compute

import (
	"context"
	"fmt"
	"sync"

	"github.com/fleetctl/fleetctl/pkg/config"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
	"github.com/google/uuid"
)

// FakeProvider is an in-memory Provider used by tests and by the
// end-to-end scenarios spec.md §8 describes; it never touches the
// network.
type FakeProvider struct {
	mu    sync.Mutex
	nodes map[string]node.Basic
}

var _ Provider = (*FakeProvider)(nil)

func NewFakeProvider(seed ...node.Basic) *FakeProvider {
	p := &FakeProvider{nodes: map[string]node.Basic{}}
	for _, n := range seed {
		p.nodes[n.NodeID] = n
	}
	return p
}

func (p *FakeProvider) Nodes(_ context.Context) ([]node.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]node.Node, 0, len(p.nodes))
	for _, n := range p.nodes {
		out = append(out, n)
	}
	return out, nil
}

func (p *FakeProvider) CreateNodes(_ context.Context, spec model.NodeSpec, groupName, _ string, count int) ([]node.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]node.Node, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.NewString()
		n := node.Basic{
			NodeID:  id,
			Name:    fmt.Sprintf("%s-%s", groupName, id[:8]),
			Service: "fake",
			CanTag:  true,
			Tags:    map[string]string{config.GlobalConfig.GetGroupNameTagKey(): groupName},
		}
		_ = spec // node-spec fields (image/flavor/location) are opaque to the fake
		p.nodes[id] = n
		out = append(out, n)
	}
	return out, nil
}

func (p *FakeProvider) DestroyNodes(_ context.Context, targets []model.Target) (DestroyResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var res DestroyResult
	for _, t := range targets {
		if t.Node == nil {
			continue
		}
		id := t.Node.ID()
		if _, ok := p.nodes[id]; !ok {
			res.Errors = append(res.Errors, fmt.Errorf("fake provider: no such node %s", id))
			continue
		}
		delete(p.nodes, id)
		res.DestroyedNodeIDs = append(res.DestroyedNodeIDs, id)
	}
	return res, nil
}

func (p *FakeProvider) ServiceProperties(_ context.Context) (ServiceProperties, error) {
	return ServiceProperties{"provider": "fake"}, nil
}
