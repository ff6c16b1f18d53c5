// Package compute defines the compute provider effector (spec.md §6):
// the interface the adjuster creates and destroys nodes through, plus a
// fake in-memory provider for tests and an HTTP provider grounded in the
// teacher's resty-backed store client.
package compute

import (
	"context"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
)

// ServiceProperties is the opaque `{provider, ...}` map spec.md §6
// leaves unspecified beyond the `provider` key every implementation must
// set.
type ServiceProperties map[string]string

// DestroyResult reports, per spec.md §6, which node IDs were actually
// destroyed and which destroy attempts errored — the two are not
// required to be disjoint-complete; a provider may report neither for an
// ID it silently ignored.
type DestroyResult struct {
	DestroyedNodeIDs []string
	Errors           []error
}

// Provider is the compute effector spec.md §6 requires: nodes(),
// create-nodes(), destroy-nodes(), service-properties().
type Provider interface {
	Nodes(ctx context.Context) ([]node.Node, error)
	CreateNodes(ctx context.Context, spec model.NodeSpec, groupName, user string, count int) ([]node.Node, error)
	DestroyNodes(ctx context.Context, targets []model.Target) (DestroyResult, error)
	ServiceProperties(ctx context.Context) (ServiceProperties, error)
}
