package model

import "github.com/fleetctl/fleetctl/pkg/node"

// NodeFilterFn decides whether a live node belongs to a group.
type NodeFilterFn func(n node.Node) bool

// RemovalSelectionFn picks which n of the matching targets to remove.
// The default, Take, is total on (n, xs) when n == len(xs): it returns
// all of xs, which is exactly what dissolving a group (count == 0) needs
// (spec.md §9 open question).
type RemovalSelectionFn func(n int, targets []Target) []Target

// Take is the default RemovalSelectionFn: the first n targets, or all of
// them if n >= len(targets).
func Take(n int, targets []Target) []Target {
	if n >= len(targets) {
		return targets
	}
	if n <= 0 {
		return nil
	}
	return targets[:n]
}

// GroupSpec extends ServerSpec with group-level fields (spec.md §3).
type GroupSpec struct {
	ServerSpec

	GroupName string
	Count     *int
	NodeSpec  NodeSpec
	Roles     []string

	NodeFilter         NodeFilterFn
	RemovalSelectionFn RemovalSelectionFn

	// Provider is the symbolic name of a compute effector, as declared in
	// a fleet file. Converge does not read it: every group is created and
	// destroyed through the single options.Compute provider.
	Provider string
}

// DefaultNodeFilter implements spec.md §3's default node-filter: a node
// carries the group-name tag, else its base-name matches.
func DefaultNodeFilter(groupNameTagKey, groupName string) NodeFilterFn {
	return func(n node.Node) bool {
		if tag, ok := n.Tag(groupNameTagKey); ok {
			return tag == groupName
		}
		return n.HasBaseName(groupName)
	}
}

// Clone deep-copies a GroupSpec so mutation during merge never reaches a
// shared ancestor.
func (g GroupSpec) Clone() GroupSpec {
	out := g
	out.ServerSpec = g.ServerSpec.Clone()
	out.NodeSpec = g.NodeSpec.Clone()
	out.Roles = append([]string(nil), g.Roles...)
	return out
}
