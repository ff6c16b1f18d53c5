package model

import "github.com/fleetctl/fleetctl/pkg/node"

// TargetType distinguishes a resolved node target from a group-scope
// target that has no live node, which the adjuster uses to run the
// :create-group and :destroy-group phases.
type TargetType int

const (
	TargetNode TargetType = iota
	TargetPendingGroup
)

// Target is one resolvable unit of work: a live node bound to the
// group(s) and role set it resolved against, plus the merged phase map
// it will execute (spec.md §3, §4.2).
type Target struct {
	Type TargetType

	Node       node.Node
	GroupName  string
	GroupNames []string
	Roles      []string
	Phases     PhaseMap
}

// ID returns the underlying node's ID for a resolved node target, or the
// group name for a group-scope target — the identifier the
// phase executor and the adjuster log and partition by.
func (t Target) ID() string {
	if t.Node != nil {
		return t.Node.ID()
	}
	return t.GroupName
}

// HasRole reports whether role is among the roles this target resolved
// with, used by the role index (pkg/target) and by plan functions that
// branch on role.
func (t Target) HasRole(role string) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}
