// Package target implements the target resolver (C2): classifying live
// nodes under zero or more groups via each group's node-filter and
// folding matching group-specs into resolved Target records (spec.md
// §4.2).
package target

import (
	"github.com/fleetctl/fleetctl/pkg/collections"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
)

// Resolve classifies each node in nodes under the groups that accept it
// via node-filter, folding every matching group's phases/roles together
// and dropping nodes that match no group (spec.md §4.2, "Algorithm").
func Resolve(nodes []node.Node, groups []model.GroupSpec) []model.Target {
	out := make([]model.Target, 0, len(nodes))
	for _, n := range nodes {
		matches := matchingGroups(n, groups)
		if len(matches) == 0 {
			continue
		}
		out = append(out, foldTarget(n, matches))
	}
	return out
}

func matchingGroups(n node.Node, groups []model.GroupSpec) []model.GroupSpec {
	return collections.Filter(func(g model.GroupSpec) bool {
		if g.NodeFilter == nil {
			return false
		}
		return g.NodeFilter(n)
	}, groups)
}

func foldTarget(n node.Node, groups []model.GroupSpec) model.Target {
	merged := model.NewServerSpec()
	groupNames := make([]string, 0, len(groups))
	roles := make([]string, 0)
	for _, g := range groups {
		merged = model.MergeServerSpec(merged, g.ServerSpec)
		groupNames = append(groupNames, g.GroupName)
		roles = append(roles, g.Roles...)
	}
	primary := groups[0].GroupName
	return model.Target{
		Type:       model.TargetNode,
		Node:       n,
		GroupName:  primary,
		GroupNames: collections.Uniq(groupNames),
		Roles:      collections.Uniq(roles),
		Phases:     merged.Phases,
	}
}

// ResolveRaw materializes one target per node for a caller-supplied
// (group-spec, nodes) pair that bypasses filter matching entirely
// (spec.md §4.2, "Non-group targets").
func ResolveRaw(g model.GroupSpec, nodes []node.Node) []model.Target {
	out := make([]model.Target, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, model.Target{
			Type:       model.TargetNode,
			Node:       n,
			GroupName:  g.GroupName,
			GroupNames: []string{g.GroupName},
			Roles:      append([]string(nil), g.Roles...),
			Phases:     g.Phases,
		})
	}
	return out
}

// RoleIndex inverts a target set into a role → nodes map, letting a plan
// function resolve cross-role references (spec.md §4.2, "Role index").
func RoleIndex(targets []model.Target) map[string][]node.Node {
	idx := map[string][]node.Node{}
	for _, t := range targets {
		if t.Node == nil {
			continue
		}
		for _, r := range t.Roles {
			idx[r] = append(idx[r], t.Node)
		}
	}
	return idx
}
