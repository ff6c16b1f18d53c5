package model

import "github.com/samber/lo"

// ClusterSpec is a named container of GroupSpecs. Expansion prefixes each
// contained group's group-name with the cluster name, unions cluster-level
// roles, and extends each group with cluster-level phases and node-spec
// (spec.md §3, §4.1 "Cluster expansion"). Count, when set, is the nested
// parent-count spec.md §4.6 step 4 multiplies into each member group's
// own :count (a cluster-of-clusters fans out cardinalities consistently);
// nil behaves as a factor of 1.
type ClusterSpec struct {
	Name     string
	Count    *int
	Groups   []GroupSpec
	Roles    []string
	Extends  []ServerSpec
	Phases   PhaseMap
	NodeSpec NodeSpec
}

// ExpandClusterSpec implements spec.md §4.1's cluster-expansion rule:
// for a cluster C with groups [g1...gn]: prefix each group's group-name
// with "C.name-", union C.roles, extend-specs by C.extends then by
// C.phases, then reapply each group's own phases last so group phases
// win over cluster phases.
func ExpandClusterSpec(c ClusterSpec) []GroupSpec {
	out := make([]GroupSpec, 0, len(c.Groups))
	for _, g := range c.Groups {
		expanded := g.Clone()
		expanded.GroupName = c.Name + "-" + g.GroupName
		expanded.Roles = lo.Uniq(append(append([]string{}, c.Roles...), g.Roles...))

		merged := NewServerSpec()
		for _, ext := range c.Extends {
			merged = MergeServerSpec(merged, FlattenExtends(ext))
		}
		merged = MergeServerSpec(merged, ServerSpec{Phases: c.Phases})
		// reapply the group's own ServerSpec last so its phases win over
		// both the cluster's extends chain and the cluster's own phases.
		merged = MergeServerSpec(merged, expanded.ServerSpec)
		expanded.ServerSpec = merged
		expanded.NodeSpec = MergeNodeSpec(c.NodeSpec, g.NodeSpec)

		out = append(out, expanded)
	}
	return out
}
