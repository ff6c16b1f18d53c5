// Package spec implements the spec composer (C1): canonicalizing raw
// group declarations into effective ServerSpec/GroupSpec values through
// extends-flattening, environment overlay, and cluster expansion
// (spec.md §4.1).
package spec

import (
	"github.com/fleetctl/fleetctl/pkg/collections"
	"github.com/fleetctl/fleetctl/pkg/config"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/samber/lo"
)

// Environment is the `:environment` overlay map of spec.md §4.1: a
// group-name keyed set of per-group overlays plus node-level keys
// applied to every group.
type Environment struct {
	Image  string
	Phases model.PhaseMap
	Groups map[string]model.GroupSpec
}

// Compose canonicalizes a raw GroupSpec declaration into its effective
// form: extends-chain flattened, default-phases filled, roles
// deduplicated (spec.md §4.1 items a-d). Compose does not consult an
// environment; call Overlay afterward when one is in play.
func Compose(raw model.GroupSpec) (model.GroupSpec, error) {
	if raw.GroupName == "" {
		return model.GroupSpec{}, fleeterrors.ValidationError{Message: "group-spec missing group-name"}
	}
	flattened := model.FlattenExtends(raw.ServerSpec)
	out := raw.Clone()
	out.ServerSpec = flattened
	out.Roles = lo.Uniq(out.Roles)
	if len(out.DefaultPhases) == 0 {
		out.DefaultPhases = []string{"configure"}
	}
	if out.NodeFilter == nil {
		out.NodeFilter = model.DefaultNodeFilter(config.GlobalConfig.GetGroupNameTagKey(), out.GroupName)
	}
	return out, nil
}

// Overlay implements spec.md §4.1's environment-overlay rule: take E's
// node-level keys, then G, then E.groups[G.group-name], merged
// left-to-right so the per-group overlay wins over both the node-level
// defaults and G's own declared spec.
func Overlay(env Environment, g model.GroupSpec) model.GroupSpec {
	merged := model.ServerSpec{Phases: env.Phases}
	if env.Image != "" && g.NodeSpec.Image == "" {
		g.NodeSpec.Image = env.Image
	}
	merged = model.MergeServerSpec(merged, g.ServerSpec)
	if perGroup, ok := env.Groups[g.GroupName]; ok {
		merged = model.MergeServerSpec(merged, perGroup.ServerSpec)
		g.NodeSpec = model.MergeNodeSpec(g.NodeSpec, perGroup.NodeSpec)
		if perGroup.Count != nil {
			g.Count = perGroup.Count
		}
	}
	g.ServerSpec = merged
	return g
}

// ExpandCluster flattens a ClusterSpec into its member GroupSpecs,
// folding the cluster's own extends-chain with collections.Foldl before
// delegating the rest of the expansion to model.ExpandClusterSpec
// (spec.md §3, §4.1 "Cluster expansion"), then multiplies each member's
// :count by the cluster's own nested parent-count via
// ExpandGroupSpecWithCounts (spec.md §4.6 step 4).
func ExpandCluster(c model.ClusterSpec) []model.GroupSpec {
	c.Extends = collections.Foldl(func(acc []model.ServerSpec, e model.ServerSpec) []model.ServerSpec {
		return append(acc, model.FlattenExtends(e))
	}, []model.ServerSpec{}, c.Extends)
	expanded := model.ExpandClusterSpec(c)
	if c.Count == nil {
		return expanded
	}
	out := make([]model.GroupSpec, len(expanded))
	for i, g := range expanded {
		out[i] = ExpandGroupSpecWithCounts(*c.Count, g)
	}
	return out
}

// ExpandGroupSpecWithCounts implements spec.md §4.6 step 4's nested
// :count resolution: a group nested under a parent multiplies its count
// by the parent's, so a cluster-of-clusters fans out cardinalities
// consistently.
func ExpandGroupSpecWithCounts(parentCount int, g model.GroupSpec) model.GroupSpec {
	if g.Count == nil {
		return g
	}
	n := *g.Count * parentCount
	out := g.Clone()
	out.Count = &n
	return out
}
