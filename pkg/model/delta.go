package model

// GroupDelta is the output of delta computation (C3): how many nodes a
// group actually has versus how many it should have, and the resolved
// targets the adjuster/executor will act on (spec.md §4.3).
type GroupDelta struct {
	Group   GroupSpec
	Actual  int
	Target  int
	Delta   int // Target - Actual; positive means grow, negative means shrink
	Targets []Target
}

// NeedsGrowth reports whether this group is short of its target count.
func (d GroupDelta) NeedsGrowth() bool {
	return d.Delta > 0
}

// NeedsShrink reports whether this group has more nodes than its target
// count.
func (d GroupDelta) NeedsShrink() bool {
	return d.Delta < 0
}

// AddSpec is one unit of growth work the node-count adjuster (C4) must
// perform: create CreateCount new nodes for Group, creating the group
// itself first if it doesn't exist yet.
type AddSpec struct {
	Group       GroupSpec
	CreateCount int
	CreateGroup bool
}

// RemovalSpec is one unit of shrink work: destroy the given targets, and
// if RemoveGroup is set, destroy the now-empty group container itself
// once every target is gone (spec.md §4.4, "destroy-server before
// destroy-group ordering").
type RemovalSpec struct {
	Group       GroupSpec
	Targets     []Target
	RemoveGroup bool
}
