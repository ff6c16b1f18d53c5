package model

// NodeSpec is a provider-neutral template for a new node: image
// reference, hardware/flavor, network attributes, location. Inert data.
type NodeSpec struct {
	Image    string
	Flavor   string
	Network  map[string]string
	Location string

	// Packager names the package-manager abstraction
	// (":aptitude", ":yum", ":pacman") a node's OS family maps to, so an
	// executor's package-manager dispatch (itself out of scope to
	// implement) has a concrete field to read.
	Packager string
}

// Clone returns a value with its own Network map so callers never
// accidentally share mutable map state across group specs.
func (n NodeSpec) Clone() NodeSpec {
	out := n
	if n.Network != nil {
		out.Network = make(map[string]string, len(n.Network))
		for k, v := range n.Network {
			out.Network[k] = v
		}
	}
	return out
}

// MergeNodeSpec overlays child's non-zero fields onto parent, matching
// the scalar-overwrite rule of the spec-merge table (spec.md §4.1).
func MergeNodeSpec(parent, child NodeSpec) NodeSpec {
	out := parent.Clone()
	if child.Image != "" {
		out.Image = child.Image
	}
	if child.Flavor != "" {
		out.Flavor = child.Flavor
	}
	if child.Location != "" {
		out.Location = child.Location
	}
	if child.Packager != "" {
		out.Packager = child.Packager
	}
	if len(child.Network) > 0 {
		merged := out.Clone().Network
		if merged == nil {
			merged = map[string]string{}
		}
		for k, v := range child.Network {
			merged[k] = v
		}
		out.Network = merged
	}
	return out
}
