// Package node defines the live-handle side of spec.md's data model: the
// Node capabilities effector from §6 and a concrete in-memory Node used
// by the fake compute provider and by tests.
package node

// Node mirrors spec.md §6 "Node capabilities (effector)" verbatim: id,
// base-name, primary-ip, taggable?, tag(key), has-base-name?(name),
// compute-service.
type Node interface {
	ID() string
	BaseName() string
	PrimaryIP() string
	Taggable() bool
	Tag(key string) (string, bool)
	HasBaseName(name string) bool
	ComputeService() string
}

// Basic is the reference Node implementation: a provider-neutral record
// that any compute effector can populate and tag.
type Basic struct {
	NodeID  string
	Name    string
	IP      string
	Service string
	CanTag  bool
	Tags    map[string]string
}

var _ Node = Basic{}

func (n Basic) ID() string             { return n.NodeID }
func (n Basic) BaseName() string       { return n.Name }
func (n Basic) PrimaryIP() string      { return n.IP }
func (n Basic) Taggable() bool         { return n.CanTag }
func (n Basic) ComputeService() string { return n.Service }

func (n Basic) Tag(key string) (string, bool) {
	if n.Tags == nil {
		return "", false
	}
	v, ok := n.Tags[key]
	return v, ok
}

func (n Basic) HasBaseName(name string) bool {
	return n.Name == name
}

// WithTag returns a copy of n with key set to value; Basic is treated as
// inert data, never mutated in place (spec.md §3).
func (n Basic) WithTag(key, value string) Basic {
	tags := make(map[string]string, len(n.Tags)+1)
	for k, v := range n.Tags {
		tags[k] = v
	}
	tags[key] = value
	n.Tags = tags
	return n
}
