package model

import (
	"github.com/jinzhu/copier"
	"github.com/samber/lo"
)

// ServerSpec is a mapping from phase name to plan function plus per-phase
// metadata, composable through an `:extends` chain (spec.md §3).
type ServerSpec struct {
	Extends       []ServerSpec
	Phases        PhaseMap
	Roles         []string
	DefaultPhases []string
}

// NewServerSpec returns a ServerSpec with an initialized, empty phase map
// so callers never have to nil-check before composing.
func NewServerSpec() ServerSpec {
	return ServerSpec{Phases: NewPhaseMap()}
}

// Clone deep-copies everything except the PlanFunc values themselves
// (functions are immutable by construction, copier cannot clone them and
// doesn't need to).
func (s ServerSpec) Clone() ServerSpec {
	out := s
	out.Phases = ClonePhaseMap(s.Phases)
	out.Roles = append([]string(nil), s.Roles...)
	out.DefaultPhases = append([]string(nil), s.DefaultPhases...)
	out.Extends = nil
	for _, e := range s.Extends {
		out.Extends = append(out.Extends, e.Clone())
	}
	return out
}

// MergeServerSpec implements the spec-merge algorithm of spec.md §4.1:
// phase maps merge recursively (child wins per key), :roles union,
// sequences concatenate in declaration order, scalars overwrite. child
// wins; parent is never mutated.
func MergeServerSpec(parent, child ServerSpec) ServerSpec {
	out := ServerSpec{}

	// deep-copy the parent's scalar-ish fields defensively; jinzhu/copier
	// is used here (rather than a hand-rolled copy) the way the teacher's
	// spec-merge-adjacent code leans on struct copiers for defensive
	// value semantics across merge boundaries.
	var parentCopy ServerSpec
	_ = copier.CopyWithOption(&parentCopy, &parent, copier.Option{DeepCopy: false})
	parentCopy.Phases = ClonePhaseMap(parent.Phases)

	out.Phases = MergePhaseMaps(parentCopy.Phases, child.Phases)
	out.Roles = lo.Uniq(append(append([]string{}, parent.Roles...), child.Roles...))
	out.DefaultPhases = child.DefaultPhases
	if len(out.DefaultPhases) == 0 {
		out.DefaultPhases = parent.DefaultPhases
	}
	if len(out.DefaultPhases) == 0 {
		out.DefaultPhases = []string{"configure"}
	}
	out.Extends = append(append([]ServerSpec{}, parent.Extends...), child.Extends...)
	return out
}

// FlattenExtends folds a left-to-right `:extends` chain into one effective
// ServerSpec, then merges `self` as the final child so its own fields win
// over every ancestor (spec.md §4.1 item b).
func FlattenExtends(self ServerSpec) ServerSpec {
	base := NewServerSpec()
	for _, ancestor := range self.Extends {
		base = MergeServerSpec(base, FlattenExtends(ancestor))
	}
	return MergeServerSpec(base, ServerSpec{
		Phases:        self.Phases,
		Roles:         self.Roles,
		DefaultPhases: self.DefaultPhases,
	})
}
