// Package treestate tracks per-entity inclusion flags and description
// overrides in a side table keyed by stable entity key, separate from the
// parsed model. A freshly re-parsed model can have prior state reattached by
// key lookup, which is what makes project persistence and merge possible
// without coupling either to parse internals.
package treestate

import (
	"github.com/l5ktune/l5ktune/internal/export"
	"github.com/l5ktune/l5ktune/internal/model"
)

// State is the inclusion/description side table for one project model.
// The header is not tracked; it is always included in exports.
type State struct {
	keys         []model.Key
	known        map[model.Key]bool
	included     map[model.Key]bool
	descriptions map[model.Key]string
}

// FromProject builds a state covering every filterable entity in the
// project. All entities start excluded.
func FromProject(p *model.Project) *State {
	s := &State{
		known:        make(map[model.Key]bool),
		included:     make(map[model.Key]bool),
		descriptions: make(map[model.Key]string),
	}
	for _, k := range model.Keys(p) {
		s.keys = append(s.keys, k)
		s.known[k] = true
	}
	return s
}

// Keys returns the tracked keys in model order.
func (s *State) Keys() []model.Key {
	out := make([]model.Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// Has reports whether key is tracked.
func (s *State) Has(k model.Key) bool {
	return s.known[k]
}

// SetIncluded sets the inclusion flag for key. Unknown keys are ignored.
func (s *State) SetIncluded(k model.Key, included bool) {
	if !s.known[k] {
		return
	}
	s.included[k] = included
}

// Included reports the inclusion flag for key.
func (s *State) Included(k model.Key) bool {
	return s.included[k]
}

// IncludeAll marks every tracked entity included.
func (s *State) IncludeAll() {
	for _, k := range s.keys {
		s.included[k] = true
	}
}

// ExcludeAll clears every inclusion flag.
func (s *State) ExcludeAll() {
	s.included = make(map[model.Key]bool)
}

// SetDescription records a description override for key.
func (s *State) SetDescription(k model.Key, desc string) {
	if !s.known[k] {
		return
	}
	s.descriptions[k] = desc
}

// Description returns the override for key, if any.
func (s *State) Description(k model.Key) (string, bool) {
	d, ok := s.descriptions[k]
	return d, ok
}

// Selection converts the included entities into an export selection.
func (s *State) Selection() export.Selection {
	sel := export.NewSelection()
	for _, k := range s.keys {
		if s.included[k] {
			sel.Include(k)
		}
	}
	return sel
}

// ApplyDescriptions writes the recorded overrides into the model's entities.
func (s *State) ApplyDescriptions(p *model.Project) {
	for k, desc := range s.descriptions {
		switch k.Kind {
		case model.KindUDT:
			if udt, ok := p.UDTs.Get(k.Name); ok {
				udt.Description = desc
			}
		case model.KindAOI:
			if aoi, ok := p.AOIs.Get(k.Name); ok {
				aoi.Description = desc
			}
		case model.KindTag:
			if tag, ok := p.Tags.Get(k.Name); ok {
				tag.Description = desc
			}
		case model.KindProgram:
			if prog, ok := p.Programs.Get(k.Name); ok {
				prog.Description = desc
			}
		case model.KindProgramTag:
			if prog, ok := p.Programs.Get(k.Parent); ok {
				if tag, ok := prog.Tags.Get(k.Name); ok {
					tag.Description = desc
				}
			}
		}
	}
}

// Sync reconciles the state with a model whose entity set changed (after a
// merge application). New entities are tracked excluded; entities no longer
// present are dropped. Flags and overrides of surviving keys are untouched.
func (s *State) Sync(p *model.Project) {
	current := model.Keys(p)
	currentSet := make(map[model.Key]bool, len(current))
	for _, k := range current {
		currentSet[k] = true
	}
	for _, k := range s.keys {
		if !currentSet[k] {
			delete(s.included, k)
			delete(s.descriptions, k)
			delete(s.known, k)
		}
	}
	s.keys = s.keys[:0]
	for _, k := range current {
		s.keys = append(s.keys, k)
		s.known[k] = true
	}
}
