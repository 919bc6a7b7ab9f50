package export

import "github.com/l5ktune/l5ktune/internal/model"

// Selection names the entities to include in an export. Filtering applies at
// whole-entity granularity: a filtered-out entity's body is never partially
// emitted, and members/parameters follow their owner.
type Selection struct {
	UDTs        map[string]bool
	AOIs        map[string]bool
	Tags        map[string]bool
	Programs    map[string]bool
	ProgramTags map[string]map[string]bool
}

// NewSelection creates an empty selection with initialized sets.
func NewSelection() Selection {
	return Selection{
		UDTs:        make(map[string]bool),
		AOIs:        make(map[string]bool),
		Tags:        make(map[string]bool),
		Programs:    make(map[string]bool),
		ProgramTags: make(map[string]map[string]bool),
	}
}

// SelectAll returns a selection covering every entity in the project.
func SelectAll(p *model.Project) Selection {
	sel := NewSelection()
	for _, k := range model.Keys(p) {
		sel.Include(k)
	}
	return sel
}

// Include adds the entity identified by key to the selection.
func (s Selection) Include(k model.Key) {
	switch k.Kind {
	case model.KindUDT:
		s.UDTs[k.Name] = true
	case model.KindAOI:
		s.AOIs[k.Name] = true
	case model.KindTag:
		s.Tags[k.Name] = true
	case model.KindProgram:
		s.Programs[k.Name] = true
	case model.KindProgramTag:
		if s.ProgramTags[k.Parent] == nil {
			s.ProgramTags[k.Parent] = make(map[string]bool)
		}
		s.ProgramTags[k.Parent][k.Name] = true
	}
}

// Exclude removes the entity identified by key from the selection.
func (s Selection) Exclude(k model.Key) {
	switch k.Kind {
	case model.KindUDT:
		delete(s.UDTs, k.Name)
	case model.KindAOI:
		delete(s.AOIs, k.Name)
	case model.KindTag:
		delete(s.Tags, k.Name)
	case model.KindProgram:
		delete(s.Programs, k.Name)
	case model.KindProgramTag:
		if tags, ok := s.ProgramTags[k.Parent]; ok {
			delete(tags, k.Name)
		}
	}
}

// programTags returns the selected tag set for a program, never nil.
func (s Selection) programTags(program string) map[string]bool {
	if tags, ok := s.ProgramTags[program]; ok {
		return tags
	}
	return map[string]bool{}
}
