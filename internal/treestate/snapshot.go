package treestate

import "github.com/l5ktune/l5ktune/internal/model"

// SnapshotEntry is the persisted form of one tracked entity's state.
type SnapshotEntry struct {
	Kind        model.Kind `json:"kind"`
	Name        string     `json:"name"`
	Parent      string     `json:"parent,omitempty"`
	Included    bool       `json:"included"`
	Description string     `json:"description,omitempty"`
}

// Snapshot captures the full side table in model order.
func (s *State) Snapshot() []SnapshotEntry {
	out := make([]SnapshotEntry, 0, len(s.keys))
	for _, k := range s.keys {
		e := SnapshotEntry{
			Kind:     k.Kind,
			Name:     k.Name,
			Parent:   k.Parent,
			Included: s.included[k],
		}
		if d, ok := s.descriptions[k]; ok {
			e.Description = d
		}
		out = append(out, e)
	}
	return out
}

// Restore reattaches a snapshot onto the state by key lookup. Entries whose
// key is no longer tracked are skipped; tracked keys missing from the
// snapshot keep their defaults.
func (s *State) Restore(entries []SnapshotEntry) {
	for _, e := range entries {
		k := model.Key{Kind: e.Kind, Name: e.Name, Parent: e.Parent}
		if !s.known[k] {
			continue
		}
		s.included[k] = e.Included
		if e.Description != "" {
			s.descriptions[k] = e.Description
		}
	}
}
