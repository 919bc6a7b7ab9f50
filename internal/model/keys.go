package model

import (
	"fmt"
	"strings"
)

// Kind is an entity-kind namespace. Keys are unique within their kind.
// Members, parameters, and local tags are not independently tracked; their
// owning UDT or AOI is the unit of selection and diffing.
type Kind string

const (
	KindUDT        Kind = "UDT"
	KindAOI        Kind = "AOI"
	KindTag        Kind = "TAG"
	KindProgram    Kind = "PROGRAM"
	KindProgramTag Kind = "PROGRAM_TAG"
)

// Kinds lists all entity-kind namespaces in model order.
var Kinds = []Kind{KindUDT, KindAOI, KindTag, KindProgram, KindProgramTag}

// Key is the stable identity of an entity across re-parses and merges.
// Program tags carry their owning program's name in Parent. Array members
// are keyed by base name without the bracketed dimension suffix.
type Key struct {
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

func (k Key) String() string {
	if k.Parent != "" {
		return fmt.Sprintf("%s/%s.%s", k.Kind, k.Parent, k.Name)
	}
	return fmt.Sprintf("%s/%s", k.Kind, k.Name)
}

// Less orders keys by kind, parent, then name for stable output.
func (k Key) Less(other Key) bool {
	if k.Kind != other.Kind {
		return k.Kind < other.Kind
	}
	if k.Parent != other.Parent {
		return k.Parent < other.Parent
	}
	return k.Name < other.Name
}

// Keys returns every filterable entity key in the project, owners before
// children, in file order. Entities with an empty name cannot be keyed and
// are skipped.
func Keys(p *Project) []Key {
	var out []Key
	add := func(k Key) {
		if strings.TrimSpace(k.Name) == "" {
			return
		}
		out = append(out, k)
	}
	for _, udt := range p.UDTs.Values() {
		add(Key{Kind: KindUDT, Name: udt.Name})
	}
	for _, aoi := range p.AOIs.Values() {
		add(Key{Kind: KindAOI, Name: aoi.Name})
	}
	for _, tag := range p.Tags.Values() {
		add(Key{Kind: KindTag, Name: tag.Name})
	}
	for _, prog := range p.Programs.Values() {
		add(Key{Kind: KindProgram, Name: prog.Name})
		for _, tag := range prog.Tags.Values() {
			add(Key{Kind: KindProgramTag, Name: tag.Name, Parent: prog.Name})
		}
	}
	return out
}

// KeySet returns the project's keys as a set.
func KeySet(p *Project) map[Key]bool {
	set := make(map[Key]bool)
	for _, k := range Keys(p) {
		set[k] = true
	}
	return set
}
