// Package merge computes and applies entity-level differences between two
// parsed controller models. Differences are set differences of entity keys
// per namespace; entities that exist in both models are never touched, even
// when their bodies differ.
package merge

import (
	"fmt"
	"sort"

	"github.com/l5ktune/l5ktune/internal/model"
)

// ChangeSet lists the keys present only in the updated model (Added) and
// only in the current model (Removed), sorted by kind then parent then name.
type ChangeSet struct {
	Added   []model.Key
	Removed []model.Key
}

// Empty reports whether the change set has no entries.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Added) == 0 && len(cs.Removed) == 0
}

// Diff compares two models by entity key. Diffing a model against itself
// yields an empty change set.
func Diff(current, updated *model.Project) *ChangeSet {
	cur := model.KeySet(current)
	upd := model.KeySet(updated)

	cs := &ChangeSet{}
	for k := range upd {
		if !cur[k] {
			cs.Added = append(cs.Added, k)
		}
	}
	for k := range cur {
		if !upd[k] {
			cs.Removed = append(cs.Removed, k)
		}
	}
	sortKeys(cs.Added)
	sortKeys(cs.Removed)
	return cs
}

func sortKeys(keys []model.Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// Report collects non-fatal observations made while applying a change set.
type Report struct {
	Applied  []model.Key
	Warnings []string
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Apply copies the accepted added entities from updated into current and
// deletes the accepted removed entities from current. Added entities append
// at the end of their namespace; existing entity order is preserved. A
// program tag added under a program current does not have is carried in a
// new program shell with that tag as its only member.
func Apply(current, updated *model.Project, add, remove []model.Key) *Report {
	rep := &Report{}
	for _, k := range add {
		if applyAdd(current, updated, k, rep) {
			rep.Applied = append(rep.Applied, k)
		}
	}
	for _, k := range remove {
		if applyRemove(current, k, rep) {
			rep.Applied = append(rep.Applied, k)
		}
	}
	return rep
}

func applyAdd(current, updated *model.Project, k model.Key, rep *Report) bool {
	switch k.Kind {
	case model.KindUDT:
		udt, ok := updated.UDTs.Get(k.Name)
		if !ok {
			rep.warnf("add %s: not present in updated model", k)
			return false
		}
		if !current.UDTs.Add(k.Name, udt) {
			rep.warnf("add %s: already present", k)
			return false
		}
	case model.KindAOI:
		aoi, ok := updated.AOIs.Get(k.Name)
		if !ok {
			rep.warnf("add %s: not present in updated model", k)
			return false
		}
		if !current.AOIs.Add(k.Name, aoi) {
			rep.warnf("add %s: already present", k)
			return false
		}
	case model.KindTag:
		tag, ok := updated.Tags.Get(k.Name)
		if !ok {
			rep.warnf("add %s: not present in updated model", k)
			return false
		}
		if !current.Tags.Add(k.Name, tag) {
			rep.warnf("add %s: already present", k)
			return false
		}
	case model.KindProgram:
		prog, ok := updated.Programs.Get(k.Name)
		if !ok {
			rep.warnf("add %s: not present in updated model", k)
			return false
		}
		if !current.Programs.Add(k.Name, prog) {
			rep.warnf("add %s: already present", k)
			return false
		}
	case model.KindProgramTag:
		src, ok := updated.Programs.Get(k.Parent)
		if !ok {
			rep.warnf("add %s: program %q not in updated model", k, k.Parent)
			return false
		}
		tag, ok := src.Tags.Get(k.Name)
		if !ok {
			rep.warnf("add %s: not present in updated model", k)
			return false
		}
		dst, ok := current.Programs.Get(k.Parent)
		if !ok {
			dst = model.NewProgram(src.Name, src.Description)
			current.Programs.Add(k.Parent, dst)
		}
		if !dst.Tags.Add(k.Name, tag) {
			rep.warnf("add %s: already present", k)
			return false
		}
	default:
		rep.warnf("add %s: unknown kind", k)
		return false
	}
	return true
}

func applyRemove(current *model.Project, k model.Key, rep *Report) bool {
	switch k.Kind {
	case model.KindUDT:
		if !current.UDTs.Delete(k.Name) {
			rep.warnf("remove %s: not present", k)
			return false
		}
	case model.KindAOI:
		if !current.AOIs.Delete(k.Name) {
			rep.warnf("remove %s: not present", k)
			return false
		}
	case model.KindTag:
		if !current.Tags.Delete(k.Name) {
			rep.warnf("remove %s: not present", k)
			return false
		}
	case model.KindProgram:
		if !current.Programs.Delete(k.Name) {
			rep.warnf("remove %s: not present", k)
			return false
		}
	case model.KindProgramTag:
		prog, ok := current.Programs.Get(k.Parent)
		if !ok {
			rep.warnf("remove %s: program %q not present", k, k.Parent)
			return false
		}
		if !prog.Tags.Delete(k.Name) {
			rep.warnf("remove %s: not present", k)
			return false
		}
	default:
		rep.warnf("remove %s: unknown kind", k)
		return false
	}
	return true
}
