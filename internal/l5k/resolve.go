package l5k

import (
	"strings"

	"github.com/l5ktune/l5ktune/internal/model"
)

// Resolver normalizes declared types down to primitive base types by walking
// locally defined UDTs. Cycles between UDT definitions are detected by
// tracking the in-progress resolution path and reported as errors instead of
// recursing unboundedly.
type Resolver struct {
	udts  *model.OrderedMap[*model.UDT]
	extra map[string]bool
}

// NewResolver creates a resolver over the project's UDT definitions. extra
// lists additional type names to accept as primitives (vendor structures the
// file references but does not define).
func NewResolver(udts *model.OrderedMap[*model.UDT], extra []string) *Resolver {
	extraSet := make(map[string]bool, len(extra))
	for _, t := range extra {
		extraSet[strings.ToUpper(t)] = true
	}
	return &Resolver{udts: udts, extra: extraSet}
}

// isBase reports whether name needs no further resolution.
func (r *Resolver) isBase(name string) bool {
	upper := strings.ToUpper(name)
	return model.BaseTypes[upper] || r.extra[upper]
}

// BaseType resolves a declared type to its ultimate primitive. A type naming
// a known UDT is substituted by that UDT's first member's resolved base type
// chain. Resolving an already-base type returns it unchanged (idempotent).
// Types that are neither primitive nor locally defined resolve to themselves.
func (r *Resolver) BaseType(declared string) (string, error) {
	return r.resolve(declared, nil)
}

func (r *Resolver) resolve(declared string, path []string) (string, error) {
	name := stripDims(declared)
	if r.isBase(name) {
		return strings.ToUpper(name), nil
	}
	udt, ok := r.udts.Get(name)
	if !ok {
		return name, nil
	}
	for _, seen := range path {
		if seen == name {
			return "", &CycleError{Path: append(append([]string{}, path...), name)}
		}
	}
	members := udt.Members.Values()
	if len(members) == 0 {
		return name, nil
	}
	return r.resolve(members[0].DataType, append(path, name))
}

// NormalizeProject fills in the resolved base type of every UDT member and
// every controller/program tag. Cyclic UDTs fail individually; the returned
// errors do not stop resolution of the remaining entities.
func (r *Resolver) NormalizeProject(p *model.Project) []error {
	var errs []error
	for _, udt := range p.UDTs.Values() {
		for _, m := range udt.Members.Values() {
			base, err := r.resolve(m.DataType, nil)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			m.BaseType = base
			if m.Children != nil {
				for _, c := range m.Children.Values() {
					c.BaseType = "BOOL"
				}
			}
		}
	}
	for _, tag := range p.Tags.Values() {
		if base, err := r.resolve(stripCall(tag.DataType), nil); err == nil {
			tag.BaseType = base
		} else {
			errs = append(errs, err)
		}
	}
	for _, prog := range p.Programs.Values() {
		for _, tag := range prog.Tags.Values() {
			if base, err := r.resolve(stripCall(tag.DataType), nil); err == nil {
				tag.BaseType = base
			} else {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// stripDims removes a trailing array declarator: "MOTOR_DATA[4]" -> "MOTOR_DATA".
func stripDims(dtype string) string {
	if idx := strings.IndexByte(dtype, '['); idx != -1 {
		return strings.TrimSpace(dtype[:idx])
	}
	return strings.TrimSpace(dtype)
}

// stripCall removes a trailing parenthesized remainder from a declared type.
func stripCall(dtype string) string {
	if idx := strings.IndexByte(dtype, '('); idx != -1 {
		return strings.TrimSpace(dtype[:idx])
	}
	return strings.TrimSpace(dtype)
}
