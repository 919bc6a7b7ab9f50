// Package export regenerates L5K dialect text from a filtered entity model.
// Emission order is fixed: header, UDTs, AOIs, controller tags, programs.
// Two lossy transforms are applied deterministically: bit cross-reference
// parameters emit as plain BOOL, and tag values are never emitted (the model
// never stored them).
package export

import (
	"fmt"
	"strings"

	"github.com/l5ktune/l5ktune/internal/l5k"
	"github.com/l5ktune/l5ktune/internal/model"
)

// stage enumerates the export state machine's emission phases.
type stage int

const (
	stageHeader stage = iota
	stageUDTs
	stageAOIs
	stageTags
	stagePrograms
	stageDone
)

func (s stage) next() stage {
	return s + 1
}

// Options tunes the emitted text.
type Options struct {
	// Indent is the per-level indent string. Defaults to a tab.
	Indent string

	// LocalTagPlaceholder, when non-empty, is emitted as the sole local tag
	// of an included AOI that has none (some downstream tools reject an
	// empty list). The LOCAL_TAGS block itself is always emitted.
	LocalTagPlaceholder string
}

// Report collects per-entity export failures. Entities that cannot be
// emitted are skipped; the rest of the filtered set still exports.
type Report struct {
	Errors []error
}

// Export serializes the selected subset of the project. The project is not
// mutated.
func Export(p *model.Project, sel Selection, opts Options) (string, *Report) {
	if opts.Indent == "" {
		opts.Indent = "\t"
	}
	e := &exporter{project: p, sel: sel, opts: opts, report: &Report{}}
	for st := stageHeader; st != stageDone; st = st.next() {
		switch st {
		case stageHeader:
			e.writeHeader()
		case stageUDTs:
			e.writeUDTs()
		case stageAOIs:
			e.writeAOIs()
		case stageTags:
			e.writeTags()
		case stagePrograms:
			e.writePrograms()
		}
	}
	e.emit("END_CONTROLLER")
	e.emit("")
	return strings.Join(e.out, "\n"), e.report
}

type exporter struct {
	project *model.Project
	sel     Selection
	opts    Options
	out     []string
	report  *Report
}

func (e *exporter) emit(lines ...string) {
	e.out = append(e.out, lines...)
}

func (e *exporter) fail(err error) {
	e.report.Errors = append(e.report.Errors, err)
}

func (e *exporter) writeHeader() {
	if e.project.Header != nil && e.project.Header.Content != "" {
		e.emit(strings.TrimRight(e.project.Header.Content, "\n"))
		e.emit("")
	}
	if len(e.project.ControllerHeader) > 0 {
		e.emit(e.project.ControllerHeader...)
		return
	}
	name := e.project.ControllerName
	if name == "" {
		name = "Controller"
	}
	e.emit("CONTROLLER " + name)
}

func (e *exporter) writeUDTs() {
	indent := e.opts.Indent
	for _, udt := range e.project.UDTs.Values() {
		if !e.sel.UDTs[udt.Name] {
			continue
		}
		var attrs []string
		if udt.Description != "" {
			attrs = append(attrs, fmt.Sprintf("Description := \"%s\"", l5k.EncodeString(udt.Description)))
		}
		ft := udt.FamilyType
		if ft == "" {
			ft = "NoFamily"
		}
		attrs = append(attrs, "FamilyType := "+ft)
		e.emit(fmt.Sprintf("%sDATATYPE %s (%s)", indent, udt.Name, strings.Join(attrs, ", ")))

		for _, m := range udt.Members.Values() {
			switch {
			case m.Definition != "":
				e.emit(l5k.IndentLines(l5k.DedentLines(m.Definition), 2, indent)...)
			case m.DataType != "":
				e.emit(l5k.IndentLines([]string{fmt.Sprintf("%s %s;", m.DataType, m.DisplayName())}, 2, indent)...)
			default:
				e.fail(&MissingFieldError{
					Key:   model.Key{Kind: model.KindUDT, Name: udt.Name},
					Field: "member " + m.Name + " data type",
				})
			}
		}
		e.emit(indent+"END_DATATYPE", "")
	}
}

func (e *exporter) writeAOIs() {
	indent := e.opts.Indent
	for _, aoi := range e.project.AOIs.Values() {
		if !e.sel.AOIs[aoi.Name] {
			continue
		}
		if desc := strings.TrimSpace(aoi.Description); desc != "" {
			e.emit(fmt.Sprintf("%sADD_ON_INSTRUCTION_DEFINITION %s (Description := \"%s\")",
				indent, aoi.Name, l5k.EncodeString(desc)))
		} else {
			e.emit(fmt.Sprintf("%sADD_ON_INSTRUCTION_DEFINITION %s ()", indent, aoi.Name))
		}

		if aoi.Parameters.Len() > 0 {
			e.emit(strings.Repeat(indent, 2) + "PARAMETERS")
			for _, param := range aoi.Parameters.Values() {
				e.writeParameter(aoi, param)
			}
			e.emit(strings.Repeat(indent, 2)+"END_PARAMETERS", "")
		}

		// LOCAL_TAGS is emitted even when empty.
		e.emit(strings.Repeat(indent, 2) + "LOCAL_TAGS")
		emitted := 0
		for _, local := range aoi.LocalTags.Values() {
			if local.Definition != "" {
				e.emit(l5k.IndentLines(l5k.DedentLines(local.Definition), 3, indent)...)
			} else if local.DataType != "" {
				e.emit(fmt.Sprintf("%s%s : %s ();", strings.Repeat(indent, 3), local.Name, local.DataType))
			} else {
				e.fail(&MissingFieldError{
					Key:   model.Key{Kind: model.KindAOI, Name: aoi.Name},
					Field: "local tag " + local.Name + " data type",
				})
				continue
			}
			emitted++
		}
		if emitted == 0 && e.opts.LocalTagPlaceholder != "" {
			e.emit(strings.Repeat(indent, 3) + e.opts.LocalTagPlaceholder)
		}
		e.emit(strings.Repeat(indent, 2)+"END_LOCAL_TAGS", "")
		e.emit(indent+"END_ADD_ON_INSTRUCTION_DEFINITION", "")
	}
}

// writeParameter emits one AOI parameter. Bit cross-reference parameters are
// rewritten to plain BOOL with their attribute list preserved; the bit index
// does not survive.
func (e *exporter) writeParameter(aoi *model.AOI, param *model.Parameter) {
	indent := e.opts.Indent
	if param.BitAlias {
		e.emit(e.paramAsPlainBool(param, 3)...)
		return
	}
	switch {
	case param.Definition != "":
		e.emit(l5k.IndentLines(l5k.DedentLines(param.Definition), 3, indent)...)
	case param.DataType != "":
		e.emit(fmt.Sprintf("%s%s : %s ();", strings.Repeat(indent, 3), param.Name, param.DataType))
	default:
		e.fail(&MissingFieldError{
			Key:   model.Key{Kind: model.KindAOI, Name: aoi.Name},
			Field: "parameter " + param.Name + " data type",
		})
	}
}

// paramAsPlainBool renders a bit-alias parameter as "<name> : BOOL (attrs);",
// salvaging the attribute list from the captured definition when possible.
func (e *exporter) paramAsPlainBool(param *model.Parameter, level int) []string {
	indent := e.opts.Indent
	base := strings.Repeat(indent, level)
	if param.Definition == "" {
		if param.Description != "" {
			return []string{
				base + param.Name + " : BOOL (",
				base + indent + fmt.Sprintf("Description := \"%s\"", l5k.EncodeString(param.Description)),
				base + ");",
			}
		}
		return []string{base + param.Name + " : BOOL ();"}
	}
	attrs, ok := l5k.ParamAttrs(param.Definition)
	if !ok {
		if param.Description != "" {
			return []string{
				base + param.Name + " : BOOL (",
				base + indent + fmt.Sprintf("Description := \"%s\"", l5k.EncodeString(param.Description)),
				base + ");",
			}
		}
		return []string{base + param.Name + " : BOOL ();"}
	}
	out := []string{base + param.Name + " : BOOL ("}
	for _, a := range l5k.DedentLines(attrs) {
		out = append(out, base+indent+strings.TrimRight(a, " \t"))
	}
	out = append(out, base+");")
	return out
}

func (e *exporter) writeTags() {
	indent := e.opts.Indent
	any := false
	for _, tag := range e.project.Tags.Values() {
		if e.sel.Tags[tag.Name] {
			any = true
			break
		}
	}
	if !any {
		return
	}
	e.emit(indent + "TAG")
	for _, tag := range e.project.Tags.Values() {
		if !e.sel.Tags[tag.Name] {
			continue
		}
		e.writeTag(tag, 2, model.Key{Kind: model.KindTag, Name: tag.Name})
	}
	e.emit(indent+"END_TAG", "")
}

// writeTag emits one value-free tag line. The captured definition carries any
// extra attributes through verbatim, with the Description attribute rewritten
// when the tag's field diverges from it; otherwise the line is rebuilt from
// the tag's fields.
func (e *exporter) writeTag(tag *model.Tag, level int, key model.Key) {
	indent := e.opts.Indent
	base := strings.Repeat(indent, level)
	switch {
	case tag.Definition != "":
		def := tag.Definition
		if tag.Description != "" && tag.Description != l5k.Description(def) {
			def = l5k.SetDescription(def, tag.Description)
		}
		e.emit(l5k.IndentLines(l5k.DedentLines(def), level, indent)...)
	case tag.DataType != "":
		if tag.Description != "" {
			e.emit(fmt.Sprintf("%s%s : %s (Description := \"%s\");", base, tag.Name, tag.DataType, l5k.EncodeString(tag.Description)))
		} else {
			e.emit(fmt.Sprintf("%s%s : %s;", base, tag.Name, tag.DataType))
		}
	default:
		e.fail(&MissingFieldError{Key: key, Field: "data type"})
	}
}

func (e *exporter) writePrograms() {
	indent := e.opts.Indent
	for _, prog := range e.project.Programs.Values() {
		selTags := e.sel.programTags(prog.Name)
		if !e.sel.Programs[prog.Name] && len(selTags) == 0 {
			continue
		}
		if desc := strings.TrimSpace(prog.Description); desc != "" {
			e.emit(fmt.Sprintf("%sPROGRAM %s (Description := \"%s\")", indent, prog.Name, l5k.EncodeString(desc)))
		} else {
			e.emit(indent + "PROGRAM " + prog.Name)
		}
		e.emit(strings.Repeat(indent, 2) + "TAG")
		for _, tag := range prog.Tags.Values() {
			if !selTags[tag.Name] {
				continue
			}
			e.writeTag(tag, 3, model.Key{Kind: model.KindProgramTag, Name: tag.Name, Parent: prog.Name})
		}
		e.emit(strings.Repeat(indent, 2)+"END_TAG", indent+"END_PROGRAM", "")
	}
}
