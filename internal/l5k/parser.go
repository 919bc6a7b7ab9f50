// Package l5k parses Rockwell L5K controller exports into the entity model
// and provides the scanning, type-resolution, and string helpers the rest of
// the tool builds on. Parsing is a single pass over an immutable input; each
// call produces a fresh model, so concurrent parses of different inputs never
// share state.
package l5k

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/l5ktune/l5ktune/internal/model"
)

// hiddenWordPrefix marks SINT members that exist only to carry BIT aliases.
const hiddenWordPrefix = "ZZZZZZZZZZ"

// parseState enumerates the block parser's states. Transitions fire on the
// block keywords; everything else is handled inside the current state.
type parseState int

const (
	stateSeeking parseState = iota
	stateController
	stateControllerTags
	stateUDT
	stateAOI
	stateAOIParams
	stateAOILocals
	stateProgram
	stateProgramTags
)

// Options tunes a parse.
type Options struct {
	// ExtraBaseTypes lists additional type names accepted as primitives
	// during normalization (vendor structures not defined in the file).
	ExtraBaseTypes []string
}

// Report collects the non-fatal findings of a parse: cross-reference
// corrections, skipped-line warnings, and per-entity normalization errors.
type Report struct {
	Corrections []string
	Warnings    []string
	Errors      []error
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) correctf(format string, args ...any) {
	r.Corrections = append(r.Corrections, fmt.Sprintf(format, args...))
}

// Parser walks L5K text line by line, delimiter-depth aware, and assembles
// the project model bottom-up: header, then UDTs, AOIs, controller tags, and
// programs in file order.
type Parser struct {
	lines   []string
	project *model.Project
	report  *Report
	opts    Options

	state      parseState
	bodyStart  int
	curUDT     *model.UDT
	curAOI     *model.AOI
	curProgram string

	tagBuf     StatementBuffer
	progTagBuf StatementBuffer
}

// Parse parses content with default options.
func Parse(content string) (*model.Project, *Report, error) {
	return ParseWithOptions(content, Options{})
}

// ParseWithOptions parses content into a fresh project model. Structural scan
// faults and key collisions are fatal; everything else degrades to warnings
// in the report.
func ParseWithOptions(content string, opts Options) (*model.Project, *Report, error) {
	p := &Parser{
		lines:   strings.Split(content, "\n"),
		project: model.NewProject(),
		report:  &Report{},
		opts:    opts,
		state:   stateSeeking,
	}
	p.parseHeader()
	if err := p.checkBody(); err != nil {
		return nil, nil, err
	}
	if err := p.parseStructures(); err != nil {
		return nil, nil, err
	}
	p.resolveCrossReferences()
	resolver := NewResolver(p.project.UDTs, opts.ExtraBaseTypes)
	p.report.Errors = append(p.report.Errors, resolver.NormalizeProject(p.project)...)
	return p.project, p.report, nil
}

// parseHeader extracts the banner block: from the first (*****-style line
// through the first *****)-style line plus the next two lines.
func (p *Parser) parseHeader() {
	start := -1
	for i, ln := range p.lines {
		if reHeaderOpen.MatchString(strings.TrimSpace(strings.TrimPrefix(ln, "\uFEFF"))) {
			start = i
			break
		}
	}
	if start == -1 {
		return
	}
	end := start
	for j := start; j < len(p.lines); j++ {
		if reHeaderClose.MatchString(strings.TrimSpace(p.lines[j])) {
			end = j
			break
		}
	}
	endInclusive := min(end+2, len(p.lines)-1)
	var hdr []string
	for _, ln := range p.lines[start : endInclusive+1] {
		hdr = append(hdr, strings.TrimRight(ln, "\r"))
	}
	p.project.Header = &model.Header{Content: strings.Join(hdr, "\n")}
	p.bodyStart = endInclusive + 1
}

// checkBody runs the balance pre-pass over the lines after the banner block.
// The banner is free-form prose; quotes and parens inside it are not
// structural, so it is excluded from the check.
func (p *Parser) checkBody() error {
	offset := 0
	for _, ln := range p.lines[:p.bodyStart] {
		offset += len(ln) + 1
	}
	err := CheckBalanced(strings.Join(p.lines[p.bodyStart:], "\n"))
	var se *ScanError
	if errors.As(err, &se) {
		se.Line += p.bodyStart
		se.Offset += offset
	}
	return err
}

// parseStructures runs the block state machine over the lines after the
// banner block.
func (p *Parser) parseStructures() error {
	n := len(p.lines)
	i := p.bodyStart
	for i < n {
		raw := strings.TrimRight(p.lines[i], "\r")
		stripped := strings.TrimSpace(raw)
		if stripped == "" {
			i++
			continue
		}

		var err error
		switch p.state {
		case stateSeeking:
			i = p.onSeeking(stripped, i)
		case stateController:
			i, err = p.onController(stripped, i)
		case stateControllerTags:
			i, err = p.onControllerTags(stripped, i)
		case stateUDT:
			i, err = p.onUDT(stripped, i)
		case stateAOI:
			i = p.onAOI(stripped, i)
		case stateAOIParams:
			i = p.onAOIParams(stripped, i)
		case stateAOILocals:
			i = p.onAOILocals(stripped, i)
		case stateProgram:
			i = p.onProgram(stripped, i)
		case stateProgramTags:
			i, err = p.onProgramTags(stripped, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) onSeeking(stripped string, i int) int {
	if strings.HasPrefix(stripped, "CONTROLLER") {
		hdr, j, name := p.captureControllerHeader(i)
		if len(p.project.ControllerHeader) == 0 {
			p.project.ControllerHeader = hdr
			p.project.ControllerName = name
		}
		p.state = stateController
		return j
	}
	return i + 1
}

func (p *Parser) onController(stripped string, i int) (int, error) {
	switch {
	case strings.HasPrefix(stripped, "END_CONTROLLER"):
		p.state = stateSeeking
		return i + 1, nil

	case stripped == "TAG":
		p.tagBuf.Reset()
		p.state = stateControllerTags
		return i + 1, nil

	case strings.HasPrefix(stripped, "END_DATATYPE"),
		strings.HasPrefix(stripped, "END_ADD_ON_INSTRUCTION_DEFINITION"),
		strings.HasPrefix(stripped, "END_ENCODED_DATA"):
		// Stray block terminators at controller level are harmless.
		return i + 1, nil

	case strings.HasPrefix(stripped, "DATATYPE"):
		return p.beginUDT(i)

	case strings.HasPrefix(stripped, "ADD_ON_INSTRUCTION_DEFINITION"):
		return p.beginAOI(stripped, i)

	case strings.HasPrefix(stripped, "ENCODED_DATA"):
		return p.beginEncodedAOI(i)

	case strings.HasPrefix(stripped, "PROGRAM"):
		return p.beginProgram(stripped, i)
	}
	return i + 1, nil
}

func (p *Parser) onControllerTags(stripped string, i int) (int, error) {
	if stripped == "END_TAG" {
		var err error
		if p.tagBuf.Pending() {
			err = p.emitControllerTag(p.tagBuf.Flush())
		} else {
			p.tagBuf.Reset()
		}
		p.state = stateController
		return i + 1, err
	}
	if p.tagBuf.Feed(stripped) {
		if err := p.emitControllerTag(p.tagBuf.Flush()); err != nil {
			return 0, err
		}
	}
	return i + 1, nil
}

func (p *Parser) onUDT(stripped string, i int) (int, error) {
	if strings.HasPrefix(stripped, "END_DATATYPE") {
		p.curUDT = nil
		p.state = stateController
		return i + 1, nil
	}

	// Hidden SINT word: ten-Z prefix, acts as parent for following BIT aliases.
	if m := reUDTTypeFirst.FindStringSubmatch(stripped); m != nil &&
		m[1] == "SINT" && strings.HasPrefix(m[2], hiddenWordPrefix) {
		name := m[2]
		definition, next := captureBlock(p.lines, i)
		if existing, ok := p.curUDT.Members.Get(name); ok {
			existing.DataType = "SINT"
			existing.Definition = definition
			existing.HiddenParent = true
		} else {
			p.curUDT.Members.Put(name, &model.Member{
				Name:         name,
				DataType:     "SINT",
				Description:  descOf(definition),
				Definition:   definition,
				HiddenParent: true,
			})
		}
		return next, nil
	}

	// BIT alias: BIT <alias> <word> : <bit>;
	if m := reUDTBitAlias.FindStringSubmatch(stripped); m != nil {
		alias, word := m[1], m[2]
		bit, _ := strconv.Atoi(m[3])
		definition, next := captureBlock(p.lines, i)
		child := &model.Member{
			Name:        alias,
			DataType:    "BOOL",
			Description: descOf(definition),
			Definition:  definition,
			Bit:         true,
			ParentWord:  word,
			BitIndex:    bit,
		}
		p.curUDT.Members.Put(alias, child)
		parent, ok := p.curUDT.Members.Get(word)
		if !ok {
			parent = &model.Member{
				Name:         word,
				DataType:     "SINT",
				Description:  descOf(definition),
				HiddenParent: true,
			}
			p.curUDT.Members.Put(word, parent)
		}
		parent.AddChild(child)
		return next, nil
	}

	// Plain type-first member.
	if m := reUDTTypeFirst.FindStringSubmatch(stripped); m != nil {
		dtype, name, dims := m[1], m[2], m[3]
		definition, next := captureBlock(p.lines, i)
		p.curUDT.Members.Put(name, &model.Member{
			Name:        name,
			DataType:    dtype,
			Description: descOf(definition),
			Definition:  definition,
			Dims:        dims,
		})
		return next, nil
	}

	p.report.warnf("line %d: unclassified line in DATATYPE %s skipped: %s", i+1, p.curUDT.Name, stripped)
	return i + 1, nil
}

func (p *Parser) onAOI(stripped string, i int) int {
	switch {
	case stripped == "PARAMETERS":
		p.state = stateAOIParams
	case stripped == "LOCAL_TAGS":
		p.state = stateAOILocals
	case strings.HasPrefix(stripped, "END_ADD_ON_INSTRUCTION_DEFINITION"),
		strings.HasPrefix(stripped, "END_ENCODED_DATA"):
		p.curAOI = nil
		p.state = stateController
	}
	return i + 1
}

func (p *Parser) onAOIParams(stripped string, i int) int {
	if stripped == "END_PARAMETERS" {
		p.state = stateAOI
		return i + 1
	}
	if m := reAOIParam.FindStringSubmatch(stripped); m != nil {
		definition, next := captureBlock(p.lines, i)
		definition = stripDefaultData(definition)
		p.curAOI.Parameters.Put(m[1], &model.Parameter{
			Name:        m[1],
			DataType:    m[2],
			Description: descOf(definition),
			Definition:  definition,
		})
		return next
	}
	p.report.warnf("line %d: unclassified parameter line in AOI %s skipped: %s", i+1, p.curAOI.Name, stripped)
	return i + 1
}

func (p *Parser) onAOILocals(stripped string, i int) int {
	if stripped == "END_LOCAL_TAGS" {
		p.state = stateAOI
		return i + 1
	}
	if m := reAOILocalTag.FindStringSubmatch(stripped); m != nil {
		definition, next := captureBlock(p.lines, i)
		definition = stripDefaultData(definition)
		p.curAOI.LocalTags.Put(m[1], &model.LocalTag{
			Name:        m[1],
			DataType:    m[2],
			Description: descOf(definition),
			Definition:  definition,
		})
		return next
	}
	p.report.warnf("line %d: unclassified local tag line in AOI %s skipped: %s", i+1, p.curAOI.Name, stripped)
	return i + 1
}

func (p *Parser) onProgram(stripped string, i int) int {
	switch {
	case stripped == "TAG":
		p.progTagBuf.Reset()
		p.state = stateProgramTags
	case strings.HasPrefix(stripped, "END_PROGRAM"):
		p.curProgram = ""
		p.state = stateController
	}
	return i + 1
}

func (p *Parser) onProgramTags(stripped string, i int) (int, error) {
	if stripped == "END_TAG" || strings.HasPrefix(stripped, "END_PROGRAM") {
		var err error
		if p.progTagBuf.Pending() && p.curProgram != "" {
			err = p.emitProgramTag(p.curProgram, p.progTagBuf.Flush())
		} else {
			p.progTagBuf.Reset()
		}
		if stripped == "END_TAG" {
			p.state = stateProgram
		} else {
			p.curProgram = ""
			p.state = stateController
		}
		return i + 1, err
	}
	if p.progTagBuf.Feed(stripped) {
		if err := p.emitProgramTag(p.curProgram, p.progTagBuf.Flush()); err != nil {
			return 0, err
		}
	}
	return i + 1, nil
}

// --- block entry handlers ---

func (p *Parser) beginUDT(i int) (int, error) {
	hdrLines, j := captureHeader(p.lines, i)
	blob := joinStripped(hdrLines)
	if parenDelta(blob) != 0 {
		p.report.warnf("unbalanced parens in DATATYPE header starting at line %d", i+1)
	}
	name := extractBlockName(strings.TrimSpace(hdrLines[0]), "DATATYPE")
	if name == "" {
		return j, nil
	}
	udt := model.NewUDT(name)
	udt.Description = descOf(blob)
	if m := reFamilyType.FindStringSubmatch(blob); m != nil {
		udt.FamilyType = m[1]
	}
	if !p.project.UDTs.Add(name, udt) {
		return 0, &KeyCollisionError{Key: model.Key{Kind: model.KindUDT, Name: name}}
	}
	p.curUDT = udt
	p.state = stateUDT
	return j, nil
}

func (p *Parser) beginAOI(stripped string, i int) (int, error) {
	name := extractBlockName(stripped, "ADD_ON_INSTRUCTION_DEFINITION")
	if name == "" {
		return i + 1, nil
	}
	aoi := model.NewAOI(name)
	aoi.Description = descOf(stripped)
	if !p.project.AOIs.Add(name, aoi) {
		return 0, &KeyCollisionError{Key: model.Key{Kind: model.KindAOI, Name: name}}
	}
	p.curAOI = aoi
	p.state = stateAOI
	return i + 1, nil
}

// beginEncodedAOI handles ENCODED_DATA blocks. Only blocks whose metadata
// declares an encoded AOI contribute an entity; anything else is skipped with
// a notice.
func (p *Parser) beginEncodedAOI(i int) (int, error) {
	meta := []string{strings.TrimRight(p.lines[i], "\r")}
	j := i + 1
	for j < len(p.lines) {
		meta = append(meta, strings.TrimRight(p.lines[j], "\r"))
		if strings.Contains(p.lines[j], ")") {
			j++
			break
		}
		j++
	}
	blob := joinStripped(meta)
	if !strings.Contains(blob, "EncodedType := ADD_ON_INSTRUCTION_DEFINITION") {
		p.report.warnf("line %d: unrecognized ENCODED_DATA block skipped", i+1)
		return j, nil
	}
	m := reEncodedName.FindStringSubmatch(blob)
	if m == nil {
		p.report.warnf("line %d: encoded AOI without a Name attribute skipped", i+1)
		return j, nil
	}
	aoi := model.NewAOI(m[1])
	aoi.Description = descOf(blob)
	if !p.project.AOIs.Add(m[1], aoi) {
		return 0, &KeyCollisionError{Key: model.Key{Kind: model.KindAOI, Name: m[1]}}
	}
	p.curAOI = aoi
	p.state = stateAOI
	return j, nil
}

func (p *Parser) beginProgram(stripped string, i int) (int, error) {
	after := strings.TrimSpace(strings.SplitN(stripped, "PROGRAM", 2)[1])
	name := after
	if idx := strings.IndexAny(name, " \t"); idx != -1 {
		name = name[:idx]
	}
	if idx := strings.IndexByte(name, '('); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return i + 1, nil
	}
	desc := descOf(stripped)
	if existing, ok := p.project.Programs.Get(name); ok {
		if existing.Description == "" && desc != "" {
			existing.Description = desc
		}
	} else {
		p.project.Programs.Put(name, model.NewProgram(name, desc))
	}
	p.curProgram = name
	p.progTagBuf.Reset()
	p.state = stateProgram
	return i + 1, nil
}

// captureControllerHeader captures the CONTROLLER line plus its attribute
// list, which may span lines or start with '(' on the following line.
func (p *Parser) captureControllerHeader(i int) ([]string, int, string) {
	n := len(p.lines)
	first := strings.TrimRight(p.lines[i], "\r")
	header := []string{first}

	var name string
	if m := reControllerHdr.FindStringSubmatch(strings.TrimSpace(first)); m != nil {
		name = m[1]
	}

	depth := parenDelta(first)
	j := i + 1
	if depth == 0 && j < n && strings.HasPrefix(strings.TrimLeft(p.lines[j], " \t"), "(") {
		header = append(header, strings.TrimRight(p.lines[j], "\r"))
		depth += parenDelta(p.lines[j])
		j++
	}
	for j < n && depth > 0 {
		header = append(header, strings.TrimRight(p.lines[j], "\r"))
		depth += parenDelta(p.lines[j])
		j++
	}
	return header, j, name
}

// --- tag statement emission ---

// parseTagFields splits a complete TAG statement into (name, type, desc,
// cleaned definition). Assignment values and force data after a top-level
// ':=' or ',' are dropped; the attribute list is preserved.
func parseTagFields(stmt string, stripParenFromType bool) (name, dtype, desc, definition string, ok bool) {
	stmt = strings.TrimSpace(stmt)

	left := stmt
	if idx := firstOutsideParens(stmt, ":="); idx != -1 {
		left = strings.TrimRight(stmt[:idx], " \t")
	}
	if idx := firstOutsideParens(left, ","); idx != -1 {
		left = strings.TrimRight(left[:idx], " \t")
	}

	prefix, attrs := splitOuterAttrs(left)
	m := reTagPrefix.FindStringSubmatch(prefix)
	if m == nil {
		return "", "", "", "", false
	}
	name = m[1]
	dtype = strings.TrimSpace(m[3])
	if stripParenFromType {
		if idx := strings.IndexByte(dtype, '('); idx != -1 {
			dtype = strings.TrimSpace(dtype[:idx])
		}
	}
	if attrs != "" {
		desc = descOf(attrs)
		definition = fmt.Sprintf("%s (%s)", prefix, attrs)
	} else {
		definition = prefix
	}
	if !strings.HasSuffix(definition, ";") {
		definition = strings.TrimRight(definition, " \t") + ";"
	}
	return name, dtype, desc, definition, true
}

func (p *Parser) emitControllerTag(stmt string) error {
	name, dtype, desc, definition, ok := parseTagFields(stmt, false)
	if !ok {
		p.report.warnf("unrecognized controller tag statement skipped: %s", truncate(stmt, 60))
		return nil
	}
	tag := &model.Tag{Name: name, DataType: dtype, Description: desc, Definition: definition}
	if !p.project.Tags.Add(name, tag) {
		return &KeyCollisionError{Key: model.Key{Kind: model.KindTag, Name: name}}
	}
	return nil
}

func (p *Parser) emitProgramTag(program, stmt string) error {
	prog, ok := p.project.Programs.Get(program)
	if !ok {
		return nil
	}
	name, dtype, desc, definition, fieldsOK := parseTagFields(stmt, true)
	if !fieldsOK {
		p.report.warnf("unrecognized tag statement in program %s skipped: %s", program, truncate(stmt, 60))
		return nil
	}
	tag := &model.Tag{Name: name, DataType: dtype, Description: desc, Definition: definition}
	if !prog.Tags.Add(name, tag) {
		return &KeyCollisionError{Key: model.Key{Kind: model.KindProgramTag, Name: name, Parent: program}}
	}
	return nil
}

// --- cross-reference resolution ---

// resolveCrossReferences rewrites AOI parameters declared as OF paths
// (<tag>.<member> or <tag>.<bit>) to their base types. Only the first line of
// the stored definition is rewritten; the bit index is not kept.
func (p *Parser) resolveCrossReferences() {
	for _, aoi := range p.project.AOIs.Values() {
		for _, param := range aoi.Parameters.Values() {
			if !strings.Contains(param.DataType, ".") {
				continue
			}
			original := param.DataType
			base, bitAlias := p.findBaseType(original, aoi, 0)
			if base == "" || base == original {
				continue
			}
			param.DataType = base
			param.Corrected = true
			param.BitAlias = bitAlias
			if param.Definition != "" {
				param.Definition = rewriteParamType(param.Definition, param.Name, base)
			}
			p.report.correctf("Corrected %s.%s: from %q to %q", aoi.Name, param.Name, original, base)
		}
	}
}

// findBaseType resolves an OF path against an AOI's local tags. A numeric
// member of an integer-typed word is a bit alias (BOOL); a member of a local
// tag typed as another AOI resolves through that AOI's parameters.
func (p *Parser) findBaseType(path string, ctx *model.AOI, depth int) (string, bool) {
	if depth > p.project.AOIs.Len()+1 {
		return path, false
	}
	if model.BaseTypes[strings.ToUpper(path)] {
		return strings.ToUpper(path), false
	}
	root, member, found := strings.Cut(path, ".")
	if !found {
		return path, false
	}
	local, ok := ctx.LocalTags.Get(root)
	if !ok {
		return path, false
	}
	if _, err := strconv.Atoi(member); err == nil {
		switch strings.ToUpper(local.DataType) {
		case "SINT", "INT", "DINT", "LINT":
			return "BOOL", true
		}
	}
	if parent, ok := p.project.AOIs.Get(local.DataType); ok {
		if param, ok := parent.Parameters.Get(member); ok {
			base, _ := p.findBaseType(param.DataType, parent, depth+1)
			return base, false
		}
	}
	return path, false
}

// rewriteParamType replaces "Name OF X.Y" or "Name : T" on the first
// definition line with "Name : base".
func rewriteParamType(definition, name, base string) string {
	lines := strings.Split(definition, "\n")
	re := regexp.MustCompile(`^(\s*` + regexp.QuoteMeta(name) + `)\s+(?:OF\s+[\w.]+|:\s*[\w.]+)`)
	lines[0] = re.ReplaceAllString(lines[0], "${1} : "+base)
	return strings.Join(lines, "\n")
}

func joinStripped(lines []string) string {
	parts := make([]string, len(lines))
	for i, ln := range lines {
		parts[i] = strings.TrimSpace(ln)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
