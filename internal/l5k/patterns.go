package l5k

import "regexp"

// Compiled patterns for block headers and member lines. Checked in a fixed
// order by the parser so the specific forms (BIT alias, hidden word) are not
// shadowed by the general type-first match.
var (
	// (******** banner open / ********) banner close
	reHeaderOpen  = regexp.MustCompile(`^(?:\x{FEFF})?\(\*{5,}\s*$`)
	reHeaderClose = regexp.MustCompile(`^\*{5,}\)\s*$`)

	// CONTROLLER <name> [ ( ...attrs... ) ]
	reControllerHdr = regexp.MustCompile(`^CONTROLLER\s+([A-Za-z_]\w*)\s*(\(|$)`)

	// Type-first UDT member: <dtype> <name>[dims]
	reUDTTypeFirst = regexp.MustCompile(
		`^(?P<dtype>[A-Za-z_]\w*) (?P<name>[A-Za-z_]\w*)(?P<dims>\[\d+(?:,\d+)*\])?`)

	// BIT <alias> <word> : <bit>
	reUDTBitAlias = regexp.MustCompile(`^BIT\s+(\w+)\s+(\w+)\s*:\s*(\d+)\b`)

	reFamilyType = regexp.MustCompile(`(?i)\bFamilyType\s*:=\s*([A-Za-z_]\w*)`)

	// Full parameter/local tag definition: <name> OF|: <rhs> ( <attrs> );
	reAOIParamDef = regexp.MustCompile(`(?s)^\s*(?P<name>\w+)\s+(?P<cat>OF|:)\s+(?P<rhs>[\w.:]+)\s*\((?P<attrs>.*)\)\s*;?\s*$`)

	reAOIParam    = regexp.MustCompile(`^(\w+)\s+(?:OF|:)\s+([\w.]+)`)
	reAOILocalTag = regexp.MustCompile(`^(\w+)\s*:\s*(\w+)`)

	// Tag statement prefix: <name> [OF alias] : <type...>
	reTagPrefix = regexp.MustCompile(`(?is)^\s*([A-Za-z_][\w.]*)\s*(?:OF\s+([A-Za-z_][\w.\[\]:]*))?\s*:\s*(.+?)\s*$`)

	reDesc = regexp.MustCompile(`(?is)Description\s*:=\s*"([^"]*)"`)

	reEncodedName = regexp.MustCompile(`Name\s*:=\s*"([^"]+)"`)

	// DefaultData attribute removal inside (...) lists. Three shapes: with a
	// leading comma, with a trailing comma, and as the final attribute.
	reDefaultDataLead = regexp.MustCompile(`(?is),\s*DefaultData\s*:=\s*(\([^)]*\)|"[^"]*"|[^,)]*)`)
	reDefaultDataTrail = regexp.MustCompile(`(?is)DefaultData\s*:=\s*(\([^)]*\)|"[^"]*"|[^,)]*)\s*,\s*`)
	reDefaultDataEnd   = regexp.MustCompile(`(?is)(?:,\s*)?DefaultData\s*:=\s*(\([^)]*\)|"[^"]*"|[^,)]*)\s*`)
)

// extractBlockName pulls the name out of a block header line such as
// "DATATYPE DateTime (Description := "...")".
func extractBlockName(headerLine, keyword string) string {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(keyword) + `\s+([^\s(]+)`)
	m := re.FindStringSubmatch(headerLine)
	if m == nil {
		return ""
	}
	return m[1]
}
