package l5k

import "strings"

// L5K string literals use '$' as the escape character; both single and double
// quoted literals occur. The helpers below never treat delimiters inside a
// literal as structural.

// parenDelta returns the net '(' minus ')' on one line, ignoring delimiters
// inside string literals.
func parenDelta(line string) int {
	delta := 0
	var inSQ, inDQ, esc bool
	for _, ch := range line {
		if inSQ || inDQ {
			switch {
			case esc:
				esc = false
			case ch == '$':
				esc = true
			case inSQ && ch == '\'':
				inSQ = false
			case inDQ && ch == '"':
				inDQ = false
			}
			continue
		}
		switch ch {
		case '\'':
			inSQ = true
		case '"':
			inDQ = true
		case '(':
			delta++
		case ')':
			delta--
		}
	}
	return delta
}

// firstOutsideParens returns the index of the first occurrence of target that
// is outside (), [], {} and outside both quote styles. -1 if none.
func firstOutsideParens(s, target string) int {
	depth := 0
	var inSQ, inDQ, esc bool
	for i, ch := range s {
		if inSQ || inDQ {
			switch {
			case esc:
				esc = false
			case ch == '$':
				esc = true
			case inSQ && ch == '\'':
				inSQ = false
			case inDQ && ch == '"':
				inDQ = false
			}
			continue
		}
		switch {
		case ch == '\'':
			inSQ = true
		case ch == '"':
			inDQ = true
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && strings.HasPrefix(s[i:], target) {
				return i
			}
		}
	}
	return -1
}

// splitOuterAttrs splits "prefix (attrs)" into its parts when the text ends
// with a single balanced top-level attribute list. Otherwise the input is
// returned unchanged with empty attrs.
func splitOuterAttrs(left string) (string, string) {
	s := strings.TrimRight(left, " \t")
	if idx := strings.LastIndex(s, ")"); idx != -1 {
		s = s[:idx+1]
	}
	if !strings.HasSuffix(s, ")") {
		return left, ""
	}
	depth := 0
	start := -1
	for i, ch := range s {
		switch ch {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
		}
	}
	if start != -1 && depth == 0 {
		return strings.TrimRight(s[:start], " \t"), s[start+1 : len(s)-1]
	}
	return left, ""
}

// EncodeString encodes text as an L5K string literal body: '$' escapes the
// next character, so '$' itself, both quote styles, and CR/LF are escaped.
func EncodeString(s string) string {
	r := strings.NewReplacer(
		"$", "$$",
		`"`, `$"`,
		"'", "$'",
		"\r", "$R",
		"\n", "$N",
	)
	return r.Replace(s)
}

// dedentLines strips the common leading whitespace from a stored multi-line
// definition, preserving relative indentation. Blank lines are dropped.
func dedentLines(defText string) []string {
	var lines []string
	for _, ln := range strings.Split(defText, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		lines = append(lines, ln)
	}
	if len(lines) == 0 {
		return nil
	}
	margin := -1
	for _, ln := range lines {
		indent := len(ln) - len(strings.TrimLeft(ln, " \t"))
		if margin == -1 || indent < margin {
			margin = indent
		}
	}
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln[margin:]
	}
	return out
}

// indentLines prefixes each line with level copies of indent.
func indentLines(lines []string, level int, indent string) []string {
	pref := strings.Repeat(indent, level)
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = pref + strings.TrimRight(ln, " \t")
	}
	return out
}

// DedentLines strips the common leading whitespace from a stored definition,
// for replaying captured block text at a new indent level.
func DedentLines(defText string) []string {
	return dedentLines(defText)
}

// IndentLines prefixes each line with level copies of indent.
func IndentLines(lines []string, level int, indent string) []string {
	return indentLines(lines, level, indent)
}

// Description extracts the Description := "..." attribute from a text blob.
func Description(text string) string {
	return descOf(text)
}

// ParamAttrs returns the attribute list inside a captured parameter or local
// tag definition ("Name OF X.Y ( ...attrs... );"). ok is false when the
// definition does not have that shape.
func ParamAttrs(definition string) (string, bool) {
	m := reAOIParamDef.FindStringSubmatch(strings.TrimSpace(definition))
	if m == nil {
		return "", false
	}
	return m[4], true
}

// SetDescription rewrites the Description attribute inside a captured
// statement to desc ($-encoded). An existing attribute is replaced in place;
// otherwise one is spliced into the statement's attribute list, creating the
// list before the trailing semicolon when the statement has none.
func SetDescription(definition, desc string) string {
	attr := `Description := "` + EncodeString(desc) + `"`
	if reDesc.MatchString(definition) {
		return reDesc.ReplaceAllLiteralString(definition, attr)
	}
	s := strings.TrimRight(definition, " \t\r\n")
	body, hadSemi := strings.CutSuffix(s, ";")
	body = strings.TrimRight(body, " \t\r\n")
	if inner, ok := strings.CutSuffix(body, ")"); ok {
		inner = strings.TrimRight(inner, " \t\r\n")
		if strings.HasSuffix(inner, "(") {
			body = inner + attr + ")"
		} else {
			body = inner + ", " + attr + ")"
		}
	} else {
		body += " (" + attr + ")"
	}
	if hadSemi {
		body += ";"
	}
	return body
}

// descOf extracts the Description := "..." attribute from a text blob.
func descOf(text string) string {
	m := reDesc.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// stripDefaultData removes DefaultData attributes from the (...) list of an
// AOI parameter or local tag definition. Applied twice since removing one
// shape can expose another.
func stripDefaultData(definition string) string {
	if !strings.Contains(definition, "DefaultData") {
		return definition
	}
	s := definition
	for i := 0; i < 2; i++ {
		next := reDefaultDataLead.ReplaceAllString(s, "")
		next = reDefaultDataTrail.ReplaceAllString(next, "")
		next = reDefaultDataEnd.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return s
}
