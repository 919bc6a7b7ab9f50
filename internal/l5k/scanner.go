package l5k

import (
	"strings"
)

// StatementBuffer accumulates tag statement text across physical lines,
// tracking nested delimiter depth and quoted string literals so a ';' inside
// parens or a literal never terminates the statement. Feed reports true once
// a top-level ';' has been seen.
type StatementBuffer struct {
	parts []string
	depth int
	inSQ  bool
	inDQ  bool
	esc   bool
}

// Reset clears all accumulated state.
func (b *StatementBuffer) Reset() {
	b.parts = b.parts[:0]
	b.depth = 0
	b.inSQ = false
	b.inDQ = false
	b.esc = false
}

// Pending reports whether a partial statement is buffered.
func (b *StatementBuffer) Pending() bool {
	return len(b.parts) > 0
}

// Feed appends a chunk and reports whether the statement is complete.
func (b *StatementBuffer) Feed(chunk string) bool {
	b.parts = append(b.parts, chunk)
	complete := false
	for _, ch := range chunk {
		if b.inSQ || b.inDQ {
			switch {
			case b.esc:
				b.esc = false
			case ch == '$':
				b.esc = true
			case b.inSQ && ch == '\'':
				b.inSQ = false
			case b.inDQ && ch == '"':
				b.inDQ = false
			}
			continue
		}
		switch ch {
		case '\'':
			b.inSQ = true
		case '"':
			b.inDQ = true
		case '(', '[', '{':
			b.depth++
		case ')', ']', '}':
			if b.depth > 0 {
				b.depth--
			}
		case ';':
			if b.depth == 0 {
				complete = true
			}
		}
	}
	return complete
}

// Flush returns the accumulated statement joined by spaces and resets.
func (b *StatementBuffer) Flush() string {
	stmt := strings.Join(b.parts, " ")
	b.Reset()
	return stmt
}

// CheckBalanced walks the whole input with the quote/paren state machine and
// reports the first structural fault: an unterminated string literal or a
// negative/unclosed delimiter depth at end of input. A fault aborts the whole
// parse; nil means the input is structurally scannable.
//
// Known limitation, deliberately not handled: parenthetical content nested
// inside a string literal that itself appears inside another string literal.
func CheckBalanced(text string) error {
	depth := 0
	line := 1
	litLine := 0
	var inSQ, inDQ, esc bool
	for i, ch := range text {
		if ch == '\n' {
			line++
		}
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
			litLine = line
		case '"':
			inDQ = true
			litLine = line
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return &ScanError{Line: line, Offset: i, Reason: "unbalanced ')' with no open block"}
			}
			depth--
		}
	}
	if inSQ || inDQ {
		return &ScanError{Line: litLine, Offset: len(text), Reason: "unterminated string literal"}
	}
	if depth != 0 {
		return &ScanError{Line: line, Offset: len(text), Reason: "unbalanced delimiters at end of input"}
	}
	return nil
}

// captureBlock captures lines[start:] up to and including the line that
// closes all parens and ends with ';'. Returns the dedented joined text and
// the index just past the block. Single-line definitions return immediately.
func captureBlock(lines []string, start int) (string, int) {
	n := len(lines)
	acc := []string{strings.TrimRight(lines[start], "\r\n")}
	j := start + 1

	first := strings.TrimSpace(lines[start])
	if strings.HasSuffix(first, ");") ||
		(!strings.Contains(first, "(") && strings.HasSuffix(first, ";")) {
		return strings.Join(dedentLines(strings.Join(acc, "\n")), "\n"), j
	}

	depth := parenDelta(lines[start])
	for j < n {
		lineJ := strings.TrimRight(lines[j], "\r\n")
		acc = append(acc, lineJ)
		depth += parenDelta(lineJ)
		if depth == 0 && strings.HasSuffix(strings.TrimSpace(lineJ), ";") {
			j++
			break
		}
		j++
	}
	return strings.Join(dedentLines(strings.Join(acc, "\n")), "\n"), j
}

// captureHeader captures a block header that may span multiple physical lines
// before its attribute list closes, e.g. a DATATYPE header whose description
// wraps. Returns the header lines and the index just past them.
func captureHeader(lines []string, start int) ([]string, int) {
	n := len(lines)
	hdr := []string{strings.TrimRight(lines[start], "\r\n")}
	j := start + 1
	depth := parenDelta(strings.TrimSpace(lines[start]))
	for depth > 0 && j < n {
		lineJ := strings.TrimRight(lines[j], "\r\n")
		hdr = append(hdr, lineJ)
		depth += parenDelta(lineJ)
		j++
	}
	return hdr, j
}
