package gazelle

// Position locates a byte in the input stream. Line and Column are
// 1-based; Byte is the absolute 0-based offset from the start of input.
type Position struct {
	Byte   int
	Line   int
	Column int
}

// Terminal is a recognized lexical unit: a name (shared with the
// grammar's string pool) and the span in the input stream it covers.
type Terminal struct {
	Name  string
	Start Position
	Len   int
}

// End returns the byte offset one past the end of the terminal's span.
func (t Terminal) End() int { return t.Start.Byte + t.Len }

// eofTerminalName is never a valid lexed terminal name (terminal names
// come from the grammar's string pool and are always non-empty); it is
// used internally to represent "EOF" when consulting a GLA's transitions.
const eofTerminalName = ""
