package gazelle

// FrameType tags which automaton a Frame is executing.
type FrameType int

const (
	FrameRTN FrameType = iota
	FrameGLA
	FrameIntFA
)

func (t FrameType) String() string {
	switch t {
	case FrameRTN:
		return "RTN"
	case FrameGLA:
		return "GLA"
	case FrameIntFA:
		return "IntFA"
	default:
		return "unknown"
	}
}

// Frame is one entry of the parse stack: a tagged union over the three
// automaton kinds the interpreter can be executing. A single struct with
// a Type discriminant is used instead of an interface hierarchy, mirroring
// the C original's tagged-union parse_stack_frame — the interpreter's
// dispatch is explicit on Type rather than through virtual calls.
type Frame struct {
	Type     FrameType
	StartPos Position

	// Valid when Type == FrameRTN. viaTransition is the parent RTN
	// frame's transition that pushed this frame (nil for the entry
	// frame); once this frame pops, it tells the interpreter which
	// state the parent advances to.
	RTN            *RTN
	RTNState       *RTNState
	LastTransition *RTNTransition
	viaTransition  *RTNTransition

	// Valid when Type == FrameGLA. LookaheadPos is how many buffered
	// terminals (from the token buffer's front) this GLA walk has
	// consulted so far; lookahead terminals are peeked, not consumed —
	// only the eventual RTN transition consumes the buffer's head.
	GLA          *GLA
	GLAState     *GLAState
	LookaheadPos int

	// Valid when Type == FrameIntFA. matched/matchState/matchPos
	// memoize the longest-match search across resumed Parse calls:
	// matched is true once some final state has been seen since the
	// frame started; matchState/matchPos record the most recent one.
	// sinceMatch holds bytes consumed while probing for an even longer
	// match past matchPos; if the probe dead-ends, they are pushed back
	// onto the session so the next token can still see them.
	IntFA      *IntFA
	IntFAState *IntFAState
	matched    bool
	matchState *IntFAState
	matchPos   Position
	sinceMatch []byte
}
