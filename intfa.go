package gazelle

// IntFA is a DFA over byte values, used to lex terminals. Transitions are
// labeled with inclusive byte ranges; final states carry the name of the
// terminal they recognize.
type IntFA struct {
	States []*IntFAState
}

// IntFAState is one state of an IntFA. A state with FinalName != "" is an
// accepting state for that terminal.
type IntFAState struct {
	FinalName   string
	IsFinal     bool
	Transitions []*IntFATransition
}

// IntFATransition is a byte-range-labeled edge between two IntFA states.
// Ranges out of one state are disjoint; this is a compile-time invariant
// that the loader verifies.
type IntFATransition struct {
	Low, High byte
	Dest      *IntFAState
}

// Step finds the outbound transition (if any) whose range contains ch.
// Transitions out of a state are small (rarely more than a couple dozen
// byte-range edges), so a linear scan is both simpler and faster in
// practice than a binary search over the same handful of ranges — the
// same tradeoff the teacher's DFA state lookup made for its own small,
// densely-packed transition sets.
func (s *IntFAState) Step(ch byte) (*IntFAState, bool) {
	for _, t := range s.Transitions {
		if ch >= t.Low && ch <= t.High {
			return t.Dest, true
		}
	}
	return nil, false
}
