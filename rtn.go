package gazelle

// LookaheadKind classifies how an RTNState resolves which outbound
// transition to take next.
type LookaheadKind int

const (
	// LookaheadNone means the state is either final with no outbound
	// transitions, or has exactly one transition that requires no
	// lookahead beyond the terminal it names.
	LookaheadNone LookaheadKind = iota
	// LookaheadIntFA means the next terminal is lexed directly with
	// StateIntFA and its name selects the outbound transition.
	LookaheadIntFA
	// LookaheadGLA means a GLA must be run to disambiguate between
	// multiple candidate transitions.
	LookaheadGLA
)

// RTN is a named rule: a pushdown-automaton fragment whose transitions
// are terminals or references to other RTNs (rules), forming a system of
// mutually recursive networks.
type RTN struct {
	Name     string
	NumSlots int
	States   []*RTNState // States[0] is the start state.
}

// RTNState is one state of an RTN.
type RTNState struct {
	IsFinal   bool
	Lookahead LookaheadKind
	// StateIntFA lexes the next terminal. Set whenever Lookahead ==
	// LookaheadIntFA (its terminal selects among several transitions),
	// and also when Lookahead == LookaheadNone but the state has a
	// single terminal transition (its terminal must simply match).
	// Left nil for LookaheadNone states with no transitions (pure
	// "return" states) and for LookaheadGLA states, which lex through
	// their GLA's own per-state IntFAs instead.
	StateIntFA  *IntFA
	StateGLA    *GLA // set when Lookahead == LookaheadGLA
	Transitions []*RTNTransition
}

// TransitionKind distinguishes terminal transitions (consume a lexed
// terminal) from nonterminal transitions (recurse into another RTN).
type TransitionKind int

const (
	TransitionTerminal TransitionKind = iota
	TransitionNonterm
)

// RTNTransition is an edge out of an RTNState. TerminalName is always set
// for terminal transitions; for nonterminal transitions reached through a
// LookaheadIntFA state it also carries the FIRST-set terminal that selects
// this transition (resolved once, at compile time), so runtime dispatch
// can key uniformly on a lexed terminal's name regardless of what kind of
// transition it turns out to select.
type RTNTransition struct {
	Kind         TransitionKind
	TerminalName string
	Nonterminal  *RTN // set when Kind == TransitionNonterm
	Dest         *RTNState
	SlotName     string
	SlotIndex    int
}

// ByTerminal returns the outbound terminal transition labeled with the
// given terminal name, if any. Used by the LookaheadNone dispatch path's
// exact-match check.
func (s *RTNState) ByTerminal(name string) (*RTNTransition, bool) {
	for _, tr := range s.Transitions {
		if tr.Kind == TransitionTerminal && tr.TerminalName == name {
			return tr, true
		}
	}
	return nil, false
}

// SelectByLookahead returns the outbound transition (terminal or
// nonterminal) whose FIRST-set terminal name matches name. Used by the
// LookaheadIntFA dispatch path, where a single lexed terminal name may
// select either kind of transition.
func (s *RTNState) SelectByLookahead(name string) (*RTNTransition, bool) {
	for _, tr := range s.Transitions {
		if tr.TerminalName == name {
			return tr, true
		}
	}
	return nil, false
}
