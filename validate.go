package gazelle

import (
	"github.com/bits-and-blooms/bitset"
)

// ValidateGrammar re-checks the structural invariants a Grammar must
// satisfy before it can be parsed with. LoadGrammarBytes runs this
// automatically; callers that assemble a Grammar programmatically (see
// gzlbuild) must call it themselves.
func ValidateGrammar(g *Grammar) error { return validate(g) }

// validate re-checks the structural invariants the loader is supposed to
// have enforced while decoding: every RTN has at least one state, IntFA
// byte ranges out of a state are disjoint, and no RTN state claims the
// same terminal on two different outbound transitions. It is run once at
// the end of loading, after all cross-references have been resolved to
// pointers, so every check here operates on a fully linked Grammar.
func validate(g *Grammar) error {
	if len(g.RTNs) == 0 {
		return badGrammarf("grammar has no RTNs")
	}
	nameIndex := make(map[string]uint, len(g.Strings))
	for i, s := range g.Strings {
		nameIndex[s] = uint(i)
	}
	for _, rtn := range g.RTNs {
		if len(rtn.States) == 0 {
			return badGrammarf("rtn %q has no states", rtn.Name)
		}
		for i, st := range rtn.States {
			// A LookaheadGLA state's transitions are expected to share
			// terminal names — disambiguating between them is exactly
			// what its GLA is for. The determinism check only applies
			// to states that dispatch directly off one lexed terminal.
			if st.Lookahead != LookaheadGLA {
				if err := validateRTNStateDeterminism(rtn, i, st, nameIndex); err != nil {
					return err
				}
			}
			if st.Lookahead == LookaheadGLA && st.StateGLA != nil {
				if err := validateGLA(st.StateGLA); err != nil {
					return err
				}
			}
		}
	}
	for _, fa := range g.IntFAs {
		if err := validateIntFA(fa); err != nil {
			return err
		}
	}
	return nil
}

// validateRTNStateDeterminism uses a bitset keyed by string-pool index to
// flag two terminal transitions out of the same state claiming the same
// terminal name — a violation of the compile-time determinism invariant
// that the loader is required to catch rather than silently misparse.
func validateRTNStateDeterminism(rtn *RTN, stateIdx int, st *RTNState, nameIndex map[string]uint) error {
	claimed := bitset.New(uint(len(nameIndex)))
	for _, tr := range st.Transitions {
		if tr.Kind != TransitionTerminal {
			continue
		}
		idx, ok := nameIndex[tr.TerminalName]
		if !ok {
			return badGrammarf("rtn %q state %d: terminal %q not in string pool", rtn.Name, stateIdx, tr.TerminalName)
		}
		if claimed.Test(idx) {
			return badGrammarf("rtn %q state %d: terminal %q claimed by more than one transition", rtn.Name, stateIdx, tr.TerminalName)
		}
		claimed.Set(idx)
	}
	return nil
}

// validateIntFA checks that byte-range transitions out of every state are
// pairwise disjoint, using a 256-bit set (one bit per byte value) so
// overlap detection is a handful of word operations per state rather than
// an O(n^2) pairwise range comparison.
func validateIntFA(fa *IntFA) error {
	for i, st := range fa.States {
		covered := bitset.New(256)
		for _, tr := range st.Transitions {
			if tr.Low > tr.High {
				return badGrammarf("intfa state %d: transition has low %d > high %d", i, tr.Low, tr.High)
			}
			for b := uint(tr.Low); b <= uint(tr.High); b++ {
				if covered.Test(b) {
					return badGrammarf("intfa state %d: overlapping byte ranges at 0x%02x", i, b)
				}
				covered.Set(b)
			}
		}
	}
	return nil
}

// validateGLA checks that every final GLA state carries a nonzero
// transition offset; offset 0 ("return") is documented as reserved and
// unimplemented, so a grammar that emits it is treated as malformed
// rather than silently mishandled at parse time.
func validateGLA(gla *GLA) error {
	for i, st := range gla.States {
		if st.IsFinal && st.TransitionOffset == 0 {
			return badGrammarf("gla state %d: final state has reserved transition offset 0", i)
		}
	}
	return nil
}
