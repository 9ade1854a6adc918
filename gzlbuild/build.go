// Package gzlbuild assembles gazelle.Grammar values programmatically, the
// way a grammar compiler's back end would emit them, without going
// through the compiled bitcode wire format. It exists so tests and small
// embedded grammars don't need an external compiler or a checked-in
// .gzc fixture.
package gzlbuild

import (
	"fmt"
	"sort"

	"github.com/rurban/gazelle"
)

// Builder accumulates named IntFAs, GLAs and RTNs and links them into a
// Grammar on Build. Forward references (an RTN transition into a rule
// declared later, a state pointing at a not-yet-declared IntFA) are
// resolved by name at Build time, mirroring the loader's raw-decode-then-
// link two-phase approach for compiled grammars.
type Builder struct {
	entry string

	intfas   map[string]*intfaSpec
	intfaOrd []string
	glas     map[string]*glaSpec
	glaOrd   []string
	rtns     map[string]*rtnSpec
	rtnOrd   []string
}

// New starts a Builder whose entry rule will be entryRTN.
func New(entryRTN string) *Builder {
	return &Builder{
		entry:  entryRTN,
		intfas: make(map[string]*intfaSpec),
		glas:   make(map[string]*glaSpec),
		rtns:   make(map[string]*rtnSpec),
	}
}

type intfaStateSpec struct {
	isFinal   bool
	finalName string
	trans     []intfaTransSpec
}

type intfaTransSpec struct {
	low, high byte
	dest      int
}

type intfaSpec struct {
	states []intfaStateSpec
}

// IntFAB builds one byte-level lexer DFA.
type IntFAB struct {
	spec *intfaSpec
}

// IntFA declares a new IntFA named name. State 0 is its start state.
func (b *Builder) IntFA(name string) *IntFAB {
	spec := &intfaSpec{}
	b.intfas[name] = spec
	b.intfaOrd = append(b.intfaOrd, name)
	return &IntFAB{spec: spec}
}

// State appends a new, initially non-final state and returns its index.
func (f *IntFAB) State() int {
	f.spec.states = append(f.spec.states, intfaStateSpec{})
	return len(f.spec.states) - 1
}

// Final marks state as accepting for the terminal named name.
func (f *IntFAB) Final(state int, name string) *IntFAB {
	f.spec.states[state].isFinal = true
	f.spec.states[state].finalName = name
	return f
}

// Range adds a transition on the inclusive byte range [low, high] from
// state to dest.
func (f *IntFAB) Range(state int, low, high byte, dest int) *IntFAB {
	f.spec.states[state].trans = append(f.spec.states[state].trans, intfaTransSpec{low, high, dest})
	return f
}

// Byte adds a single-byte transition, shorthand for Range(state, ch, ch, dest).
func (f *IntFAB) Byte(state int, ch byte, dest int) *IntFAB {
	return f.Range(state, ch, ch, dest)
}

type glaTransSpec struct {
	isEOF bool
	term  string
	dest  int
}

type glaStateSpec struct {
	isFinal bool
	offset  int
	intfa   string
	trans   []glaTransSpec
}

type glaSpec struct {
	states []glaStateSpec
}

// GLAB builds one terminal-name lookahead DFA.
type GLAB struct {
	spec *glaSpec
}

// GLA declares a new GLA named name. State 0 is its start state.
func (b *Builder) GLA(name string) *GLAB {
	spec := &glaSpec{}
	b.glas[name] = spec
	b.glaOrd = append(b.glaOrd, name)
	return &GLAB{spec: spec}
}

// State appends a non-final state that lexes its next terminal with the
// named IntFA, and returns its index.
func (g *GLAB) State(intfaName string) int {
	g.spec.states = append(g.spec.states, glaStateSpec{intfa: intfaName})
	return len(g.spec.states) - 1
}

// FinalState appends a final state selecting the parent RTN state's
// transitionOffset-th outbound transition (1-based), and returns its
// index.
func (g *GLAB) FinalState(transitionOffset int) int {
	g.spec.states = append(g.spec.states, glaStateSpec{isFinal: true, offset: transitionOffset})
	return len(g.spec.states) - 1
}

// On adds a transition on the named terminal from state to dest.
func (g *GLAB) On(state int, term string, dest int) *GLAB {
	g.spec.states[state].trans = append(g.spec.states[state].trans, glaTransSpec{term: term, dest: dest})
	return g
}

// OnEOF adds an end-of-input transition from state to dest.
func (g *GLAB) OnEOF(state int, dest int) *GLAB {
	g.spec.states[state].trans = append(g.spec.states[state].trans, glaTransSpec{isEOF: true, dest: dest})
	return g
}

type rtnTransSpec struct {
	kind         gazelle.TransitionKind
	terminalName string
	nonterminal  string
	dest         int
	slotName     string
	slotIndex    int
}

type rtnStateSpec struct {
	isFinal    bool
	lookahead  gazelle.LookaheadKind
	stateIntFA string
	stateGLA   string
	trans      []rtnTransSpec
}

type rtnSpec struct {
	numSlots int
	states   []rtnStateSpec
}

// RTNB builds one rule.
type RTNB struct {
	spec *rtnSpec
}

// RTN declares a new rule named name. State 0 is its start state.
func (b *Builder) RTN(name string) *RTNB {
	spec := &rtnSpec{}
	b.rtns[name] = spec
	b.rtnOrd = append(b.rtnOrd, name)
	return &RTNB{spec: spec}
}

// NumSlots sets the number of named result slots the rule fills in.
func (r *RTNB) NumSlots(n int) *RTNB {
	r.spec.numSlots = n
	return r
}

// State appends a new state and returns its index.
func (r *RTNB) State() int {
	r.spec.states = append(r.spec.states, rtnStateSpec{})
	return len(r.spec.states) - 1
}

// Final marks state as an accepting stop point for the rule.
func (r *RTNB) Final(state int) *RTNB {
	r.spec.states[state].isFinal = true
	return r
}

// SingleIntFA marks state as a LookaheadNone state whose one terminal
// transition still needs a lexer to confirm it (STATE_HAS_NEITHER with a
// lone outbound edge, per the wire format's optional per-state IntFA).
func (r *RTNB) SingleIntFA(state int, intfaName string) *RTNB {
	r.spec.states[state].stateIntFA = intfaName
	return r
}

// IntFALookahead marks state as dispatching directly off a lexed
// terminal's name via intfaName, with no GLA needed.
func (r *RTNB) IntFALookahead(state int, intfaName string) *RTNB {
	r.spec.states[state].lookahead = gazelle.LookaheadIntFA
	r.spec.states[state].stateIntFA = intfaName
	return r
}

// GLALookahead marks state as requiring the named GLA to disambiguate
// between its outbound transitions.
func (r *RTNB) GLALookahead(state int, glaName string) *RTNB {
	r.spec.states[state].lookahead = gazelle.LookaheadGLA
	r.spec.states[state].stateGLA = glaName
	return r
}

// Terminal adds an outbound transition on terminal name to dest, filling
// slot slotName/slotIndex when taken.
func (r *RTNB) Terminal(state int, name string, dest int, slotName string, slotIndex int) *RTNB {
	r.spec.states[state].trans = append(r.spec.states[state].trans, rtnTransSpec{
		kind: gazelle.TransitionTerminal, terminalName: name, dest: dest,
		slotName: slotName, slotIndex: slotIndex,
	})
	return r
}

// Nonterm adds an outbound transition recursing into ruleName, selected
// by firstTerminal when the state uses IntFA lookahead (leave firstTerminal
// empty for a LookaheadNone state with a single nonterminal transition).
func (r *RTNB) Nonterm(state int, ruleName, firstTerminal string, dest int, slotName string, slotIndex int) *RTNB {
	r.spec.states[state].trans = append(r.spec.states[state].trans, rtnTransSpec{
		kind: gazelle.TransitionNonterm, terminalName: firstTerminal, nonterminal: ruleName, dest: dest,
		slotName: slotName, slotIndex: slotIndex,
	})
	return r
}

// Build links every declared IntFA, GLA and RTN into a Grammar and
// validates it. The entry rule named at New becomes Grammar.RTNs[0].
func (b *Builder) Build() (*gazelle.Grammar, error) {
	intfaObjs, allIntFAs, err := b.buildIntFAs()
	if err != nil {
		return nil, err
	}
	glaObjs, allGLAs, err := b.buildGLAs(intfaObjs)
	if err != nil {
		return nil, err
	}
	rtnObjs, allRTNs := b.declareRTNs()
	terminals := make(map[string]struct{})
	if err := b.fillRTNs(rtnObjs, intfaObjs, glaObjs, terminals); err != nil {
		return nil, err
	}
	b.collectGLATerminals(terminals)

	entry, ok := rtnObjs[b.entry]
	if !ok {
		return nil, fmt.Errorf("gzlbuild: unknown entry rule %q", b.entry)
	}
	ordered := make([]*gazelle.RTN, 0, len(allRTNs))
	ordered = append(ordered, entry)
	for _, r := range allRTNs {
		if r != entry {
			ordered = append(ordered, r)
		}
	}

	strs := make([]string, 0, len(terminals))
	for n := range terminals {
		strs = append(strs, n)
	}
	sort.Strings(strs)

	g := &gazelle.Grammar{Strings: strs, RTNs: ordered, GLAs: allGLAs, IntFAs: allIntFAs}
	if err := gazelle.ValidateGrammar(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (b *Builder) buildIntFAs() (map[string]*gazelle.IntFA, []*gazelle.IntFA, error) {
	objs := make(map[string]*gazelle.IntFA, len(b.intfas))
	var all []*gazelle.IntFA
	for _, name := range b.intfaOrd {
		spec := b.intfas[name]
		fa := &gazelle.IntFA{States: make([]*gazelle.IntFAState, len(spec.states))}
		for i := range spec.states {
			fa.States[i] = &gazelle.IntFAState{}
		}
		for i, st := range spec.states {
			fa.States[i].IsFinal = st.isFinal
			fa.States[i].FinalName = st.finalName
			for _, t := range st.trans {
				if t.dest < 0 || t.dest >= len(fa.States) {
					return nil, nil, fmt.Errorf("gzlbuild: intfa %q state %d: dest %d out of range", name, i, t.dest)
				}
				fa.States[i].Transitions = append(fa.States[i].Transitions, &gazelle.IntFATransition{
					Low: t.low, High: t.high, Dest: fa.States[t.dest],
				})
			}
		}
		objs[name] = fa
		all = append(all, fa)
	}
	return objs, all, nil
}

func (b *Builder) buildGLAs(intfaObjs map[string]*gazelle.IntFA) (map[string]*gazelle.GLA, []*gazelle.GLA, error) {
	objs := make(map[string]*gazelle.GLA, len(b.glas))
	var all []*gazelle.GLA
	for _, name := range b.glaOrd {
		spec := b.glas[name]
		gla := &gazelle.GLA{States: make([]*gazelle.GLAState, len(spec.states))}
		for i := range spec.states {
			gla.States[i] = &gazelle.GLAState{}
		}
		for i, st := range spec.states {
			gs := gla.States[i]
			gs.IsFinal = st.isFinal
			gs.TransitionOffset = st.offset
			if !st.isFinal {
				fa, ok := intfaObjs[st.intfa]
				if !ok {
					return nil, nil, fmt.Errorf("gzlbuild: gla %q state %d: unknown intfa %q", name, i, st.intfa)
				}
				gs.IntFA = fa
			}
			for _, t := range st.trans {
				if t.dest < 0 || t.dest >= len(gla.States) {
					return nil, nil, fmt.Errorf("gzlbuild: gla %q state %d: dest %d out of range", name, i, t.dest)
				}
				gs.Transitions = append(gs.Transitions, &gazelle.GLATransition{
					IsEOF: t.isEOF, Term: t.term, Dest: gla.States[t.dest],
				})
			}
		}
		objs[name] = gla
		all = append(all, gla)
	}
	return objs, all, nil
}

func (b *Builder) declareRTNs() (map[string]*gazelle.RTN, []*gazelle.RTN) {
	objs := make(map[string]*gazelle.RTN, len(b.rtns))
	var all []*gazelle.RTN
	for _, name := range b.rtnOrd {
		spec := b.rtns[name]
		rtn := &gazelle.RTN{Name: name, NumSlots: spec.numSlots, States: make([]*gazelle.RTNState, len(spec.states))}
		for i := range spec.states {
			rtn.States[i] = &gazelle.RTNState{}
		}
		objs[name] = rtn
		all = append(all, rtn)
	}
	return objs, all
}

func (b *Builder) fillRTNs(
	rtnObjs map[string]*gazelle.RTN,
	intfaObjs map[string]*gazelle.IntFA,
	glaObjs map[string]*gazelle.GLA,
	terminals map[string]struct{},
) error {
	for _, name := range b.rtnOrd {
		spec := b.rtns[name]
		rtn := rtnObjs[name]
		for i, st := range spec.states {
			rs := rtn.States[i]
			rs.IsFinal = st.isFinal
			rs.Lookahead = st.lookahead
			if st.stateIntFA != "" {
				fa, ok := intfaObjs[st.stateIntFA]
				if !ok {
					return fmt.Errorf("gzlbuild: rtn %q state %d: unknown intfa %q", name, i, st.stateIntFA)
				}
				rs.StateIntFA = fa
			}
			if st.stateGLA != "" {
				gla, ok := glaObjs[st.stateGLA]
				if !ok {
					return fmt.Errorf("gzlbuild: rtn %q state %d: unknown gla %q", name, i, st.stateGLA)
				}
				rs.StateGLA = gla
			}
			for _, t := range st.trans {
				if t.dest < 0 || t.dest >= len(rtn.States) {
					return fmt.Errorf("gzlbuild: rtn %q state %d: dest %d out of range", name, i, t.dest)
				}
				tr := &gazelle.RTNTransition{
					Kind: t.kind, TerminalName: t.terminalName, Dest: rtn.States[t.dest],
					SlotName: t.slotName, SlotIndex: t.slotIndex,
				}
				if t.kind == gazelle.TransitionNonterm {
					target, ok := rtnObjs[t.nonterminal]
					if !ok {
						return fmt.Errorf("gzlbuild: rtn %q state %d: unknown rule %q", name, i, t.nonterminal)
					}
					tr.Nonterminal = target
				}
				if t.terminalName != "" {
					terminals[t.terminalName] = struct{}{}
				}
				rs.Transitions = append(rs.Transitions, tr)
			}
		}
	}
	return nil
}

func (b *Builder) collectGLATerminals(terminals map[string]struct{}) {
	for _, name := range b.glaOrd {
		for _, st := range b.glas[name].states {
			for _, t := range st.trans {
				if !t.isEOF {
					terminals[t.term] = struct{}{}
				}
			}
		}
	}
}
