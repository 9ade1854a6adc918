package gazelle

import (
	"fmt"
	"os"
	"time"

	"github.com/rurban/gazelle/bitcode"
)

const (
	blockTagStrings uint8 = 1
	blockTagRTNs    uint8 = 2
	blockTagGLAs    uint8 = 3
	blockTagIntFAs  uint8 = 4
)

// LoadGrammarFile reads a compiled grammar (.gzc) from path.
func LoadGrammarFile(path string, opts ...Option) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return LoadGrammarBytes(data, opts...)
}

// LoadGrammarBytes decodes a compiled grammar from an in-memory bitcode
// stream. It never terminates the process on malformed input: any
// structural problem is reported as a *BadGrammarError and no partial
// Grammar is returned.
func LoadGrammarBytes(data []byte, opts ...Option) (*Grammar, error) {
	cfg := newConfig(opts...)
	start := time.Now()

	r := bitcode.NewReader(data)
	if _, err := r.ReadHeader(); err != nil {
		return nil, badGrammarf("%v", err)
	}

	raw := &rawGrammar{}
	for !r.Done() {
		blk, err := r.ReadBlock()
		if err != nil {
			return nil, badGrammarf("%v", err)
		}
		br := bitcode.NewReader(blk.Payload)
		switch blk.Tag {
		case blockTagStrings:
			if err := decodeStrings(br, raw); err != nil {
				return nil, err
			}
		case blockTagIntFAs:
			if err := decodeIntFAs(br, raw); err != nil {
				return nil, err
			}
		case blockTagGLAs:
			if err := decodeGLAs(br, raw); err != nil {
				return nil, err
			}
		case blockTagRTNs:
			if err := decodeRTNs(br, raw); err != nil {
				return nil, err
			}
		default:
			// Unknown block tags are skippable: the length prefix
			// already advanced past the payload.
			cfg.logger.Debug("gazelle: skipping unknown grammar block", "tag", blk.Tag, "bytes", len(blk.Payload))
		}
	}

	g, err := raw.link()
	if err != nil {
		return nil, err
	}
	if err := validate(g); err != nil {
		return nil, err
	}

	cfg.logger.Debug("gazelle: loaded grammar",
		"strings", len(g.Strings),
		"rtns", len(g.RTNs),
		"glas", len(g.GLAs),
		"intfas", len(g.IntFAs),
		"elapsed", time.Since(start))

	return g, nil
}

// rawGrammar accumulates decoded records with unresolved integer indices.
// Blocks may reference collections that appear later in the stream (RTN
// states reference GLAs/IntFAs, for instance), so decoding is split into
// this index-only pass followed by a link pass once everything has been
// read.
type rawGrammar struct {
	strings []string

	intfas []rawIntFA
	glas   []rawGLA
	rtns   []rawRTN
}

type rawIntFA struct {
	states []rawIntFAState
}

type rawIntFAState struct {
	isFinal      bool
	finalNameIdx uint32
	transitions  []rawIntFATransition
}

type rawIntFATransition struct {
	low, high uint8
	dest      uint32
}

type rawGLA struct {
	states []rawGLAState
}

type rawGLAState struct {
	isFinal          bool
	transitionOffset uint32 // valid if isFinal
	intfaIdx         uint32 // valid if !isFinal
	transitions      []rawGLATransition
}

type rawGLATransition struct {
	isEOF   bool
	termIdx uint32
	dest    uint32
}

type rawRTN struct {
	nameIdx  uint32
	numSlots uint32
	states   []rawRTNState
}

type rawRTNState struct {
	isFinal     bool
	lookahead   uint8 // 0 none, 1 intfa, 2 gla
	hasIntFA    bool  // valid when lookahead == 0: state has a single terminal transition needing lexing
	intfaIdx    uint32
	glaIdx      uint32
	transitions []rawRTNTransition
}

type rawRTNTransition struct {
	isNonterm   bool
	termIdx     uint32 // valid if !isNonterm
	nontermIdx  uint32 // valid if isNonterm
	destState   uint32
	slotNameIdx uint32
	slotIndex   uint32
}

func decodeStrings(r *bitcode.Reader, raw *rawGrammar) error {
	count, err := r.ReadUint32()
	if err != nil {
		return badGrammarf("strings block: %v", err)
	}
	raw.strings = make([]string, count)
	for i := range raw.strings {
		s, err := r.ReadString()
		if err != nil {
			return badGrammarf("strings block: entry %d: %v", i, err)
		}
		raw.strings[i] = s
	}
	return nil
}

func decodeIntFAs(r *bitcode.Reader, raw *rawGrammar) error {
	count, err := r.ReadUint32()
	if err != nil {
		return badGrammarf("intfas block: %v", err)
	}
	raw.intfas = make([]rawIntFA, count)
	for i := range raw.intfas {
		fa, err := decodeIntFA(r)
		if err != nil {
			return badGrammarf("intfa %d: %v", i, err)
		}
		raw.intfas[i] = fa
	}
	return nil
}

func decodeIntFA(r *bitcode.Reader) (rawIntFA, error) {
	numStates, err := r.ReadUint32()
	if err != nil {
		return rawIntFA{}, err
	}
	fa := rawIntFA{states: make([]rawIntFAState, numStates)}
	for i := range fa.states {
		isFinal, err := r.ReadBool()
		if err != nil {
			return rawIntFA{}, err
		}
		var finalNameIdx uint32
		if isFinal {
			finalNameIdx, err = r.ReadUint32()
			if err != nil {
				return rawIntFA{}, err
			}
		}
		numTrans, err := r.ReadUint32()
		if err != nil {
			return rawIntFA{}, err
		}
		trans := make([]rawIntFATransition, numTrans)
		for j := range trans {
			low, err := r.ReadUint8()
			if err != nil {
				return rawIntFA{}, err
			}
			high, err := r.ReadUint8()
			if err != nil {
				return rawIntFA{}, err
			}
			dest, err := r.ReadUint32()
			if err != nil {
				return rawIntFA{}, err
			}
			trans[j] = rawIntFATransition{low: low, high: high, dest: dest}
		}
		fa.states[i] = rawIntFAState{isFinal: isFinal, finalNameIdx: finalNameIdx, transitions: trans}
	}
	return fa, nil
}

func decodeGLAs(r *bitcode.Reader, raw *rawGrammar) error {
	count, err := r.ReadUint32()
	if err != nil {
		return badGrammarf("glas block: %v", err)
	}
	raw.glas = make([]rawGLA, count)
	for i := range raw.glas {
		gla, err := decodeGLA(r)
		if err != nil {
			return badGrammarf("gla %d: %v", i, err)
		}
		raw.glas[i] = gla
	}
	return nil
}

func decodeGLA(r *bitcode.Reader) (rawGLA, error) {
	numStates, err := r.ReadUint32()
	if err != nil {
		return rawGLA{}, err
	}
	gla := rawGLA{states: make([]rawGLAState, numStates)}
	for i := range gla.states {
		isFinal, err := r.ReadBool()
		if err != nil {
			return rawGLA{}, err
		}
		st := rawGLAState{isFinal: isFinal}
		if isFinal {
			off, err := r.ReadUint32()
			if err != nil {
				return rawGLA{}, err
			}
			st.transitionOffset = off
		} else {
			intfaIdx, err := r.ReadUint32()
			if err != nil {
				return rawGLA{}, err
			}
			st.intfaIdx = intfaIdx
			numTrans, err := r.ReadUint32()
			if err != nil {
				return rawGLA{}, err
			}
			trans := make([]rawGLATransition, numTrans)
			for j := range trans {
				isEOF, err := r.ReadBool()
				if err != nil {
					return rawGLA{}, err
				}
				var termIdx uint32
				if !isEOF {
					termIdx, err = r.ReadUint32()
					if err != nil {
						return rawGLA{}, err
					}
				}
				dest, err := r.ReadUint32()
				if err != nil {
					return rawGLA{}, err
				}
				trans[j] = rawGLATransition{isEOF: isEOF, termIdx: termIdx, dest: dest}
			}
			st.transitions = trans
		}
		gla.states[i] = st
	}
	return gla, nil
}

func decodeRTNs(r *bitcode.Reader, raw *rawGrammar) error {
	count, err := r.ReadUint32()
	if err != nil {
		return badGrammarf("rtns block: %v", err)
	}
	raw.rtns = make([]rawRTN, count)
	for i := range raw.rtns {
		rtn, err := decodeRTN(r)
		if err != nil {
			return badGrammarf("rtn %d: %v", i, err)
		}
		raw.rtns[i] = rtn
	}
	return nil
}

func decodeRTN(r *bitcode.Reader) (rawRTN, error) {
	nameIdx, err := r.ReadUint32()
	if err != nil {
		return rawRTN{}, err
	}
	numSlots, err := r.ReadUint32()
	if err != nil {
		return rawRTN{}, err
	}
	numStates, err := r.ReadUint32()
	if err != nil {
		return rawRTN{}, err
	}
	rtn := rawRTN{nameIdx: nameIdx, numSlots: numSlots, states: make([]rawRTNState, numStates)}
	for i := range rtn.states {
		isFinal, err := r.ReadBool()
		if err != nil {
			return rawRTN{}, err
		}
		lookahead, err := r.ReadUint8()
		if err != nil {
			return rawRTN{}, err
		}
		st := rawRTNState{isFinal: isFinal, lookahead: lookahead}
		switch lookahead {
		case 0:
			st.hasIntFA, err = r.ReadBool()
			if err == nil && st.hasIntFA {
				st.intfaIdx, err = r.ReadUint32()
			}
		case 1:
			st.intfaIdx, err = r.ReadUint32()
		case 2:
			st.glaIdx, err = r.ReadUint32()
		}
		if err != nil {
			return rawRTN{}, err
		}
		numTrans, err := r.ReadUint32()
		if err != nil {
			return rawRTN{}, err
		}
		trans := make([]rawRTNTransition, numTrans)
		for j := range trans {
			isNonterm, err := r.ReadBool()
			if err != nil {
				return rawRTN{}, err
			}
			tr := rawRTNTransition{isNonterm: isNonterm}
			if isNonterm {
				tr.nontermIdx, err = r.ReadUint32()
			} else {
				tr.termIdx, err = r.ReadUint32()
			}
			if err != nil {
				return rawRTN{}, err
			}
			if tr.destState, err = r.ReadUint32(); err != nil {
				return rawRTN{}, err
			}
			if tr.slotNameIdx, err = r.ReadUint32(); err != nil {
				return rawRTN{}, err
			}
			if tr.slotIndex, err = r.ReadUint32(); err != nil {
				return rawRTN{}, err
			}
			trans[j] = tr
		}
		st.transitions = trans
		rtn.states[i] = st
	}
	return rtn, nil
}

// link resolves every integer index in raw into a pointer, producing a
// fully connected Grammar. All collections are allocated up front so
// forward references (an RTN transition to an RTN defined later, an RTN
// state pointing at a GLA, ...) resolve to stable addresses.
func (raw *rawGrammar) link() (*Grammar, error) {
	g := &Grammar{Strings: raw.strings}

	str := func(idx uint32) (string, error) {
		i := int(idx)
		if i < 0 || i >= len(g.Strings) {
			return "", badGrammarf("string index %d out of range (have %d)", idx, len(g.Strings))
		}
		return g.Strings[i], nil
	}

	g.IntFAs = make([]*IntFA, len(raw.intfas))
	for i := range raw.intfas {
		g.IntFAs[i] = &IntFA{States: make([]*IntFAState, len(raw.intfas[i].states))}
		for j := range g.IntFAs[i].States {
			g.IntFAs[i].States[j] = &IntFAState{}
		}
	}
	g.GLAs = make([]*GLA, len(raw.glas))
	for i := range raw.glas {
		g.GLAs[i] = &GLA{States: make([]*GLAState, len(raw.glas[i].states))}
		for j := range g.GLAs[i].States {
			g.GLAs[i].States[j] = &GLAState{}
		}
	}
	g.RTNs = make([]*RTN, len(raw.rtns))
	for i := range raw.rtns {
		g.RTNs[i] = &RTN{States: make([]*RTNState, len(raw.rtns[i].states))}
		for j := range g.RTNs[i].States {
			g.RTNs[i].States[j] = &RTNState{}
		}
	}

	for i, rfa := range raw.intfas {
		fa := g.IntFAs[i]
		for j, rst := range rfa.states {
			st := fa.States[j]
			st.IsFinal = rst.isFinal
			if rst.isFinal {
				name, err := str(rst.finalNameIdx)
				if err != nil {
					return nil, fmt.Errorf("intfa %d state %d: final name: %w", i, j, err)
				}
				st.FinalName = name
			}
			st.Transitions = make([]*IntFATransition, len(rst.transitions))
			for k, rtr := range rst.transitions {
				dest, err := resolveIntFAState(fa, rtr.dest)
				if err != nil {
					return nil, fmt.Errorf("intfa %d state %d transition %d: %w", i, j, k, err)
				}
				st.Transitions[k] = &IntFATransition{Low: rtr.low, High: rtr.high, Dest: dest}
			}
		}
	}

	for i, rgla := range raw.glas {
		gla := g.GLAs[i]
		for j, rst := range rgla.states {
			st := gla.States[j]
			st.IsFinal = rst.isFinal
			if rst.isFinal {
				st.TransitionOffset = int(rst.transitionOffset)
				continue
			}
			fa, err := resolveIntFA(g, rst.intfaIdx)
			if err != nil {
				return nil, fmt.Errorf("gla %d state %d: %w", i, j, err)
			}
			st.IntFA = fa
			st.Transitions = make([]*GLATransition, len(rst.transitions))
			for k, rtr := range rst.transitions {
				dest, err := resolveGLAState(gla, rtr.dest)
				if err != nil {
					return nil, fmt.Errorf("gla %d state %d transition %d: %w", i, j, k, err)
				}
				tr := &GLATransition{IsEOF: rtr.isEOF, Dest: dest}
				if !rtr.isEOF {
					name, err := str(rtr.termIdx)
					if err != nil {
						return nil, fmt.Errorf("gla %d state %d transition %d: term: %w", i, j, k, err)
					}
					tr.Term = name
				}
				st.Transitions[k] = tr
			}
		}
	}

	for i, rrtn := range raw.rtns {
		rtn := g.RTNs[i]
		name, err := str(rrtn.nameIdx)
		if err != nil {
			return nil, fmt.Errorf("rtn %d: name: %w", i, err)
		}
		rtn.Name = name
		rtn.NumSlots = int(rrtn.numSlots)
		for j, rst := range rrtn.states {
			st := rtn.States[j]
			st.IsFinal = rst.isFinal
			switch rst.lookahead {
			case 0:
				st.Lookahead = LookaheadNone
				if rst.hasIntFA {
					fa, err := resolveIntFA(g, rst.intfaIdx)
					if err != nil {
						return nil, fmt.Errorf("rtn %q state %d: %w", rtn.Name, j, err)
					}
					st.StateIntFA = fa
				}
			case 1:
				st.Lookahead = LookaheadIntFA
				fa, err := resolveIntFA(g, rst.intfaIdx)
				if err != nil {
					return nil, fmt.Errorf("rtn %q state %d: %w", rtn.Name, j, err)
				}
				st.StateIntFA = fa
			case 2:
				st.Lookahead = LookaheadGLA
				gla, err := resolveGLA(g, rst.glaIdx)
				if err != nil {
					return nil, fmt.Errorf("rtn %q state %d: %w", rtn.Name, j, err)
				}
				st.StateGLA = gla
			default:
				return nil, badGrammarf("rtn %q state %d: unknown lookahead kind %d", rtn.Name, j, rst.lookahead)
			}
		}
	}
	// Second sub-pass over RTN transitions: destination states and
	// nonterminal references may point at RTNs processed above but not
	// yet fully populated with names on the first sub-pass, or at RTNs
	// later in the array (mutual recursion), so transitions are linked
	// only after every RTN's states and name are in place.
	for i, rrtn := range raw.rtns {
		rtn := g.RTNs[i]
		for j, rst := range rrtn.states {
			st := rtn.States[j]
			st.Transitions = make([]*RTNTransition, len(rst.transitions))
			for k, rtr := range rst.transitions {
				dest, err := resolveRTNState(rtn, rtr.destState)
				if err != nil {
					return nil, fmt.Errorf("rtn %q state %d transition %d: %w", rtn.Name, j, k, err)
				}
				slotName, err := str(rtr.slotNameIdx)
				if err != nil {
					return nil, fmt.Errorf("rtn %q state %d transition %d: slot name: %w", rtn.Name, j, k, err)
				}
				tr := &RTNTransition{Dest: dest, SlotName: slotName, SlotIndex: int(rtr.slotIndex)}
				if rtr.isNonterm {
					nonterm, err := resolveRTN(g, rtr.nontermIdx)
					if err != nil {
						return nil, fmt.Errorf("rtn %q state %d transition %d: %w", rtn.Name, j, k, err)
					}
					tr.Kind = TransitionNonterm
					tr.Nonterminal = nonterm
				} else {
					name, err := str(rtr.termIdx)
					if err != nil {
						return nil, fmt.Errorf("rtn %q state %d transition %d: terminal: %w", rtn.Name, j, k, err)
					}
					tr.Kind = TransitionTerminal
					tr.TerminalName = name
				}
				st.Transitions[k] = tr
			}
		}
	}

	if len(g.RTNs) == 0 {
		return nil, badGrammarf("grammar has no RTNs")
	}
	return g, nil
}

func resolveIntFA(g *Grammar, idx uint32) (*IntFA, error) {
	i := int(idx)
	if i < 0 || i >= len(g.IntFAs) {
		return nil, badGrammarf("intfa index %d out of range (have %d)", idx, len(g.IntFAs))
	}
	return g.IntFAs[i], nil
}

func resolveGLA(g *Grammar, idx uint32) (*GLA, error) {
	i := int(idx)
	if i < 0 || i >= len(g.GLAs) {
		return nil, badGrammarf("gla index %d out of range (have %d)", idx, len(g.GLAs))
	}
	return g.GLAs[i], nil
}

func resolveRTN(g *Grammar, idx uint32) (*RTN, error) {
	i := int(idx)
	if i < 0 || i >= len(g.RTNs) {
		return nil, badGrammarf("rtn index %d out of range (have %d)", idx, len(g.RTNs))
	}
	return g.RTNs[i], nil
}

func resolveIntFAState(fa *IntFA, idx uint32) (*IntFAState, error) {
	i := int(idx)
	if i < 0 || i >= len(fa.States) {
		return nil, badGrammarf("intfa state index %d out of range (have %d)", idx, len(fa.States))
	}
	return fa.States[i], nil
}

func resolveGLAState(gla *GLA, idx uint32) (*GLAState, error) {
	i := int(idx)
	if i < 0 || i >= len(gla.States) {
		return nil, badGrammarf("gla state index %d out of range (have %d)", idx, len(gla.States))
	}
	return gla.States[i], nil
}

func resolveRTNState(rtn *RTN, idx uint32) (*RTNState, error) {
	i := int(idx)
	if i < 0 || i >= len(rtn.States) {
		return nil, badGrammarf("rtn state index %d out of range (have %d)", idx, len(rtn.States))
	}
	return rtn.States[i], nil
}
