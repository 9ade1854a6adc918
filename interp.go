package gazelle

import "errors"

// stepOutcome tells Parse's dispatch loop whether the step it just ran
// changed state without needing more bytes (outcomeContinue) or ran out of
// input mid-operation (outcomeBlocked).
type stepOutcome int

const (
	outcomeContinue stepOutcome = iota
	outcomeBlocked
)

// Parse advances the session over buf, which begins at the session's
// current absolute offset. It is streaming and resumable: a later call
// with the next chunk continues exactly where this one left off. Set
// finalize when buf is the last chunk of input the client will ever
// supply, so the lexer and any pending GLA lookahead can resolve against a
// true end of input instead of just blocking for more bytes.
func (s *Session) Parse(buf []byte, finalize bool) (status Status, err error) {
	if s.finished {
		return StatusHardEOF, nil
	}
	s.buf = buf
	s.pos = 0
	s.delivered += len(buf)
	defer func() {
		s.buf = nil
		s.pos = 0
	}()
	// A panicking callback is recovered here and reported as cancellation.
	defer func() {
		if r := recover(); r != nil {
			s.cancelled.Store(true)
			status, err = StatusCancelled, nil
		}
	}()

	for {
		if s.cancelled.Load() {
			return StatusCancelled, nil
		}
		if s.stack.depth() == 0 {
			s.finished = true
			return StatusHardEOF, nil
		}
		top, _ := s.stack.top()

		var outcome stepOutcome
		var err error
		switch top.Type {
		case FrameIntFA:
			outcome, err = s.stepIntFA(top, finalize)
		case FrameGLA:
			outcome, err = s.stepGLA(top, finalize)
		case FrameRTN:
			outcome, err = s.stepRTN(top)
		default:
			return StatusError, badGrammarf("parse stack: unknown frame type")
		}
		if err != nil {
			return s.classifyError(err), err
		}
		if outcome == outcomeBlocked {
			return StatusOK, nil
		}
	}
}

func (s *Session) classifyError(err error) Status {
	var rle *ResourceLimitError
	if errors.As(err, &rle) {
		return StatusResourceLimitExceeded
	}
	return StatusError
}

// Finish reports whether the session may legally end here: every open RTN
// frame must be at a final state with no pending GLA or IntFA frame above
// it, and every byte ever delivered to Parse must have been consumed — a
// document followed by trailing garbage the grammar has no rule for is not
// a legal end, even though the frames that did run are all final. On
// success it drains any frames the last Parse call left on the stack
// (already-final frames it didn't need more input to pop).
func (s *Session) Finish() bool {
	if !s.canFinish() {
		return false
	}
	if s.offset != s.delivered {
		return false
	}
	for {
		f, ok := s.stack.top()
		if !ok {
			break
		}
		name := ""
		if f.RTN != nil {
			name = f.RTN.Name
		}
		s.cb.willEndRule(s, name)
		s.stack.pop()
		s.cb.didEndRule(s, name)
	}
	s.finished = true
	return true
}

func (s *Session) canFinish() bool {
	depth := s.stack.depth()
	for i := 0; i < depth; i++ {
		f, ok := s.stack.frameAt(i)
		if !ok || f.Type != FrameRTN || !f.RTNState.IsFinal {
			return false
		}
	}
	return true
}

// --- byte-level cursor over the current chunk plus any pushed-back bytes ---

func (s *Session) hasByte() bool {
	return len(s.pushback) > 0 || s.pos < len(s.buf)
}

func (s *Session) peekByte() byte {
	if len(s.pushback) > 0 {
		return s.pushback[0]
	}
	return s.buf[s.pos]
}

func (s *Session) consumeByte() byte {
	var b byte
	if len(s.pushback) > 0 {
		b = s.pushback[0]
		s.pushback = s.pushback[1:]
	} else {
		b = s.buf[s.pos]
		s.pos++
	}
	s.offset++
	if b == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return b
}

func (s *Session) pos0() Position {
	return Position{Byte: s.offset, Line: s.line, Column: s.column}
}

// atTrueEOF reports whether no more bytes will ever arrive: buf and any
// pushback are both exhausted and this is the final chunk.
func (s *Session) atTrueEOF(finalize bool) bool {
	return finalize && len(s.pushback) == 0 && s.pos >= len(s.buf)
}

// --- IntFAFrame: lexical mode ---

func (s *Session) stepIntFA(frame *Frame, finalize bool) (stepOutcome, error) {
	for {
		if frame.IntFAState.IsFinal {
			frame.matched = true
			frame.matchState = frame.IntFAState
			frame.matchPos = s.pos0()
			frame.sinceMatch = frame.sinceMatch[:0]
		}
		if !s.hasByte() {
			if !finalize {
				return outcomeBlocked, nil
			}
			return s.closeIntFAFrame(frame, true)
		}
		ch := s.peekByte()
		next, ok := frame.IntFAState.Step(ch)
		if !ok {
			return s.closeIntFAFrame(frame, false)
		}
		s.consumeByte()
		frame.sinceMatch = append(frame.sinceMatch, ch)
		frame.IntFAState = next
	}
}

func (s *Session) closeIntFAFrame(frame *Frame, atEOF bool) (stepOutcome, error) {
	if !frame.matched {
		if atEOF {
			return outcomeContinue, &PrematureEOFError{OpenRules: []string{"<lexing>"}}
		}
		ch := s.peekByte()
		s.cb.errorChar(s, ch)
		return outcomeContinue, &UnknownTransitionError{Byte: ch, Offset: s.offset}
	}
	if len(frame.sinceMatch) > 0 {
		rewound := make([]byte, 0, len(frame.sinceMatch)+len(s.pushback))
		rewound = append(rewound, frame.sinceMatch...)
		rewound = append(rewound, s.pushback...)
		s.pushback = rewound
		s.offset = frame.matchPos.Byte
		s.line = frame.matchPos.Line
		s.column = frame.matchPos.Column
	}
	term := Terminal{
		Name:  frame.matchState.FinalName,
		Start: frame.StartPos,
		Len:   frame.matchPos.Byte - frame.StartPos.Byte,
	}
	s.stack.pop()
	if err := s.tokens.push(term); err != nil {
		return outcomeContinue, err
	}
	return outcomeContinue, nil
}

func (s *Session) pushIntFAFrame(fa *IntFA) (stepOutcome, error) {
	f := &Frame{
		Type:       FrameIntFA,
		StartPos:   s.pos0(),
		IntFA:      fa,
		IntFAState: fa.States[0],
	}
	if err := s.stack.push(f); err != nil {
		return outcomeContinue, err
	}
	return outcomeContinue, nil
}

// --- GLAFrame: lookahead mode ---

func (s *Session) stepGLA(frame *Frame, finalize bool) (stepOutcome, error) {
	if frame.GLAState.IsFinal {
		s.stack.pop()
		parent, ok := s.stack.top()
		if !ok || parent.Type != FrameRTN {
			return outcomeContinue, badGrammarf("gla final state reached with no parent rtn frame")
		}
		offset := frame.GLAState.TransitionOffset
		if offset < 1 || offset > len(parent.RTNState.Transitions) {
			return outcomeContinue, badGrammarf("gla transition offset %d out of range (have %d)", offset, len(parent.RTNState.Transitions))
		}
		return s.applyRTNTransition(parent, parent.RTNState.Transitions[offset-1])
	}

	if term, ok := s.tokens.at(frame.LookaheadPos); ok {
		next, ok := frame.GLAState.Step(term.Name, false)
		if !ok {
			s.cb.errorTerminal(s, term)
			return outcomeContinue, &UnexpectedTerminalError{Terminal: term}
		}
		frame.LookaheadPos++
		frame.GLAState = next
		return outcomeContinue, nil
	}

	if s.atTrueEOF(finalize) {
		next, ok := frame.GLAState.Step(eofTerminalName, true)
		if !ok {
			return outcomeContinue, &PrematureEOFError{OpenRules: []string{"<lookahead>"}}
		}
		frame.GLAState = next
		return outcomeContinue, nil
	}

	return s.pushIntFAFrame(frame.GLAState.IntFA)
}

// --- RTNFrame: rule mode ---

func (s *Session) stepRTN(frame *Frame) (stepOutcome, error) {
	st := frame.RTNState
	switch st.Lookahead {
	case LookaheadNone:
		return s.stepRTNNone(frame, st)
	case LookaheadIntFA:
		return s.stepRTNIntFA(frame, st)
	case LookaheadGLA:
		return s.stepRTNGLA(frame, st)
	default:
		return outcomeContinue, badGrammarf("rtn %q: unknown lookahead kind", frame.RTN.Name)
	}
}

func (s *Session) stepRTNNone(frame *Frame, st *RTNState) (stepOutcome, error) {
	if len(st.Transitions) == 0 {
		return s.popRTNFrame(frame)
	}
	tr := st.Transitions[0]
	if tr.Kind == TransitionNonterm {
		return s.applyRTNTransition(frame, tr)
	}
	term, ok := s.tokens.peek()
	if !ok {
		if st.StateIntFA == nil {
			return outcomeContinue, badGrammarf("rtn %q: terminal transition has no lexer intfa", frame.RTN.Name)
		}
		return s.pushIntFAFrame(st.StateIntFA)
	}
	matched, ok := st.ByTerminal(term.Name)
	if !ok || matched != tr {
		s.cb.errorTerminal(s, term)
		return outcomeContinue, &UnexpectedTerminalError{Terminal: term}
	}
	return s.applyRTNTransition(frame, tr)
}

func (s *Session) stepRTNIntFA(frame *Frame, st *RTNState) (stepOutcome, error) {
	term, ok := s.tokens.peek()
	if !ok {
		return s.pushIntFAFrame(st.StateIntFA)
	}
	tr, ok := st.SelectByLookahead(term.Name)
	if !ok {
		s.cb.errorTerminal(s, term)
		return outcomeContinue, &UnexpectedTerminalError{Terminal: term}
	}
	return s.applyRTNTransition(frame, tr)
}

func (s *Session) stepRTNGLA(frame *Frame, st *RTNState) (stepOutcome, error) {
	child := &Frame{
		Type:     FrameGLA,
		StartPos: s.pos0(),
		GLA:      st.StateGLA,
		GLAState: st.StateGLA.States[0],
	}
	if err := s.stack.push(child); err != nil {
		return outcomeContinue, err
	}
	return outcomeContinue, nil
}

// applyRTNTransition performs the state update for tr, whose terminal (if
// any) has already been confirmed against the token buffer's front. It
// covers both the STATE_HAS_NEITHER/HAS_INTFA direct-dispatch path and the
// HAS_GLA path once a GLA frame has resolved its transition offset.
func (s *Session) applyRTNTransition(frame *Frame, tr *RTNTransition) (stepOutcome, error) {
	if tr.Kind == TransitionNonterm {
		s.cb.willStartRule(s, tr.Nonterminal.Name)
		frame.LastTransition = tr
		child := &Frame{
			Type:          FrameRTN,
			StartPos:      s.pos0(),
			RTN:           tr.Nonterminal,
			RTNState:      tr.Nonterminal.States[0],
			viaTransition: tr,
		}
		if err := s.stack.push(child); err != nil {
			return outcomeContinue, err
		}
		s.cb.didStartRule(s, tr.Nonterminal.Name)
		return outcomeContinue, nil
	}

	term, _ := s.tokens.pop()
	s.openTerminalOffset = s.tokens.openOffset(s.offset)
	frame.RTNState = tr.Dest
	frame.LastTransition = tr
	s.cb.terminal(s, term)
	return outcomeContinue, nil
}

func (s *Session) popRTNFrame(frame *Frame) (stepOutcome, error) {
	name := ""
	if frame.RTN != nil {
		name = frame.RTN.Name
	}
	s.cb.willEndRule(s, name)
	s.stack.pop()
	s.cb.didEndRule(s, name)
	if frame.viaTransition != nil {
		if parent, ok := s.stack.top(); ok && parent.Type == FrameRTN {
			parent.RTNState = frame.viaTransition.Dest
		}
	}
	return outcomeContinue, nil
}
