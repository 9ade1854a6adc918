package gazelle

// Callbacks is the event-dispatch contract between the interpreter and a
// host. Every field is optional; a nil callback is treated as a no-op.
// This is the Go analogue of the C API's bound_grammar callback vector —
// a record of optional function values rather than a subclass overriding
// virtual methods.
type Callbacks struct {
	// OnWillStartRule fires before a child RTN frame's start state is
	// inspected. name is the RTN being entered.
	OnWillStartRule func(s *Session, name string)
	// OnDidStartRule fires immediately after the child frame's start
	// state has been set.
	OnDidStartRule func(s *Session, name string)
	// OnTerminal fires when a terminal is consumed by an RTN
	// transition (never merely when it is lexed into the buffer for
	// lookahead).
	OnTerminal func(s *Session, term Terminal)
	// OnWillEndRule fires before a completed RTN frame is popped.
	OnWillEndRule func(s *Session, name string)
	// OnDidEndRule fires immediately after the frame is popped.
	OnDidEndRule func(s *Session, name string)
	// OnErrorChar fires when the lexer hits a byte with no outgoing
	// transition and no memoized final state.
	OnErrorChar func(s *Session, ch byte)
	// OnErrorTerminal fires when an RTN or GLA has no transition for
	// the observed terminal.
	OnErrorTerminal func(s *Session, term Terminal)
}

func (cb Callbacks) willStartRule(s *Session, name string) {
	if cb.OnWillStartRule != nil {
		cb.OnWillStartRule(s, name)
	}
}

func (cb Callbacks) didStartRule(s *Session, name string) {
	if cb.OnDidStartRule != nil {
		cb.OnDidStartRule(s, name)
	}
}

func (cb Callbacks) terminal(s *Session, term Terminal) {
	if cb.OnTerminal != nil {
		cb.OnTerminal(s, term)
	}
}

func (cb Callbacks) willEndRule(s *Session, name string) {
	if cb.OnWillEndRule != nil {
		cb.OnWillEndRule(s, name)
	}
}

func (cb Callbacks) didEndRule(s *Session, name string) {
	if cb.OnDidEndRule != nil {
		cb.OnDidEndRule(s, name)
	}
}

func (cb Callbacks) errorChar(s *Session, ch byte) {
	if cb.OnErrorChar != nil {
		cb.OnErrorChar(s, ch)
	}
}

func (cb Callbacks) errorTerminal(s *Session, term Terminal) {
	if cb.OnErrorTerminal != nil {
		cb.OnErrorTerminal(s, term)
	}
}
