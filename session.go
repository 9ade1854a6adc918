package gazelle

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// Session is one resumable parse: a bound grammar, its callback vector, an
// opaque client cookie, and the mutable pushdown/lookahead machinery that
// advances as input arrives. It is the Go analogue of the C API's
// bound_grammar plus parse_state pair, folded into a single owned object.
//
// A Session must not be advanced from two goroutines at once; distinct
// Sessions are fully independent and may run concurrently.
type Session struct {
	id      uuid.UUID
	grammar *Grammar
	cb      Callbacks
	cookie  any
	logger  *slog.Logger

	offset             int
	line               int
	column             int
	openTerminalOffset int

	stack  *parseStack
	tokens *tokenBuffer
	limits ResourceLimits

	cancelled atomic.Bool
	finished  bool
	delivered int // cumulative bytes ever passed to Parse, across calls

	buf      []byte
	pos      int
	pushback []byte // bytes probed past a longest match, awaiting reuse
}

// NewSession creates a Session bound to g, pushes the initial RTN frame for
// g.Entry() at its start state, and arms the resource caps and callback
// vector. g may be shared across any number of Sessions.
func NewSession(g *Grammar, cb Callbacks, opts ...Option) *Session {
	cfg := newConfig(opts...)
	s := &Session{
		id:      uuid.New(),
		grammar: g,
		cb:      cb,
		cookie:  cfg.cookie,
		logger:  cfg.logger,
		line:    1,
		column:  1,
		limits:  cfg.limits,
		stack:   newParseStack(cfg.limits.MaxStackDepth),
		tokens:  newTokenBuffer(cfg.limits.MaxTokenBufferLen),
	}
	entry := g.Entry()
	// The entry frame has no parent transition to push it, but it still
	// fires the same WillStartRule/DidStartRule pair every other rule
	// does when entered, so a host sees a start event for every rule
	// including the root.
	cb.willStartRule(s, entry.Name)
	_ = s.stack.push(&Frame{
		Type:     FrameRTN,
		StartPos: Position{Byte: 0, Line: 1, Column: 1},
		RTN:      entry,
		RTNState: entry.States[0],
	})
	cb.didStartRule(s, entry.Name)
	return s
}

// ID returns the session's unique identifier, so concurrent sessions can
// be told apart. The session itself writes no log records.
func (s *Session) ID() uuid.UUID { return s.id }

// Cookie returns the opaque client value supplied via WithCookie, or nil.
func (s *Session) Cookie() any { return s.cookie }

// Offset returns the number of input bytes consumed so far.
func (s *Session) Offset() int { return s.offset }

// Line returns the current 1-based line number.
func (s *Session) Line() int { return s.line }

// Column returns the current 1-based column number.
func (s *Session) Column() int { return s.column }

// OpenTerminalOffset returns the earliest input byte that some still-
// pending terminal spans. Clients must not discard input before this
// offset if they intend to reference it later.
func (s *Session) OpenTerminalOffset() int { return s.openTerminalOffset }

// StackDepth returns the current parse-stack depth.
func (s *Session) StackDepth() int { return s.stack.depth() }

// FrameAt returns a copy of the stack frame fromTop levels down from the
// top (0 = top), or false if fromTop is out of range.
func (s *Session) FrameAt(fromTop int) (Frame, bool) {
	f, ok := s.stack.frameAt(fromTop)
	if !ok {
		return Frame{}, false
	}
	return *f, true
}

// Dup deep-copies the session's stack, token buffer, and position counters
// so speculative parsing can continue independently down two paths. The
// duplicate shares the immutable grammar and callback vector but gets a
// fresh ID; it is a new, independent session, not a snapshot tied to the
// original's lifetime.
func (s *Session) Dup() *Session {
	dup := &Session{
		id:                 uuid.New(),
		grammar:            s.grammar,
		cb:                 s.cb,
		cookie:             s.cookie,
		logger:             s.logger,
		offset:             s.offset,
		line:               s.line,
		column:             s.column,
		openTerminalOffset: s.openTerminalOffset,
		stack:              s.stack.clone(),
		tokens:             s.tokens.clone(),
		limits:             s.limits,
		finished:           s.finished,
		delivered:          s.delivered,
		pushback:           append([]byte(nil), s.pushback...),
	}
	return dup
}

// Close releases the session. Go's garbage collector owns memory
// reclamation, so this is a no-op-safe hook kept for symmetry with the
// alloc/init/dup/free lifecycle of the original C API; it is safe to call
// more than once and safe to skip entirely.
func (s *Session) Close() {}

// Cancel requests cooperative cancellation. The interpreter polls this
// flag between steps; once observed, Parse returns StatusCancelled and the
// session must not be resumed.
func (s *Session) Cancel() { s.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (s *Session) Cancelled() bool { return s.cancelled.Load() }

// Done reports whether the session has reached a point where its entry
// rule's frame has popped (Parse returned HardEOF from an empty stack) or
// Finish has succeeded. A done session ignores further Parse calls.
func (s *Session) Done() bool { return s.finished }
