package gazelle

import (
	"github.com/emirpasic/gods/v2/lists/arraylist"
)

// parseStack is the pushdown machine's own stack: a growable sequence of
// RTN/GLA/IntFA frames. It is backed by an arraylist rather than a plain
// slice so push/pop/resize share one amortized-growth implementation with
// the token buffer instead of each hand-rolling append/truncate logic.
type parseStack struct {
	frames   *arraylist.List[*Frame]
	maxDepth int
}

func newParseStack(maxDepth int) *parseStack {
	return &parseStack{frames: arraylist.New[*Frame](), maxDepth: maxDepth}
}

func (s *parseStack) push(f *Frame) error {
	if s.maxDepth > 0 && s.frames.Size() >= s.maxDepth {
		return &ResourceLimitError{Limit: "stack depth", Value: s.frames.Size() + 1, Max: s.maxDepth}
	}
	s.frames.Add(f)
	return nil
}

func (s *parseStack) pop() (*Frame, bool) {
	n := s.frames.Size()
	if n == 0 {
		return nil, false
	}
	f, _ := s.frames.Get(n - 1)
	s.frames.Remove(n - 1)
	return f, true
}

func (s *parseStack) top() (*Frame, bool) {
	n := s.frames.Size()
	if n == 0 {
		return nil, false
	}
	return s.frames.Get(n - 1)
}

func (s *parseStack) depth() int { return s.frames.Size() }

// frameAt returns the frame fromTop levels down from the top (0 = top).
func (s *parseStack) frameAt(fromTop int) (*Frame, bool) {
	n := s.frames.Size()
	idx := n - 1 - fromTop
	if idx < 0 || idx >= n {
		return nil, false
	}
	return s.frames.Get(idx)
}

// resizeTo truncates the stack down to depth frames, discarding frames
// above it. It is a no-op if the stack is already at or below depth.
func (s *parseStack) resizeTo(depth int) {
	for s.frames.Size() > depth {
		s.frames.Remove(s.frames.Size() - 1)
	}
}

// clone deep-copies the stack: each Frame is copied by value, with its
// owned sinceMatch buffer copied too so appending to one clone's
// in-progress lexer state can never reallocate into (or mutate) the
// other's backing array.
func (s *parseStack) clone() *parseStack {
	out := newParseStack(s.maxDepth)
	for _, f := range s.frames.Values() {
		cp := *f
		cp.sinceMatch = append([]byte(nil), f.sinceMatch...)
		out.frames.Add(&cp)
	}
	return out
}
