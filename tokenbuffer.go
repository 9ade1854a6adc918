package gazelle

import (
	"github.com/emirpasic/gods/v2/queues/arrayqueue"
)

// tokenBuffer holds terminals already lexed for lookahead but not yet
// consumed by an RTN transition. It is strictly FIFO: RTN transitions
// consume from the front, GLAs peek at it without removing anything, and
// IntFA frames append to the back.
type tokenBuffer struct {
	q      *arrayqueue.Queue[Terminal]
	maxLen int
}

func newTokenBuffer(maxLen int) *tokenBuffer {
	return &tokenBuffer{q: arrayqueue.New[Terminal](), maxLen: maxLen}
}

func (b *tokenBuffer) push(t Terminal) error {
	if b.maxLen > 0 && b.q.Size() >= b.maxLen {
		return &ResourceLimitError{Limit: "token buffer length", Value: b.q.Size() + 1, Max: b.maxLen}
	}
	b.q.Enqueue(t)
	return nil
}

func (b *tokenBuffer) pop() (Terminal, bool) { return b.q.Dequeue() }

func (b *tokenBuffer) peek() (Terminal, bool) { return b.q.Peek() }

// at returns the k-th buffered terminal from the front (0 = next to
// consume) without removing anything, for GLA lookahead that may need to
// examine several terminals ahead before committing to a transition.
func (b *tokenBuffer) at(k int) (Terminal, bool) {
	values := b.q.Values()
	if k < 0 || k >= len(values) {
		return Terminal{}, false
	}
	return values[k], true
}

func (b *tokenBuffer) len() int { return b.q.Size() }

func (b *tokenBuffer) empty() bool { return b.q.Empty() }

// openOffset returns the start offset of the oldest still-buffered
// terminal, or fallback if the buffer is empty.
func (b *tokenBuffer) openOffset(fallback int) int {
	if t, ok := b.q.Peek(); ok {
		return t.Start.Byte
	}
	return fallback
}

func (b *tokenBuffer) clone() *tokenBuffer {
	out := newTokenBuffer(b.maxLen)
	for _, t := range b.q.Values() {
		out.q.Enqueue(t)
	}
	return out
}
