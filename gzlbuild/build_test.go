package gzlbuild

import (
	"testing"

	"github.com/rurban/gazelle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLikeBuilds(t *testing.T) {
	g, err := JSONLike()
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, "value", g.Entry().Name)
	for _, name := range []string{"value", "object", "array"} {
		_, ok := g.RTNByName(name)
		assert.Truef(t, ok, "expected rule %q", name)
	}
	_, ok := g.RTNByName("token")
	assert.False(t, ok, "token is a lexer, not a rule")
}

func TestTwoTokenLookaheadBuilds(t *testing.T) {
	g, err := TwoTokenLookahead()
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, "stmt", g.Entry().Name)
	require.Len(t, g.GLAs, 1)

	start := g.Entry().States[0]
	assert.Equal(t, gazelle.LookaheadGLA, start.Lookahead)
	require.Len(t, start.Transitions, 2)
	assert.Equal(t, "id", start.Transitions[0].TerminalName)
	assert.Equal(t, "id", start.Transitions[1].TerminalName)
	assert.NotSame(t, start.Transitions[0].Dest, start.Transitions[1].Dest)
}

func TestBuildRejectsUnknownEntry(t *testing.T) {
	b := New("missing")
	rtn := b.RTN("present")
	s := rtn.State()
	rtn.Final(s)

	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuildRejectsOutOfRangeDest(t *testing.T) {
	b := New("r")
	rtn := b.RTN("r")
	s0 := rtn.State()
	rtn.Terminal(s0, "x", 99, "", 0)

	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuildRejectsUnknownRuleReference(t *testing.T) {
	b := New("r")
	rtn := b.RTN("r")
	s0 := rtn.State()
	s1 := rtn.State()
	rtn.Final(s1)
	rtn.Nonterm(s0, "nope", "", s1, "", 0)

	_, err := b.Build()
	assert.Error(t, err)
}
