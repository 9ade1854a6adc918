package gazelle_test

import (
	"testing"

	"github.com/rurban/gazelle"
	"github.com/rurban/gazelle/gzlbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionHasUniqueIDAndCookie(t *testing.T) {
	g := jsonGrammar(t)
	s1 := gazelle.NewSession(g, gazelle.Callbacks{}, gazelle.WithCookie("first"))
	s2 := gazelle.NewSession(g, gazelle.Callbacks{}, gazelle.WithCookie("second"))

	assert.NotEqual(t, s1.ID(), s2.ID())
	assert.Equal(t, "first", s1.Cookie())
	assert.Equal(t, "second", s2.Cookie())
}

func TestSessionStartsAtLineOne(t *testing.T) {
	g := jsonGrammar(t)
	s := gazelle.NewSession(g, gazelle.Callbacks{})
	assert.Equal(t, 1, s.Line())
	assert.Equal(t, 1, s.Column())
	assert.Equal(t, 0, s.Offset())
	assert.Equal(t, 1, s.StackDepth())
}

func TestFrameAtReportsEntryFrame(t *testing.T) {
	g := jsonGrammar(t)
	s := gazelle.NewSession(g, gazelle.Callbacks{})

	f, ok := s.FrameAt(0)
	require.True(t, ok)
	assert.Equal(t, gazelle.FrameRTN, f.Type)
	assert.Equal(t, "value", f.RTN.Name)

	_, ok = s.FrameAt(1)
	assert.False(t, ok)
}

func TestDoneAfterHardEOF(t *testing.T) {
	g := jsonGrammar(t)
	s := gazelle.NewSession(g, gazelle.Callbacks{})

	assert.False(t, s.Done())
	status, err := s.Parse([]byte("null"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)
	assert.True(t, s.Done())

	// A done session ignores further Parse calls rather than erroring.
	status, err = s.Parse([]byte("garbage"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)
}

func TestMultipleSessionsAreIndependent(t *testing.T) {
	g := jsonGrammar(t)
	s1 := gazelle.NewSession(g, gazelle.Callbacks{})
	s2 := gazelle.NewSession(g, gazelle.Callbacks{})

	_, err := s1.Parse([]byte("[1"), false)
	require.NoError(t, err)

	assert.NotEqual(t, s1.Offset(), s2.Offset())
	assert.NotEqual(t, s1.StackDepth(), s2.StackDepth())
}

func TestTwoTokenLookaheadGrammarIsIndependentOfJSONLike(t *testing.T) {
	stmtGrammar, err := gzlbuild.TwoTokenLookahead()
	require.NoError(t, err)
	jsonG := jsonGrammar(t)

	assert.NotEqual(t, stmtGrammar.Entry().Name, jsonG.Entry().Name)
}
