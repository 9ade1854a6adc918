package gazelle_test

import (
	"testing"

	"github.com/rurban/gazelle"
	"github.com/rurban/gazelle/gzlbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarEntryIsFirstRTN(t *testing.T) {
	g := jsonGrammar(t)
	assert.Same(t, g.RTNs[0], g.Entry())
}

func TestRTNByNameFindsAndMisses(t *testing.T) {
	g := jsonGrammar(t)

	rtn, ok := g.RTNByName("object")
	require.True(t, ok)
	assert.Equal(t, "object", rtn.Name)

	_, ok = g.RTNByName("no-such-rule")
	assert.False(t, ok)
}

func TestValidateGrammarAcceptsBuiltGrammars(t *testing.T) {
	g := jsonGrammar(t)
	assert.NoError(t, gazelle.ValidateGrammar(g))

	stmt, err := gzlbuild.TwoTokenLookahead()
	require.NoError(t, err)
	assert.NoError(t, gazelle.ValidateGrammar(stmt))
}

func TestValidateGrammarRejectsEmptyRTNSet(t *testing.T) {
	g := &gazelle.Grammar{}
	err := gazelle.ValidateGrammar(g)
	require.Error(t, err)

	var target *gazelle.BadGrammarError
	require.ErrorAs(t, err, &target)
}

func TestValidateGrammarRejectsDuplicateTerminalClaim(t *testing.T) {
	final := &gazelle.RTNState{IsFinal: true}
	dup := &gazelle.RTNState{
		Transitions: []*gazelle.RTNTransition{
			{Kind: gazelle.TransitionTerminal, TerminalName: "x", Dest: final},
			{Kind: gazelle.TransitionTerminal, TerminalName: "x", Dest: final},
		},
	}
	rtn := &gazelle.RTN{Name: "r", States: []*gazelle.RTNState{dup, final}}
	g := &gazelle.Grammar{Strings: []string{"x"}, RTNs: []*gazelle.RTN{rtn}}

	err := gazelle.ValidateGrammar(g)
	require.Error(t, err)
}

func TestValidateGrammarAllowsDuplicateTerminalUnderGLA(t *testing.T) {
	final := &gazelle.RTNState{IsFinal: true}
	glaFinal := &gazelle.GLAState{IsFinal: true, TransitionOffset: 1}
	gla := &gazelle.GLA{States: []*gazelle.GLAState{glaFinal}}
	shared := &gazelle.RTNState{
		Lookahead: gazelle.LookaheadGLA,
		StateGLA:  gla,
		Transitions: []*gazelle.RTNTransition{
			{Kind: gazelle.TransitionTerminal, TerminalName: "x", Dest: final},
			{Kind: gazelle.TransitionTerminal, TerminalName: "x", Dest: final},
		},
	}
	rtn := &gazelle.RTN{Name: "r", States: []*gazelle.RTNState{shared, final}}
	g := &gazelle.Grammar{Strings: []string{"x"}, RTNs: []*gazelle.RTN{rtn}}

	assert.NoError(t, gazelle.ValidateGrammar(g))
}

func TestValidateGrammarRejectsReservedGLAOffset(t *testing.T) {
	badFinal := &gazelle.GLAState{IsFinal: true, TransitionOffset: 0}
	gla := &gazelle.GLA{States: []*gazelle.GLAState{badFinal}}
	entryFinal := &gazelle.RTNState{IsFinal: true}
	entry := &gazelle.RTNState{Lookahead: gazelle.LookaheadGLA, StateGLA: gla}
	rtn := &gazelle.RTN{Name: "r", States: []*gazelle.RTNState{entry, entryFinal}}
	g := &gazelle.Grammar{RTNs: []*gazelle.RTN{rtn}}

	err := gazelle.ValidateGrammar(g)
	require.Error(t, err)
}
