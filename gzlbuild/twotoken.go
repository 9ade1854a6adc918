package gzlbuild

import "github.com/rurban/gazelle"

// TwoTokenLookahead builds a grammar too ambiguous for LookaheadNone or
// LookaheadIntFA to resolve: a "stmt" rule with two alternatives that
// both start with an "id" terminal and only diverge on their second
// token, colon versus arrow. Disambiguating requires the parent state's
// GLA to peek two terminals ahead before either alternative's real RTN
// transition ever runs, which is the scenario JSONLike deliberately
// avoids needing.
func TwoTokenLookahead() (*gazelle.Grammar, error) {
	b := New("stmt")
	buildStmtLexer(b)

	gla := b.GLA("stmtGLA")
	g0 := gla.State("stmtToken")
	g1 := gla.State("stmtToken")
	gColon := gla.FinalState(1)
	gArrow := gla.FinalState(2)
	gla.On(g0, "id", g1)
	gla.On(g1, "colon", gColon)
	gla.On(g1, "arrow", gArrow)

	stmt := b.RTN("stmt")
	s0 := stmt.State()
	labelColon := stmt.State()
	labelID := stmt.State()
	labelSemi := stmt.State()
	assignArrow := stmt.State()
	assignID := stmt.State()
	assignSemi := stmt.State()
	final := stmt.State()

	stmt.Final(final)
	stmt.GLALookahead(s0, "stmtGLA")
	// Both transitions out of s0 claim "id"; the GLA above already
	// consulted the second token before either one is taken.
	stmt.Terminal(s0, "id", labelColon, "target", 0)  // -> "x: y;"
	stmt.Terminal(s0, "id", assignArrow, "target", 0) // -> "x-> y;"

	stmt.SingleIntFA(labelColon, "stmtToken")
	stmt.Terminal(labelColon, "colon", labelID, "", 0)
	stmt.SingleIntFA(labelID, "stmtToken")
	stmt.Terminal(labelID, "id", labelSemi, "value", 0)
	stmt.SingleIntFA(labelSemi, "stmtToken")
	stmt.Terminal(labelSemi, "semi", final, "", 0)

	stmt.SingleIntFA(assignArrow, "stmtToken")
	stmt.Terminal(assignArrow, "arrow", assignID, "", 0)
	stmt.SingleIntFA(assignID, "stmtToken")
	stmt.Terminal(assignID, "id", assignSemi, "value", 0)
	stmt.SingleIntFA(assignSemi, "stmtToken")
	stmt.Terminal(assignSemi, "semi", final, "", 0)

	return b.Build()
}

// buildStmtLexer recognizes id, colon, arrow and semi, skipping leading
// whitespace via a self-loop the same way JSONLike's token lexer does.
func buildStmtLexer(b *Builder) {
	fa := b.IntFA("stmtToken")

	start := fa.State()
	colon := fa.State()
	semi := fa.State()
	arrowMid := fa.State()
	arrowFinal := fa.State()
	idFinal := fa.State()

	fa.Final(colon, "colon")
	fa.Final(semi, "semi")
	fa.Final(arrowFinal, "arrow")
	fa.Final(idFinal, "id")

	fa.Byte(start, ' ', start)
	fa.Byte(start, '\t', start)
	fa.Byte(start, '\n', start)
	fa.Byte(start, '\r', start)
	fa.Byte(start, ':', colon)
	fa.Byte(start, ';', semi)
	fa.Byte(start, '-', arrowMid)
	fa.Byte(arrowMid, '>', arrowFinal)

	fa.Range(start, 'a', 'z', idFinal)
	fa.Range(start, 'A', 'Z', idFinal)
	fa.Range(idFinal, 'a', 'z', idFinal)
	fa.Range(idFinal, 'A', 'Z', idFinal)
	fa.Range(idFinal, '0', '9', idFinal)
}
