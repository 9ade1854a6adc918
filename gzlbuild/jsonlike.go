package gzlbuild

import "github.com/rurban/gazelle"

// JSONLike builds a small LL(1) grammar over JSON's surface syntax:
// value, object and array rules recognizing the terminals lbrace, rbrace,
// lbracket, rbracket, colon, comma, string, number, true, false and null.
// It needs nothing beyond LookaheadNone and LookaheadIntFA states, since
// one token of lookahead always disambiguates JSON, which keeps it useful
// as a baseline fixture distinct from the GLA-exercising grammar in
// TwoTokenLookahead.
func JSONLike() (*gazelle.Grammar, error) {
	b := New("value")
	buildTokenLexer(b)

	value := b.RTN("value")
	vStart := value.State()
	vFinal := value.State()
	value.Final(vFinal)
	value.IntFALookahead(vStart, "token")
	value.Nonterm(vStart, "object", "lbrace", vFinal, "", 0)
	value.Nonterm(vStart, "array", "lbracket", vFinal, "", 0)
	value.Terminal(vStart, "string", vFinal, "value", 0)
	value.Terminal(vStart, "number", vFinal, "value", 0)
	value.Terminal(vStart, "true", vFinal, "value", 0)
	value.Terminal(vStart, "false", vFinal, "value", 0)
	value.Terminal(vStart, "null", vFinal, "value", 0)

	object := b.RTN("object")
	oStart := object.State()   // expect '{'
	oMember := object.State()  // expect '}' or a key string
	oColon := object.State()   // expect ':'
	oValue := object.State()   // expect the member's value
	oAfter := object.State()   // expect ',' or '}'
	oFinal := object.State()
	object.Final(oFinal)
	object.SingleIntFA(oStart, "token")
	object.Terminal(oStart, "lbrace", oMember, "", 0)
	object.IntFALookahead(oMember, "token")
	object.Terminal(oMember, "rbrace", oFinal, "", 0)
	object.Terminal(oMember, "string", oColon, "key", 0)
	object.SingleIntFA(oColon, "token")
	object.Terminal(oColon, "colon", oValue, "", 0)
	object.Nonterm(oValue, "value", "", oAfter, "value", 0)
	object.IntFALookahead(oAfter, "token")
	object.Terminal(oAfter, "comma", oMember, "", 0)
	object.Terminal(oAfter, "rbrace", oFinal, "", 0)

	array := b.RTN("array")
	aStart := array.State()  // expect '['
	aMember := array.State() // expect ']' or an element
	aAfter := array.State()  // expect ',' or ']'
	aFinal := array.State()
	array.Final(aFinal)
	array.SingleIntFA(aStart, "token")
	array.Terminal(aStart, "lbracket", aMember, "", 0)
	array.IntFALookahead(aMember, "token")
	array.Terminal(aMember, "rbracket", aFinal, "", 0)
	for _, first := range []string{"lbrace", "lbracket", "string", "number", "true", "false", "null"} {
		array.Nonterm(aMember, "value", first, aAfter, "element", 0)
	}
	array.IntFALookahead(aAfter, "token")
	array.Terminal(aAfter, "comma", aMember, "", 0)
	array.Terminal(aAfter, "rbracket", aFinal, "", 0)

	return b.Build()
}

// buildTokenLexer wires the single shared IntFA every LookaheadIntFA and
// SingleIntFA state in JSONLike lexes with: it recognizes every JSON
// token and skips leading whitespace via a self-loop, so no rule needs a
// separate whitespace-skipping pass.
func buildTokenLexer(b *Builder) {
	fa := b.IntFA("token")

	start := fa.State()
	lbrace := fa.State()
	rbrace := fa.State()
	lbracket := fa.State()
	rbracket := fa.State()
	colon := fa.State()
	comma := fa.State()

	fa.Final(lbrace, "lbrace")
	fa.Final(rbrace, "rbrace")
	fa.Final(lbracket, "lbracket")
	fa.Final(rbracket, "rbracket")
	fa.Final(colon, "colon")
	fa.Final(comma, "comma")

	fa.Byte(start, ' ', start)
	fa.Byte(start, '\t', start)
	fa.Byte(start, '\n', start)
	fa.Byte(start, '\r', start)
	fa.Byte(start, '{', lbrace)
	fa.Byte(start, '}', rbrace)
	fa.Byte(start, '[', lbracket)
	fa.Byte(start, ']', rbracket)
	fa.Byte(start, ':', colon)
	fa.Byte(start, ',', comma)

	// "true"
	t1 := fa.State()
	t2 := fa.State()
	t3 := fa.State()
	tFinal := fa.State()
	fa.Final(tFinal, "true")
	fa.Byte(start, 't', t1)
	fa.Byte(t1, 'r', t2)
	fa.Byte(t2, 'u', t3)
	fa.Byte(t3, 'e', tFinal)

	// "false"
	f1 := fa.State()
	f2 := fa.State()
	f3 := fa.State()
	f4 := fa.State()
	fFinal := fa.State()
	fa.Final(fFinal, "false")
	fa.Byte(start, 'f', f1)
	fa.Byte(f1, 'a', f2)
	fa.Byte(f2, 'l', f3)
	fa.Byte(f3, 's', f4)
	fa.Byte(f4, 'e', fFinal)

	// "null"
	n1 := fa.State()
	n2 := fa.State()
	n3 := fa.State()
	nFinal := fa.State()
	fa.Final(nFinal, "null")
	fa.Byte(start, 'n', n1)
	fa.Byte(n1, 'u', n2)
	fa.Byte(n2, 'l', n3)
	fa.Byte(n3, 'l', nFinal)

	// strings: a leading quote, any run of non-quote non-backslash bytes
	// or backslash-escaped pairs, closed by a quote.
	strBody := fa.State()
	strEscape := fa.State()
	strDone := fa.State()
	fa.Final(strDone, "string")
	fa.Byte(start, '"', strBody)
	fa.Range(strBody, 0x00, 0x21, strBody)
	fa.Range(strBody, 0x23, 0x5B, strBody)
	fa.Range(strBody, 0x5D, 0xFF, strBody)
	fa.Byte(strBody, '\\', strEscape)
	fa.Range(strEscape, 0x00, 0xFF, strBody)
	fa.Byte(strBody, '"', strDone)

	// numbers: an optional leading '-', an integer part, an optional
	// '.'-led fractional part. No exponent support.
	numStart := fa.State() // after '-', a digit is required
	numInt := fa.State()
	numFracStart := fa.State() // after '.', a digit is required
	numFrac := fa.State()
	fa.Final(numInt, "number")
	fa.Final(numFrac, "number")
	fa.Byte(start, '-', numStart)
	fa.Range(start, '0', '9', numInt)
	fa.Range(numStart, '0', '9', numInt)
	fa.Range(numInt, '0', '9', numInt)
	fa.Byte(numInt, '.', numFracStart)
	fa.Range(numFracStart, '0', '9', numFrac)
	fa.Range(numFrac, '0', '9', numFrac)
}
