package gazelle_test

import (
	"testing"

	"github.com/rurban/gazelle"
	"github.com/rurban/gazelle/gzlbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

func (r *recorder) callbacks() gazelle.Callbacks {
	return gazelle.Callbacks{
		OnWillStartRule: func(s *gazelle.Session, name string) { r.events = append(r.events, "will-start:"+name) },
		OnDidStartRule:  func(s *gazelle.Session, name string) { r.events = append(r.events, "did-start:"+name) },
		OnTerminal: func(s *gazelle.Session, term gazelle.Terminal) {
			r.events = append(r.events, "term:"+term.Name)
		},
		OnWillEndRule: func(s *gazelle.Session, name string) { r.events = append(r.events, "will-end:"+name) },
		OnDidEndRule:  func(s *gazelle.Session, name string) { r.events = append(r.events, "did-end:"+name) },
		OnErrorChar: func(s *gazelle.Session, ch byte) {
			r.events = append(r.events, "err-char")
		},
		OnErrorTerminal: func(s *gazelle.Session, term gazelle.Terminal) {
			r.events = append(r.events, "err-term:"+term.Name)
		},
	}
}

func jsonGrammar(t *testing.T) *gazelle.Grammar {
	t.Helper()
	g, err := gzlbuild.JSONLike()
	require.NoError(t, err)
	return g
}

// Scenario 1: "{}" produces a start/end event around each rule and
// exactly the two brace terminals, and finishes cleanly.
func TestScenarioEmptyObject(t *testing.T) {
	g := jsonGrammar(t)
	rec := &recorder{}
	s := gazelle.NewSession(g, rec.callbacks())

	status, err := s.Parse([]byte("{}"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)

	assert.Equal(t, []string{
		"will-start:value", "did-start:value",
		"will-start:object", "did-start:object",
		"term:lbrace",
		"term:rbrace",
		"will-end:object", "did-end:object",
		"will-end:value", "did-end:value",
	}, rec.events)

	assert.True(t, s.Finish())
}

// Scenario 2: array elements appear in order with array/value rule
// brackets around each one.
func TestScenarioArrayOfNumbers(t *testing.T) {
	g := jsonGrammar(t)
	rec := &recorder{}
	s := gazelle.NewSession(g, rec.callbacks())

	status, err := s.Parse([]byte("[1, 2, 3]"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)

	var terms []string
	for _, e := range rec.events {
		if len(e) > 5 && e[:5] == "term:" {
			terms = append(terms, e[5:])
		}
	}
	assert.Equal(t, []string{"lbracket", "number", "comma", "number", "comma", "number", "rbracket"}, terms)
	assert.True(t, s.Finish())
}

// Scenario 3: splitting the same input across multiple Parse calls
// produces the identical event stream as delivering it in one shot.
func TestScenarioChunkingEquivalence(t *testing.T) {
	whole := []byte(`{"a":1}`)
	chunks := [][]byte{[]byte(`{"a`), []byte(`":`), []byte(`1}`)}

	oneShot := &recorder{}
	s1 := gazelle.NewSession(jsonGrammar(t), oneShot.callbacks())
	_, err := s1.Parse(whole, true)
	require.NoError(t, err)
	require.True(t, s1.Finish())

	chunked := &recorder{}
	s2 := gazelle.NewSession(jsonGrammar(t), chunked.callbacks())
	for i, c := range chunks {
		_, err := s2.Parse(c, i == len(chunks)-1)
		require.NoError(t, err)
	}
	require.True(t, s2.Finish())

	assert.Equal(t, oneShot.events, chunked.events)
}

// Scenario 4: a missing value after a colon is a grammatical error at
// the following token, reported through OnErrorTerminal.
func TestScenarioMissingValueIsUnexpectedTerminal(t *testing.T) {
	g := jsonGrammar(t)
	rec := &recorder{}
	s := gazelle.NewSession(g, rec.callbacks())

	status, err := s.Parse([]byte(`{"a":}`), true)
	require.Error(t, err)
	assert.Equal(t, gazelle.StatusError, status)
	assert.Contains(t, rec.events, "err-term:rbrace")

	var target *gazelle.UnexpectedTerminalError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "rbrace", target.Terminal.Name)
}

// Scenario 5: a byte matching no token at all is a lexical error at
// offset zero, reported through OnErrorChar.
func TestScenarioUnknownByteAtStart(t *testing.T) {
	g := jsonGrammar(t)
	rec := &recorder{}
	s := gazelle.NewSession(g, rec.callbacks())

	status, err := s.Parse([]byte("@"), true)
	require.Error(t, err)
	assert.Equal(t, gazelle.StatusError, status)
	assert.Equal(t, 0, s.Offset())
	assert.Contains(t, rec.events, "err-char")

	var target *gazelle.UnknownTransitionError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, byte('@'), target.Byte)
}

// Scenario 6: once the entry rule accepts a single value, trailing
// input the grammar has no continuation for makes Finish report
// PrematureEof even though the accepted prefix parsed cleanly.
func TestScenarioTrailingInputIsPrematureEof(t *testing.T) {
	g := jsonGrammar(t)
	rec := &recorder{}
	s := gazelle.NewSession(g, rec.callbacks())

	status, err := s.Parse([]byte("1 2"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)
	assert.False(t, s.Finish())
}

// Boundary: an input that stops exactly at a legal endpoint with no
// trailing bytes finishes successfully.
func TestCompleteDocumentTrailingCheck(t *testing.T) {
	g := jsonGrammar(t)
	s := gazelle.NewSession(g, gazelle.Callbacks{})

	status, err := s.Parse([]byte("42"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)
	assert.True(t, s.Finish())
}

// Boundary: a keyword split by a chunk boundary ("tr" + "ue") is lexed as
// one terminal, because the in-progress lexer frame carries its state over
// to the next Parse call.
func TestLongestMatchAcrossChunkBoundary(t *testing.T) {
	g := jsonGrammar(t)
	rec := &recorder{}
	s := gazelle.NewSession(g, rec.callbacks())

	status, err := s.Parse([]byte("tr"), false)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusOK, status)

	status, err = s.Parse([]byte("ue"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)
	assert.Contains(t, rec.events, "term:true")
}

// Dup: advancing the original and a duplicate over the same remaining
// input reaches identical position and stack state. The two sessions
// share one callback vector by construction (Dup copies it verbatim),
// so this drives them independently rather than through one shared
// recorder, which would interleave both branches' events into one slice.
func TestDupThenAdvanceEquivalence(t *testing.T) {
	g := jsonGrammar(t)
	s := gazelle.NewSession(g, gazelle.Callbacks{})

	_, err := s.Parse([]byte(`{"a`), false)
	require.NoError(t, err)

	dup := s.Dup()

	rest := []byte(`":1}`)
	statusOrig, err := s.Parse(rest, true)
	require.NoError(t, err)
	statusDup, err := dup.Parse(rest, true)
	require.NoError(t, err)

	assert.Equal(t, statusOrig, statusDup)
	assert.Equal(t, s.Offset(), dup.Offset())
	assert.Equal(t, s.Line(), dup.Line())
	assert.Equal(t, s.Column(), dup.Column())
	assert.Equal(t, s.StackDepth(), dup.StackDepth())
	assert.Equal(t, s.Done(), dup.Done())
}

// Resource limits: exceeding the configured stack depth on deeply
// nested arrays is reported as ResourceLimitExceeded rather than an
// unbounded-growth panic or silent truncation.
func TestMaxStackDepthExceeded(t *testing.T) {
	g := jsonGrammar(t)
	s := gazelle.NewSession(g, gazelle.Callbacks{}, gazelle.WithMaxStackDepth(4))

	deepInput := "[[[[[1]]]]]"
	status, err := s.Parse([]byte(deepInput), true)
	require.Error(t, err)
	assert.Equal(t, gazelle.StatusResourceLimitExceeded, status)

	var target *gazelle.ResourceLimitError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "stack depth", target.Limit)
}

// Cancellation: a callback that cancels mid-parse is observed on the
// next step and the session must not be resumed afterward.
func TestCancelStopsAtNextStep(t *testing.T) {
	g := jsonGrammar(t)
	var s *gazelle.Session
	cb := gazelle.Callbacks{
		OnTerminal: func(sess *gazelle.Session, term gazelle.Terminal) {
			if term.Name == "comma" {
				s.Cancel()
			}
		},
	}
	s = gazelle.NewSession(g, cb)

	status, err := s.Parse([]byte("[1, 2, 3]"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusCancelled, status)
	assert.True(t, s.Cancelled())
}

// Two-token lookahead: alternatives sharing a first terminal are only
// disambiguated once the GLA sees the second token.
func TestGLADisambiguatesSecondToken(t *testing.T) {
	g, err := gzlbuild.TwoTokenLookahead()
	require.NoError(t, err)

	labelRec := &recorder{}
	s := gazelle.NewSession(g, labelRec.callbacks())
	status, err := s.Parse([]byte("x: y;"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)
	assert.Equal(t, []string{"id", "colon", "id", "semi"}, terminalsOf(labelRec.events))

	assignRec := &recorder{}
	s2 := gazelle.NewSession(g, assignRec.callbacks())
	status, err = s2.Parse([]byte("x-> y;"), true)
	require.NoError(t, err)
	assert.Equal(t, gazelle.StatusHardEOF, status)
	assert.Equal(t, []string{"id", "arrow", "id", "semi"}, terminalsOf(assignRec.events))
}

func terminalsOf(events []string) []string {
	var out []string
	for _, e := range events {
		if len(e) > 5 && e[:5] == "term:" {
			out = append(out, e[5:])
		}
	}
	return out
}
