package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(src string) []Token {
	l := NewLexer(src)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Is(EOF) || tok.Is(Error) {
			return toks
		}
	}
}

func kindsOf(toks []Token) []Kind {
	kinds := make([]Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestLexerSliceOp(t *testing.T) {
	toks := lexAll(`%1 = linalg.slice %v[%i] {dim = 0} : !linalg.view<?x?xf32>, index`)

	expected := []Kind{
		PercentIdentifier, Equal, BareIdentifier, PercentIdentifier,
		LSquare, PercentIdentifier, RSquare,
		LBrace, BareIdentifier, Equal, Integer, RBrace,
		Colon, ExclamationIdentifier, Comma, KwIndex, EOF,
	}
	assert.Equal(t, expected, kindsOf(toks))
	assert.Equal(t, "linalg.slice", toks[2].Spelling)
	assert.Equal(t, "!linalg.view<?x?xf32>", toks[13].Spelling)
}

func TestLexerLiteralsAndKeywords(t *testing.T) {
	tests := []struct {
		src      string
		kind     Kind
		spelling string
	}{
		{"42", Integer, "42"},
		{"-7", Integer, "-7"},
		{"->", Arrow, "->"},
		{"i32", IntType, "i32"},
		{"i", BareIdentifier, "i"},
		{"index", KwIndex, "index"},
		{"f16", KwF16, "f16"},
		{"f32", KwF32, "f32"},
		{"f64", KwF64, "f64"},
		{"true", KwTrue, "true"},
		{"false", KwFalse, "false"},
		{"!linalg.range", ExclamationIdentifier, "!linalg.range"},
		{`"a\"b"`, String, `"a\"b"`},
		{"%view_1.x-y", PercentIdentifier, "%view_1.x-y"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tok := NewLexer(tt.src).Next()
			assert.Equal(t, tt.kind, tok.Kind)
			assert.Equal(t, tt.spelling, tok.Spelling)
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bare percent", "% x"},
		{"unknown character", "@"},
		{"unterminated string", `"abc`},
		{"newline in string", "\"a\nb\""},
		{"unterminated dialect type", "!linalg.view<?xf32"},
		{"bare exclamation", "!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewLexer(tt.src).Next()
			assert.Equal(t, Error, tok.Kind)
		})
	}
}

func TestLexerSkipsCommentsAndTracksPositions(t *testing.T) {
	toks := lexAll("// header\n  %a // trailing\n\t%b")
	require.Len(t, toks, 3)

	assert.Equal(t, Pos{Offset: 12, Line: 2, Col: 3}, toks[0].Pos)
	assert.Equal(t, 3, toks[1].Pos.Line)
	assert.Equal(t, 2, toks[1].Pos.Col)
	assert.Equal(t, EOF, toks[2].Kind)
}

func TestLexerEOFIsSticky(t *testing.T) {
	l := NewLexer("")
	assert.Equal(t, EOF, l.Next().Kind)
	assert.Equal(t, EOF, l.Next().Kind)
}

func TestTokenHelpers(t *testing.T) {
	v, ok := NewLexer("-12").Next().IntegerValue()
	require.True(t, ok)
	assert.Equal(t, int64(-12), v)

	_, ok = NewLexer("99999999999999999999").Next().IntegerValue()
	assert.False(t, ok, "overflow must be reported")

	w, ok := NewLexer("i16").Next().IntTypeBitwidth()
	require.True(t, ok)
	assert.Equal(t, 16, w)

	_, ok = NewLexer("i0").Next().IntTypeBitwidth()
	assert.False(t, ok)

	s, err := NewLexer(`"a\tb"`).Next().StringValue()
	require.NoError(t, err)
	assert.Equal(t, "a\tb", s)

	tok := NewLexer("index").Next()
	assert.True(t, tok.IsKeyword())
	assert.True(t, tok.IsAny(KwF32, KwIndex))
	assert.True(t, tok.IsNot(BareIdentifier))
	assert.Equal(t, Pos{Offset: 5, Line: 1, Col: 6}, tok.EndPos())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "']'", RSquare.String())
	assert.Equal(t, "end of input", EOF.String())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}
