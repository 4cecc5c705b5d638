package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	// Markers
	EOF Kind = iota
	Error

	// Identifiers
	BareIdentifier        // linalg.slice, dim
	PercentIdentifier     // %0, %view
	ExclamationIdentifier // !linalg.range, !linalg.view<?xf32>

	// Literals
	Integer // 42, -1
	String  // "text"
	IntType // i32

	// Punctuation
	LSquare // [
	RSquare // ]
	LBrace  // {
	RBrace  // }
	LParen  // (
	RParen  // )
	Colon   // :
	Comma   // ,
	Equal   // =
	Arrow   // ->

	// Keywords
	KwIndex
	KwTrue
	KwFalse
	KwF16
	KwF32
	KwF64
)

var kindNames = map[Kind]string{
	EOF:                   "end of input",
	Error:                 "error",
	BareIdentifier:        "identifier",
	PercentIdentifier:     "SSA value",
	ExclamationIdentifier: "dialect type",
	Integer:               "integer",
	String:                "string",
	IntType:               "integer type",
	LSquare:               "'['",
	RSquare:               "']'",
	LBrace:                "'{'",
	RBrace:                "'}'",
	LParen:                "'('",
	RParen:                "')'",
	Colon:                 "':'",
	Comma:                 "','",
	Equal:                 "'='",
	Arrow:                 "'->'",
	KwIndex:               "'index'",
	KwTrue:                "'true'",
	KwFalse:               "'false'",
	KwF16:                 "'f16'",
	KwF32:                 "'f32'",
	KwF64:                 "'f64'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"index": KwIndex,
	"true":  KwTrue,
	"false": KwFalse,
	"f16":   KwF16,
	"f32":   KwF32,
	"f64":   KwF64,
}

// Pos is a position in the source text. Line and Col are 1-based.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a lexed token. Spelling always points into the source text.
type Token struct {
	Kind     Kind
	Spelling string
	Pos      Pos
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsAny reports whether the token has any of the given kinds.
func (t Token) IsAny(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsNot reports whether the token has none of the given kinds.
func (t Token) IsNot(kinds ...Kind) bool { return !t.IsAny(kinds...) }

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwIndex && t.Kind <= KwF64
}

// IntegerValue decodes an integer token. The second result is false if the
// value does not fit in an int64.
func (t Token) IntegerValue() (int64, bool) {
	if t.Kind != Integer {
		return 0, false
	}
	v, err := strconv.ParseInt(t.Spelling, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IntTypeBitwidth returns the width of an iN token.
func (t Token) IntTypeBitwidth() (int, bool) {
	if t.Kind != IntType {
		return 0, false
	}
	w, err := strconv.Atoi(strings.TrimPrefix(t.Spelling, "i"))
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// StringValue removes the quotes of a string token and unescapes it.
func (t Token) StringValue() (string, error) {
	return strconv.Unquote(t.Spelling)
}

// EndPos returns the position just past the token, assuming it does not span
// lines (true for everything but string literals with escaped newlines).
func (t Token) EndPos() Pos {
	return Pos{Offset: t.Pos.Offset + len(t.Spelling), Line: t.Pos.Line, Col: t.Pos.Col + len(t.Spelling)}
}
