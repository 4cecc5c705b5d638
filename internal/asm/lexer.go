package asm

// Lexer splits textual IR into tokens. Whitespace and // comments are
// skipped. A dialect type keeps its angle-bracketed body in one token so the
// body can be interpreted by the type parser.
type Lexer struct {
	src  string
	off  int
	line int
	col  int
}

// NewLexer creates a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) pos() Pos {
	return Pos{Offset: l.off, Line: l.line, Col: l.col}
}

func (l *Lexer) peekByte(ahead int) byte {
	if l.off+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.off+ahead]
}

func (l *Lexer) advance() {
	if l.off >= len(l.src) {
		return
	}
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off++
}

func (l *Lexer) skipTrivia() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		case c == '/' && l.peekByte(1) == '/':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token. After the end of input it keeps returning EOF.
func (l *Lexer) Next() Token {
	l.skipTrivia()
	start := l.pos()
	if l.off >= len(l.src) {
		return Token{Kind: EOF, Pos: start}
	}

	c := l.src[l.off]
	switch {
	case c == '%':
		l.advance()
		if !l.scanWhile(isSuffixIDChar) {
			return l.errorToken(start)
		}
		return l.token(PercentIdentifier, start)
	case c == '!':
		return l.lexDialectType(start)
	case c == '"':
		return l.lexString(start)
	case isDigit(c) || (c == '-' && isDigit(l.peekByte(1))):
		l.advance()
		l.scanWhile(isDigit)
		return l.token(Integer, start)
	case c == '-' && l.peekByte(1) == '>':
		l.advance()
		l.advance()
		return l.token(Arrow, start)
	case isLetter(c) || c == '_':
		l.scanWhile(isBareIDChar)
		tok := l.token(BareIdentifier, start)
		if kw, ok := keywords[tok.Spelling]; ok {
			tok.Kind = kw
		} else if isIntTypeSpelling(tok.Spelling) {
			tok.Kind = IntType
		}
		return tok
	}

	var kind Kind
	switch c {
	case '[':
		kind = LSquare
	case ']':
		kind = RSquare
	case '{':
		kind = LBrace
	case '}':
		kind = RBrace
	case '(':
		kind = LParen
	case ')':
		kind = RParen
	case ':':
		kind = Colon
	case ',':
		kind = Comma
	case '=':
		kind = Equal
	default:
		l.advance()
		return l.errorToken(start)
	}
	l.advance()
	return l.token(kind, start)
}

// lexDialectType lexes '!' dialect-namespace ['<' body '>'] with nested
// angle brackets in the body.
func (l *Lexer) lexDialectType(start Pos) Token {
	l.advance()
	if !l.scanWhile(isBareIDChar) {
		return l.errorToken(start)
	}
	if l.peekByte(0) != '<' {
		return l.token(ExclamationIdentifier, start)
	}
	depth := 0
	for l.off < len(l.src) {
		c := l.src[l.off]
		l.advance()
		switch c {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return l.token(ExclamationIdentifier, start)
			}
		case '\n':
			return l.errorToken(start)
		}
	}
	return l.errorToken(start)
}

func (l *Lexer) lexString(start Pos) Token {
	l.advance()
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch c {
		case '"':
			l.advance()
			return l.token(String, start)
		case '\\':
			l.advance()
			l.advance()
		case '\n':
			return l.errorToken(start)
		default:
			l.advance()
		}
	}
	return l.errorToken(start)
}

func (l *Lexer) scanWhile(pred func(byte) bool) bool {
	n := 0
	for l.off < len(l.src) && pred(l.src[l.off]) {
		l.advance()
		n++
	}
	return n > 0
}

func (l *Lexer) token(kind Kind, start Pos) Token {
	return Token{Kind: kind, Spelling: l.src[start.Offset:l.off], Pos: start}
}

func (l *Lexer) errorToken(start Pos) Token {
	return Token{Kind: Error, Spelling: l.src[start.Offset:l.off], Pos: start}
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isBareIDChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '.' || c == '$'
}

func isSuffixIDChar(c byte) bool {
	return isBareIDChar(c) || c == '-'
}

func isIntTypeSpelling(s string) bool {
	if len(s) < 2 || s[0] != 'i' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
