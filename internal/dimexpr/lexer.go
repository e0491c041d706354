package dimexpr

// Lexer tokenizes dimension expressions.
type Lexer struct {
	input string
	pos   int  // position after ch
	ch    byte // current byte
}

// NewLexer creates a new lexer for the input string.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.pos}

	switch {
	case l.ch == 0:
		tok.Type = TokenEOF
		return tok
	case l.ch == '(':
		tok.Type, tok.Literal = TokenLParen, "("
	case l.ch == ')':
		tok.Type, tok.Literal = TokenRParen, ")"
	case l.ch == '*':
		tok.Type, tok.Literal = TokenMul, "*"
	case l.isMiddleDot():
		l.readChar()
		tok.Type, tok.Literal = TokenMul, "·"
	case l.ch == '/':
		tok.Type, tok.Literal = TokenDiv, "/"
	case l.ch == '^':
		tok.Type, tok.Literal = TokenPow, "^"
	case l.ch == '-':
		tok.Type, tok.Literal = TokenMinus, "-"
	case l.ch == '"' || l.ch == '\'':
		quote := l.ch
		lit, ok := l.readString(quote)
		tok.Type, tok.Literal = TokenString, lit
		if !ok {
			tok.Type, tok.Literal = TokenIllegal, string(quote)+lit
		}
		return tok
	case isDigit(l.ch):
		tok.Type, tok.Literal = TokenNumber, l.readNumber()
		return tok
	case isLetter(l.ch):
		tok.Type, tok.Literal = TokenIdent, l.readIdentifier()
		return tok
	default:
		tok.Type, tok.Literal = TokenIllegal, string(l.ch)
	}

	l.readChar()
	return tok
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

func (l *Lexer) peekChar() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// isMiddleDot reports whether the lexer is at U+00B7, the separator Format
// writes between factors.
func (l *Lexer) isMiddleDot() bool {
	return l.ch == 0xC2 && l.peekChar() == 0xB7
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readIdentifier reads letters, digits and underscores. Non-ASCII bytes
// count as letters so UTF-8 names pass through whole.
func (l *Lexer) readIdentifier() string {
	start := l.pos - 1
	for (isLetter(l.ch) || isDigit(l.ch)) && !l.isMiddleDot() {
		l.readChar()
	}
	return l.input[start : l.pos-1]
}

// readString reads a quoted name. ok is false if the closing quote is missing.
func (l *Lexer) readString(quote byte) (lit string, ok bool) {
	l.readChar()
	start := l.pos - 1
	for l.ch != quote && l.ch != 0 {
		l.readChar()
	}
	lit = l.input[start : l.pos-1]
	if l.ch != quote {
		return lit, false
	}
	l.readChar()
	return lit, true
}

func (l *Lexer) readNumber() string {
	start := l.pos - 1
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start : l.pos-1]
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
