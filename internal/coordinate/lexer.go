package coordinate

// Lexer tokenizes a coordinate expression.
type Lexer struct {
	input string
	pos   int  // current position in input
	ch    byte // current character under examination
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
	case l.ch == '+':
		tok.Type = TokenPlus
		tok.Literal = "+"
	case l.ch == '-':
		tok.Type = TokenMinus
		tok.Literal = "-"
	case l.ch == '*':
		tok.Type = TokenStar
		tok.Literal = "*"
	case l.ch == '/':
		tok.Type = TokenSlash
		tok.Literal = "/"
	case l.ch == '(':
		tok.Type = TokenLParen
		tok.Literal = "("
	case l.ch == ')':
		tok.Type = TokenRParen
		tok.Literal = ")"
	case l.ch == 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		return tok
	case isLetter(l.ch):
		tok.Type = TokenRef
		tok.Literal = l.readReference()
		return tok
	case isDigit(l.ch):
		tok.Type = TokenNumber
		tok.Literal = l.readNumber()
		return tok
	default:
		tok.Type = TokenIllegal
		tok.Literal = string(l.ch)
	}

	l.readChar()
	return tok
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readReference reads a dotted anchor reference: ident("." ident)*.
// A dot not followed by an identifier character is not part of the
// reference, so "a." lexes as "a" and leaves the dot as an illegal token.
func (l *Lexer) readReference() string {
	start := l.pos - 1
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	for l.ch == '.' && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.readChar()
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.segment(start)
}

// peek returns the character after the current one without advancing.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// readNumber reads an integer or decimal literal.
func (l *Lexer) readNumber() string {
	start := l.pos - 1
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.segment(start)
}

// segment returns input text from start up to the current character.
func (l *Lexer) segment(start int) string {
	end := l.pos - 1
	if l.ch == 0 {
		end = len(l.input)
	}
	return l.input[start:end]
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
