// Package coordinate implements the relative-coordinate expression language
// used for marker positions.
//
// A position is an arithmetic expression over numeric literals and named
// anchor references, e.g. "header.bottom + 10" or "(top + bottom) / 2".
// The marker list stores positions as opaque strings; this package parses
// and evaluates them against a Resolver that supplies anchor values.
package coordinate

// TokenType represents the type of lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenNumber // 10, 3.5, -2 is lexed as minus then number
	TokenRef    // top, parent.bottom

	// Operators
	TokenPlus  // +
	TokenMinus // -
	TokenStar  // *
	TokenSlash // /

	// Delimiters
	TokenLParen // (
	TokenRParen // )
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenNumber:
		return "NUMBER"
	case TokenRef:
		return "REF"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	default:
		return "UNKNOWN"
	}
}

// Token is a single lexical token with its position in the input.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}
