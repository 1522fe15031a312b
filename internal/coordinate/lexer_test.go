package coordinate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(input string) []Token {
	l := NewLexer(input)
	var out []Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == TokenEOF || tok.Type == TokenIllegal {
			return out
		}
	}
}

func TestLexer_Operators(t *testing.T) {
	toks := lexAll("+ - * / ( )")
	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []TokenType{
		TokenPlus, TokenMinus, TokenStar, TokenSlash,
		TokenLParen, TokenRParen, TokenEOF,
	}, types)
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10", "10"},
		{"3.5", "3.5"},
		{"0", "0"},
		{"200 ", "200"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexAll(tt.input)
			require.Equal(t, TokenNumber, toks[0].Type)
			require.Equal(t, tt.want, toks[0].Literal)
			require.Equal(t, TokenEOF, toks[1].Type)
		})
	}
}

func TestLexer_References(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"top", "top"},
		{"parent.bottom", "parent.bottom"},
		{"a.b.c", "a.b.c"},
		{"snake_case2", "snake_case2"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexAll(tt.input)
			require.Equal(t, TokenRef, toks[0].Type)
			require.Equal(t, tt.want, toks[0].Literal)
			require.Equal(t, TokenEOF, toks[1].Type)
		})
	}
}

func TestLexer_Expression(t *testing.T) {
	toks := lexAll("header.bottom + 10")
	require.Len(t, toks, 4)
	require.Equal(t, TokenRef, toks[0].Type)
	require.Equal(t, "header.bottom", toks[0].Literal)
	require.Equal(t, TokenPlus, toks[1].Type)
	require.Equal(t, TokenNumber, toks[2].Type)
	require.Equal(t, "10", toks[2].Literal)
	require.Equal(t, TokenEOF, toks[3].Type)
}

func TestLexer_TrailingDot(t *testing.T) {
	// A dot must introduce another segment; "a." is the reference "a"
	// followed by a stray dot.
	toks := lexAll("a.")
	require.Equal(t, TokenRef, toks[0].Type)
	require.Equal(t, "a", toks[0].Literal)
	require.Equal(t, TokenIllegal, toks[1].Type)
	require.Equal(t, ".", toks[1].Literal)
}

func TestLexer_Illegal(t *testing.T) {
	toks := lexAll("top % 2")
	require.Equal(t, TokenRef, toks[0].Type)
	require.Equal(t, TokenIllegal, toks[1].Type)
	require.Equal(t, "%", toks[1].Literal)
}
