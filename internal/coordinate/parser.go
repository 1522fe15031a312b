package coordinate

import (
	"fmt"
	"strconv"
)

// Parser parses coordinate tokens into an expression tree.
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
}

// NewParser creates a parser for the input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Prime the parser with two tokens
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a convenience wrapper returning the parsed expression for input.
func Parse(input string) (Expr, error) {
	return NewParser(input).Parse()
}

// Parse parses the input and returns the expression tree.
func (p *Parser) Parse() (Expr, error) {
	if p.current.Type == TokenEOF {
		return nil, fmt.Errorf("empty coordinate expression")
	}
	expr, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token %q at position %d", p.current.Literal, p.current.Pos)
	}
	return expr, nil
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

// parseSum parses addition and subtraction.
// sum = product { ("+" | "-") product }
func (p *Parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenPlus || p.current.Type == TokenMinus {
		op := p.current.Type
		p.nextToken()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// parseProduct parses multiplication and division.
// product = unary { ("*" | "/") unary }
func (p *Parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenStar || p.current.Type == TokenSlash {
		op := p.current.Type
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// parseUnary parses a leading minus, then a primary.
// unary = "-" unary | primary
func (p *Parser) parseUnary() (Expr, error) {
	if p.current.Type == TokenMinus {
		p.nextToken()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NegExpr{Expr: inner}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses a number, reference, or parenthesized expression.
func (p *Parser) parsePrimary() (Expr, error) {
	switch p.current.Type {
	case TokenNumber:
		value, err := strconv.ParseFloat(p.current.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", p.current.Literal, p.current.Pos)
		}
		p.nextToken()
		return &NumberExpr{Value: value}, nil

	case TokenRef:
		name := p.current.Literal
		p.nextToken()
		return &RefExpr{Name: name}, nil

	case TokenLParen:
		p.nextToken()
		expr, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.current.Type != TokenRParen {
			return nil, fmt.Errorf("missing closing parenthesis at position %d", p.current.Pos)
		}
		p.nextToken()
		return expr, nil

	case TokenIllegal:
		return nil, fmt.Errorf("illegal character %q at position %d", p.current.Literal, p.current.Pos)

	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", p.current.Literal, p.current.Pos)
	}
}
