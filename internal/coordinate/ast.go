package coordinate

import (
	"fmt"
	"strconv"
)

// Expr is the interface for expression nodes.
type Expr interface {
	expr()

	// String renders the canonical text form of the expression.
	String() string
}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	Value float64
}

func (n *NumberExpr) expr() {}

func (n *NumberExpr) String() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// RefExpr is a named anchor reference such as "top" or "parent.bottom".
type RefExpr struct {
	Name string
}

func (r *RefExpr) expr() {}

func (r *RefExpr) String() string {
	return r.Name
}

// BinaryExpr is "left op right" for + - * /.
type BinaryExpr struct {
	Left  Expr
	Op    TokenType
	Right Expr
}

func (b *BinaryExpr) expr() {}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", parenthesize(b.Left, b.Op, false), b.Op, parenthesize(b.Right, b.Op, true))
}

// NegExpr is unary minus.
type NegExpr struct {
	Expr Expr
}

func (n *NegExpr) expr() {}

func (n *NegExpr) String() string {
	if inner, ok := n.Expr.(*BinaryExpr); ok {
		return fmt.Sprintf("-(%s)", inner)
	}
	return fmt.Sprintf("-%s", n.Expr)
}

// parenthesize wraps a child in parentheses when its precedence is lower
// than the parent operator's, keeping String output unambiguous.
func parenthesize(child Expr, parentOp TokenType, rightSide bool) string {
	b, ok := child.(*BinaryExpr)
	if !ok {
		return child.String()
	}
	cp, pp := precedence(b.Op), precedence(parentOp)
	if cp < pp || (cp == pp && rightSide && (parentOp == TokenMinus || parentOp == TokenSlash)) {
		return fmt.Sprintf("(%s)", b)
	}
	return b.String()
}

func precedence(op TokenType) int {
	switch op {
	case TokenStar, TokenSlash:
		return 2
	case TokenPlus, TokenMinus:
		return 1
	default:
		return 0
	}
}

// References returns the distinct anchor names the expression depends on,
// in first-appearance order.
func References(e Expr) []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *RefExpr:
			if _, ok := seen[v.Name]; !ok {
				seen[v.Name] = struct{}{}
				out = append(out, v.Name)
			}
		case *BinaryExpr:
			walk(v.Left)
			walk(v.Right)
		case *NegExpr:
			walk(v.Expr)
		}
	}
	walk(e)
	return out
}
