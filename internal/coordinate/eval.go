package coordinate

import (
	"fmt"

	"github.com/zjrosen/markers/internal/log"
	"github.com/zjrosen/markers/internal/marker"
)

// Resolver supplies the value of a named anchor during evaluation.
// The registry never resolves coordinates itself; callers provide a
// resolver spanning whatever anchors exist in their layout context.
type Resolver interface {
	ResolveAnchor(name string) (float64, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (float64, error)

func (f ResolverFunc) ResolveAnchor(name string) (float64, error) {
	return f(name)
}

// Eval evaluates the expression against the resolver.
func Eval(e Expr, r Resolver) (float64, error) {
	switch v := e.(type) {
	case *NumberExpr:
		return v.Value, nil
	case *RefExpr:
		value, err := r.ResolveAnchor(v.Name)
		if err != nil {
			return 0, fmt.Errorf("resolving %q: %w", v.Name, err)
		}
		return value, nil
	case *NegExpr:
		inner, err := Eval(v.Expr, r)
		if err != nil {
			return 0, err
		}
		return -inner, nil
	case *BinaryExpr:
		left, err := Eval(v.Left, r)
		if err != nil {
			return 0, err
		}
		right, err := Eval(v.Right, r)
		if err != nil {
			return 0, err
		}
		switch v.Op {
		case TokenPlus:
			return left + right, nil
		case TokenMinus:
			return left - right, nil
		case TokenStar:
			return left * right, nil
		case TokenSlash:
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return left / right, nil
		default:
			return 0, fmt.Errorf("unknown operator %s", v.Op)
		}
	default:
		return 0, fmt.Errorf("unknown expression node %T", e)
	}
}

// EvalString parses and evaluates a position expression in one step.
func EvalString(position string, r Resolver) (float64, error) {
	expr, err := Parse(position)
	if err != nil {
		return 0, err
	}
	return Eval(expr, r)
}

// ListResolver resolves anchor names against a marker list, recursively
// evaluating each marker's own position expression. Names not present in
// the list fall through to Extern, so positions may reference anchors
// owned by a surrounding context (e.g. "parent.bottom").
//
// Reference cycles between markers are detected and reported as errors.
type ListResolver struct {
	List   *marker.List
	Extern Resolver

	resolving map[string]bool
}

// NewListResolver creates a resolver over the given list with an optional
// external fallback resolver.
func NewListResolver(list *marker.List, extern Resolver) *ListResolver {
	return &ListResolver{List: list, Extern: extern}
}

// ResolveAnchor implements Resolver.
func (r *ListResolver) ResolveAnchor(name string) (float64, error) {
	m, ok := r.List.ByName(name)
	if !ok {
		if r.Extern != nil {
			return r.Extern.ResolveAnchor(name)
		}
		return 0, fmt.Errorf("unknown anchor %q", name)
	}

	if r.resolving[name] {
		log.Warn(log.CatCoord, "Coordinate reference cycle", "anchor", name)
		return 0, fmt.Errorf("circular reference through %q", name)
	}
	if r.resolving == nil {
		r.resolving = make(map[string]bool)
	}
	r.resolving[name] = true
	defer delete(r.resolving, name)

	return EvalString(m.Position, r)
}
