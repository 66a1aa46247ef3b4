package builder

import (
	"github.com/roach88/sparqb/internal/sparql"
)

// Expr is an expression under construction. It carries either a node or the
// error that prevented building it, so combinators chain without error
// checks; the error surfaces when the Expr reaches a builder.
type Expr struct {
	node sparql.Expression
	err  error
}

// Wrap turns a constructor result into an Expr.
func Wrap[E sparql.Expression](e E, err error) Expr {
	if err != nil {
		return Expr{err: err}
	}
	return Expr{node: e}
}

// E converts a value using the term rules.
func E(v any) Expr {
	e, err := Term(v)
	return Expr{node: e, err: err}
}

// Node returns the built expression or the first error.
func (x Expr) Node() (sparql.Expression, error) {
	if x.err != nil {
		return nil, x.err
	}
	if x.node == nil {
		return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "expr", "expression is required")
	}
	return x.node, nil
}

// Err returns the deferred error, if any.
func (x Expr) Err() error { return x.err }

// String renders the expression, or "<error: ...>".
func (x Expr) String() string {
	n, err := x.Node()
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	return n.String()
}

func binary(op func(a, b sparql.Expression) (*sparql.BinaryOp, error), a, b any) Expr {
	left, err := Term(a)
	if err != nil {
		return Expr{err: err}
	}
	right, err := Term(b)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(op(left, right))
}

// And returns (x && other).
func (x Expr) And(other any) Expr { return binary(sparql.And, x, other) }

// Or returns (x || other).
func (x Expr) Or(other any) Expr { return binary(sparql.Or, x, other) }

// Gt returns (x > other).
func (x Expr) Gt(other any) Expr { return binary(sparql.Gt, x, other) }

// Lt returns (x < other).
func (x Expr) Lt(other any) Expr { return binary(sparql.Lt, x, other) }

// Ge returns (x >= other).
func (x Expr) Ge(other any) Expr { return binary(sparql.Ge, x, other) }

// Le returns (x <= other).
func (x Expr) Le(other any) Expr { return binary(sparql.Le, x, other) }

// Eq returns (x = other).
func (x Expr) Eq(other any) Expr { return binary(sparql.Eq, x, other) }

// Ne returns (x != other).
func (x Expr) Ne(other any) Expr { return binary(sparql.Ne, x, other) }

// Not returns !x.
func (x Expr) Not() Expr { return Not(x) }

// As aliases x to a variable for use in a SELECT list.
func (x Expr) As(name string) Expr { return As(x, name) }

// Var returns a variable.
func Var(name string) Expr { return Wrap(sparql.NewVariable(name)) }

// URI returns a URI, failing on malformed input.
func URI(uri string) Expr { return Wrap(sparql.NewURI(uri)) }

// Lit returns a raw literal token.
func Lit(value string) Expr { return Wrap(sparql.NewLiteral(value)) }

// TypedLit returns value^^datatype.
func TypedLit(value, datatype string) Expr {
	dt, err := sparql.NewURI(datatype)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.NewTypedLiteral(value, dt))
}

// Str returns a quoted string literal.
func Str(s string) Expr { return Expr{node: sparql.NewStringLiteral(s)} }

// Star returns the * wildcard.
func Star() Expr { return Expr{node: sparql.NewStar()} }

// Not returns !x.
func Not(x any) Expr {
	e, err := Term(x)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.Not(e))
}

// Func returns name(args...).
func Func(name string, args ...any) Expr {
	es, err := terms(args, Term)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.NewFunction(name, es...))
}

// Count returns COUNT(arg).
func Count(arg any) Expr { return Func("COUNT", arg) }

// Desc returns DESC(arg).
func Desc(arg any) Expr { return Func("DESC", variableOr(arg)) }

// Asc returns ASC(arg).
func Asc(arg any) Expr { return Func("ASC", variableOr(arg)) }

// Bound returns BOUND(?name).
func Bound(name string) Expr {
	v, err := sparql.NewVariable(name)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.Bound(v))
}

// Distinct returns DISTINCT items...; string items are variables.
func Distinct(items ...any) Expr {
	es, err := terms(items, variableTerm)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.NewDistinct(es...))
}

// As returns (expr AS ?name).
func As(expr any, name string) Expr {
	e, err := Term(expr)
	if err != nil {
		return Expr{err: err}
	}
	v, err := sparql.NewVariable(name)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.NewAs(e, v))
}

// In returns probe IN (candidates...).
func In(probe any, candidates ...any) Expr {
	p, err := Term(probe)
	if err != nil {
		return Expr{err: err}
	}
	cs, err := terms(candidates, Term)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.NewInSet(p, cs...))
}

// Regex returns regex(str(expr), "pattern", "i").
func Regex(expr any, pattern string) Expr {
	e, err := Term(expr)
	if err != nil {
		return Expr{err: err}
	}
	return Wrap(sparql.NewRegex(e, pattern))
}

// variableOr makes a bare string argument a variable, so Desc("n") means
// DESC(?n) even when "n" would parse as something else.
func variableOr(v any) any {
	if s, ok := v.(string); ok {
		return Var(s)
	}
	return v
}
