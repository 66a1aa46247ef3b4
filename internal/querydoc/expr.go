package querydoc

import (
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/sparqb/internal/builder"
	"github.com/roach88/sparqb/internal/sparql"
)

// exprOps lists expression operators with the extra keys each accepts.
// Every operator also accepts "as".
var exprOps = map[string][]string{
	"var":      nil,
	"uri":      nil,
	"literal":  {"datatype"},
	"string":   nil,
	"func":     {"args"},
	"count":    nil,
	"desc":     nil,
	"asc":      nil,
	"bound":    nil,
	"and":      nil,
	"or":       nil,
	"not":      nil,
	"gt":       nil,
	"lt":       nil,
	"ge":       nil,
	"le":       nil,
	"eq":       nil,
	"ne":       nil,
	"distinct": nil,
	"in":       {"values"},
	"regex":    {"pattern"},
}

var comparisons = map[string]func(builder.Expr, any) builder.Expr{
	"gt": builder.Expr.Gt,
	"lt": builder.Expr.Lt,
	"ge": builder.Expr.Ge,
	"le": builder.Expr.Le,
	"eq": builder.Expr.Eq,
	"ne": builder.Expr.Ne,
}

// expr converts a document expression. Scalars pass through so the
// builder applies its own conversion rules for the clause they land in.
func (c *compilation) expr(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		x := c.exprMap(t)
		if err := x.Err(); err != nil {
			return nil, err
		}
		return x, nil
	case []any:
		return nil, fmt.Errorf("a list is not an expression")
	case nil:
		return nil, fmt.Errorf("expression is required")
	}
	return v, nil
}

func (c *compilation) exprs(vs []any) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		e, err := c.expr(v)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func errExpr(format string, args ...any) builder.Expr {
	return builder.Wrap[*sparql.Variable](nil, fmt.Errorf(format, args...))
}

func (c *compilation) exprMap(m map[string]any) builder.Expr {
	var op string
	for k := range m {
		if _, ok := exprOps[k]; ok {
			if op != "" {
				return errExpr("expression has two operators %q and %q", min(op, k), max(op, k))
			}
			op = k
		}
	}
	if op == "" {
		return errExpr("expression has no operator, keys %v", slices.Sorted(maps.Keys(m)))
	}
	for k := range m {
		if k != op && k != "as" && !slices.Contains(exprOps[op], k) {
			return errExpr("%s: unexpected key %q", op, k)
		}
	}

	x := c.operator(op, m)
	if x.Err() != nil {
		return errExpr("%s: %w", op, x.Err())
	}
	if alias, ok := m["as"]; ok {
		name, err := asString(alias)
		if err != nil {
			return errExpr("as: %w", err)
		}
		x = x.As(name)
	}
	return x
}

func (c *compilation) operator(op string, m map[string]any) builder.Expr {
	arg := m[op]
	switch op {
	case "var", "uri", "string", "bound":
		s, err := asString(arg)
		if err != nil {
			return errExpr("%w", err)
		}
		switch op {
		case "var":
			return builder.Var(s)
		case "uri":
			return builder.URI(s)
		case "string":
			return builder.Str(s)
		}
		return builder.Bound(s)
	case "literal":
		s, err := scalarText(arg)
		if err != nil {
			return errExpr("%w", err)
		}
		if dt, ok := m["datatype"]; ok {
			uri, err := asString(dt)
			if err != nil {
				return errExpr("datatype: %w", err)
			}
			return builder.TypedLit(s, uri)
		}
		return builder.Lit(s)
	case "func":
		name, err := asString(arg)
		if err != nil {
			return errExpr("%w", err)
		}
		var args []any
		if raw, ok := m["args"]; ok {
			list, err := asList(raw)
			if err != nil {
				return errExpr("args: %w", err)
			}
			if args, err = c.exprs(list); err != nil {
				return errExpr("args: %w", err)
			}
		}
		return builder.Func(name, args...)
	case "count", "desc", "asc", "not":
		e, err := c.expr(arg)
		if err != nil {
			return errExpr("%w", err)
		}
		switch op {
		case "count":
			return builder.Count(e)
		case "desc":
			return builder.Desc(e)
		case "asc":
			return builder.Asc(e)
		}
		return builder.Not(e)
	case "and", "or":
		items, err := c.operands(arg, 2, -1)
		if err != nil {
			return errExpr("%w", err)
		}
		x := builder.E(items[0])
		for _, next := range items[1:] {
			if op == "and" {
				x = x.And(next)
			} else {
				x = x.Or(next)
			}
		}
		return x
	case "gt", "lt", "ge", "le", "eq", "ne":
		items, err := c.operands(arg, 2, 2)
		if err != nil {
			return errExpr("%w", err)
		}
		return comparisons[op](builder.E(items[0]), items[1])
	case "distinct":
		items, err := c.operands(arg, 1, -1)
		if err != nil {
			return errExpr("%w", err)
		}
		return builder.Distinct(items...)
	case "in":
		probe, err := c.expr(arg)
		if err != nil {
			return errExpr("%w", err)
		}
		candidates, err := c.operands(m["values"], 1, -1)
		if err != nil {
			return errExpr("values: %w", err)
		}
		return builder.In(probe, candidates...)
	case "regex":
		e, err := c.expr(arg)
		if err != nil {
			return errExpr("%w", err)
		}
		pattern, err := asString(m["pattern"])
		if err != nil {
			return errExpr("pattern: %w", err)
		}
		return builder.Regex(e, pattern)
	}
	return errExpr("unknown operator %q", op)
}

// operands compiles a list of at least lo (and at most hi, if hi >= 0)
// expressions.
func (c *compilation) operands(v any, lo, hi int) ([]any, error) {
	list, err := asList(v)
	if err != nil {
		return nil, err
	}
	if len(list) < lo || (hi >= 0 && len(list) > hi) {
		if lo == hi {
			return nil, fmt.Errorf("want %d operands, got %d", lo, len(list))
		}
		return nil, fmt.Errorf("want at least %d operands, got %d", lo, len(list))
	}
	return c.exprs(list)
}
