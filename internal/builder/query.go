package builder

import (
	"strings"

	"github.com/roach88/sparqb/internal/sparql"
)

// QueryBuilder accumulates the parts of a SELECT query.
//
// A QueryBuilder is owned by one goroutine; it is not safe for concurrent
// use.
type QueryBuilder struct {
	st       *state
	where    *Patterns
	prefixes map[string]string
	selects  []sparql.Expression
	distinct bool
	groupBy  []sparql.Expression
	having   sparql.Expression
	orderBy  []sparql.Expression
	limit    *int
	offset   *int
	nested   bool
}

// NewQuery returns an empty top-level query builder.
func NewQuery() *QueryBuilder {
	st := &state{}
	return &QueryBuilder{
		st:       st,
		where:    &Patterns{st: st},
		prefixes: map[string]string{},
	}
}

// Nested reports whether b builds a subquery.
func (b *QueryBuilder) Nested() bool { return b.nested }

// Patterns returns the WHERE body accumulator.
func (b *QueryBuilder) Patterns() *Patterns { return b.where }

// Err returns the first recorded error.
func (b *QueryBuilder) Err() error { return b.st.err }

// Fail records err unless an earlier error is already recorded.
func (b *QueryBuilder) Fail(err error) *QueryBuilder {
	b.st.fail(err)
	return b
}

// Prefix declares PREFIX prefix: <ns>. A trailing ":" on prefix is ignored
// and a later declaration of the same prefix replaces the earlier one.
func (b *QueryBuilder) Prefix(prefix, ns string) *QueryBuilder {
	if b.nested {
		b.st.fail(sparql.NewNodeError(sparql.ErrCodeInvalid, "query", "PREFIX %s is only allowed on the outermost query", prefix))
		return b
	}
	b.prefixes[strings.TrimSuffix(prefix, ":")] = ns
	return b
}

// Select appends projection items. Strings are variables; Expr values may
// be aliases. No items at all means SELECT *.
func (b *QueryBuilder) Select(items ...any) *QueryBuilder {
	es, err := terms(items, variableTerm)
	if b.st.fail(err) {
		return b
	}
	b.selects = append(b.selects, es...)
	return b
}

// Distinct makes the projection DISTINCT.
func (b *QueryBuilder) Distinct() *QueryBuilder {
	b.distinct = true
	return b
}

// Where adds WHERE patterns. It may be called more than once; patterns
// accumulate in call order.
func (b *QueryBuilder) Where(fn func(*Patterns)) *QueryBuilder {
	if fn != nil {
		fn(b.where)
	}
	return b
}

// GroupBy appends GROUP BY items. At least one item is required.
func (b *QueryBuilder) GroupBy(items ...any) *QueryBuilder {
	if len(items) == 0 {
		b.st.fail(sparql.NewNodeError(sparql.ErrCodeEmpty, "query", "GROUP BY requires at least one item"))
		return b
	}
	es, err := terms(items, variableTerm)
	if b.st.fail(err) {
		return b
	}
	b.groupBy = append(b.groupBy, es...)
	return b
}

// Having sets the HAVING condition.
func (b *QueryBuilder) Having(expr any) *QueryBuilder {
	e, err := Term(expr)
	if b.st.fail(err) {
		return b
	}
	b.having = e
	return b
}

// OrderBy appends ORDER BY items. At least one item is required.
func (b *QueryBuilder) OrderBy(items ...any) *QueryBuilder {
	if len(items) == 0 {
		b.st.fail(sparql.NewNodeError(sparql.ErrCodeEmpty, "query", "ORDER BY requires at least one item"))
		return b
	}
	es, err := terms(items, variableTerm)
	if b.st.fail(err) {
		return b
	}
	b.orderBy = append(b.orderBy, es...)
	return b
}

// Limit sets LIMIT n.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.limit = &n
	return b
}

// Offset sets OFFSET n.
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.offset = &n
	return b
}

// Parts returns the accumulated query parts.
func (b *QueryBuilder) Parts() sparql.QueryParts {
	return sparql.QueryParts{
		Prefixes: b.prefixes,
		Select:   b.selects,
		Distinct: b.distinct,
		Where:    b.where.stmts,
		GroupBy:  b.groupBy,
		Having:   b.having,
		OrderBy:  b.orderBy,
		Limit:    b.limit,
		Offset:   b.offset,
	}
}

// Build freezes the accumulated parts. It returns the first error recorded
// anywhere in the builder tree, or the validation error of NewQuery.
func (b *QueryBuilder) Build() (*sparql.Query, error) {
	if b.st.err != nil {
		return nil, b.st.err
	}
	q, err := sparql.NewQuery(b.Parts())
	if b.st.fail(err) {
		return nil, err
	}
	return q, nil
}
