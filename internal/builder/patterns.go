package builder

import (
	"github.com/roach88/sparqb/internal/sparql"
)

// state is the error slot shared by a builder and everything nested in it.
type state struct {
	err error
}

// fail records err if it is the first one. Reports whether err was non-nil.
func (s *state) fail(err error) bool {
	if err == nil {
		return false
	}
	if s.err == nil {
		s.err = err
	}
	return true
}

// Patterns accumulates the statements of one WHERE body or nested block.
type Patterns struct {
	st    *state
	stmts []sparql.Statement
}

func (p *Patterns) child() *Patterns { return &Patterns{st: p.st} }

// Statements returns the accumulated statements.
func (p *Patterns) Statements() []sparql.Statement {
	return append([]sparql.Statement(nil), p.stmts...)
}

// Len returns the number of accumulated statements.
func (p *Patterns) Len() int { return len(p.stmts) }

// Err returns the first error recorded by this builder tree.
func (p *Patterns) Err() error { return p.st.err }

// Fail records err unless an earlier error is already recorded.
func (p *Patterns) Fail(err error) *Patterns {
	p.st.fail(err)
	return p
}

// Add appends a constructed statement. It takes a constructor's results
// directly:
//
//	p.Add(blazegraph.NewInclude("cases"))
func (p *Patterns) Add(stmt sparql.Statement, err error) *Patterns {
	if p.st.fail(err) {
		return p
	}
	if stmt == nil {
		p.st.fail(sparql.NewNodeError(sparql.ErrCodeEmpty, "patterns", "statement is required"))
		return p
	}
	p.stmts = append(p.stmts, stmt)
	return p
}

// Axiom appends the triple pattern s p o. Subject and object follow the
// term conversion rules; the predicate is emitted verbatim.
func (p *Patterns) Axiom(s any, pred string, o any) *Patterns {
	subject, err := Term(s)
	if p.st.fail(err) {
		return p
	}
	object, err := Term(o)
	if p.st.fail(err) {
		return p
	}
	return p.Add(sparql.NewAxiom(subject, pred, object))
}

// Values appends an inline data block. Every row must have one cell per
// variable.
func (p *Patterns) Values(vars []string, rows ...[]any) *Patterns {
	converted := make([][]sparql.Expression, len(rows))
	for i, row := range rows {
		cells, err := terms(row, Term)
		if p.st.fail(err) {
			return p
		}
		converted[i] = cells
	}
	return p.Add(sparql.NewValues(vars, converted...))
}

// Bind appends BIND(expr AS ?name).
func (p *Patterns) Bind(expr any, name string) *Patterns {
	e, err := Term(expr)
	if p.st.fail(err) {
		return p
	}
	v, err := sparql.NewVariable(name)
	if p.st.fail(err) {
		return p
	}
	return p.Add(sparql.NewBind(e, v))
}

// Filter appends FILTER (expr).
func (p *Patterns) Filter(expr any) *Patterns {
	e, err := Term(expr)
	if p.st.fail(err) {
		return p
	}
	return p.Add(sparql.NewFilter(e))
}

// nested runs fn against a fresh child accumulator.
func (p *Patterns) nested(fn func(*Patterns)) []sparql.Statement {
	c := p.child()
	if fn != nil {
		fn(c)
	}
	return c.stmts
}

// Group appends a plain { ... } block.
func (p *Patterns) Group(fn func(*Patterns)) *Patterns {
	return p.Add(sparql.NewGroup(p.nested(fn)...))
}

// Optional appends OPTIONAL { ... }.
func (p *Patterns) Optional(fn func(*Patterns)) *Patterns {
	return p.Add(sparql.NewOptional(p.nested(fn)...))
}

// Union appends a UNION alternative. The block carries its own UNION
// keyword unless the previous statement in this body is also a Union.
func (p *Patterns) Union(fn func(*Patterns)) *Patterns {
	children := p.nested(fn)
	_, afterUnion := p.last().(*sparql.Union)
	return p.Add(sparql.NewUnion(!afterUnion, children...))
}

// Minus appends MINUS { ... }.
func (p *Patterns) Minus(fn func(*Patterns)) *Patterns {
	return p.Add(sparql.NewMinus(p.nested(fn)...))
}

// Service appends SERVICE <uri> { ... }.
func (p *Patterns) Service(uri string, fn func(*Patterns)) *Patterns {
	endpoint, err := sparql.NewURI(uri)
	if p.st.fail(err) {
		return p
	}
	return p.Add(sparql.NewService(endpoint, p.nested(fn)...))
}

// FilterExists appends FILTER EXISTS { ... }.
func (p *Patterns) FilterExists(fn func(*Patterns)) *Patterns {
	return p.Add(sparql.NewFilterExists(false, p.nested(fn)...))
}

// FilterNotExists appends FILTER NOT EXISTS { ... }.
func (p *Patterns) FilterNotExists(fn func(*Patterns)) *Patterns {
	return p.Add(sparql.NewFilterExists(true, p.nested(fn)...))
}

// Subquery appends { select ... } built by fn.
func (p *Patterns) Subquery(fn func(*QueryBuilder)) *Patterns {
	sub := p.NewSubquery()
	if fn != nil {
		fn(sub)
	}
	q, err := sub.Build()
	if p.st.fail(err) {
		return p
	}
	return p.Add(sparql.NewGroup(q))
}

// NewSubquery returns a query builder nested in p. It shares p's error
// slot and rejects PREFIX declarations. Dialect builders use it to build
// their own subqueries; the caller appends the result.
func (p *Patterns) NewSubquery() *QueryBuilder {
	return &QueryBuilder{
		st:       p.st,
		where:    p.child(),
		prefixes: map[string]string{},
		nested:   true,
	}
}

func (p *Patterns) last() sparql.Statement {
	if len(p.stmts) == 0 {
		return nil
	}
	return p.stmts[len(p.stmts)-1]
}
