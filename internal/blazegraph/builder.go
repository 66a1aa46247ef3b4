package blazegraph

import (
	"github.com/roach88/sparqb/internal/builder"
	"github.com/roach88/sparqb/internal/sparql"
)

// QueryBuilder builds Blazegraph queries. It wraps builder.QueryBuilder and
// redeclares its chaining methods so chains keep the vendor type.
type QueryBuilder struct {
	*builder.QueryBuilder
	queryID bool
	with    []*With
}

// NewQueryBuilder returns an empty top-level Blazegraph query builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{QueryBuilder: builder.NewQuery()}
}

// Prefix through Fail delegate to builder.QueryBuilder.

func (b *QueryBuilder) Prefix(prefix, ns string) *QueryBuilder {
	b.QueryBuilder.Prefix(prefix, ns)
	return b
}

func (b *QueryBuilder) Select(items ...any) *QueryBuilder {
	b.QueryBuilder.Select(items...)
	return b
}

func (b *QueryBuilder) Distinct() *QueryBuilder {
	b.QueryBuilder.Distinct()
	return b
}

func (b *QueryBuilder) Where(fn func(*builder.Patterns)) *QueryBuilder {
	b.QueryBuilder.Where(fn)
	return b
}

func (b *QueryBuilder) GroupBy(items ...any) *QueryBuilder {
	b.QueryBuilder.GroupBy(items...)
	return b
}

func (b *QueryBuilder) Having(expr any) *QueryBuilder {
	b.QueryBuilder.Having(expr)
	return b
}

func (b *QueryBuilder) OrderBy(items ...any) *QueryBuilder {
	b.QueryBuilder.OrderBy(items...)
	return b
}

func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.QueryBuilder.Limit(n)
	return b
}

func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.QueryBuilder.Offset(n)
	return b
}

func (b *QueryBuilder) Fail(err error) *QueryBuilder {
	b.QueryBuilder.Fail(err)
	return b
}

// QueryID appends the queryId hint. A query carries at most one id.
func (b *QueryBuilder) QueryID(id string) *QueryBuilder {
	if b.queryID {
		return b.Fail(sparql.NewNodeError(sparql.ErrCodeInvalid, "hint", "query id already set"))
	}
	b.queryID = true
	b.Patterns().Add(NewQueryID(id))
	return b
}

// ChunkSize appends the chunkSize hint.
func (b *QueryBuilder) ChunkSize(n int) *QueryBuilder {
	b.Patterns().Add(NewChunkSize(n))
	return b
}

// MaxParallel appends the maxParallel hint.
func (b *QueryBuilder) MaxParallel(n int) *QueryBuilder {
	b.Patterns().Add(NewMaxParallel(n))
	return b
}

// Optimizer appends the optimizer hint.
func (b *QueryBuilder) Optimizer(o Optimizer) *QueryBuilder {
	b.Patterns().Add(NewOptimizerHint(o))
	return b
}

// Search appends a full-text search binding variable to literals matching
// text. relevance is optional; pass "" to omit it.
func (b *QueryBuilder) Search(variable, text string, matchAll bool, relevance string) *QueryBuilder {
	v, err := sparql.NewVariable(variable)
	if err != nil {
		return b.Fail(err)
	}
	var rel *sparql.Variable
	if relevance != "" {
		if rel, err = sparql.NewVariable(relevance); err != nil {
			return b.Fail(err)
		}
	}
	b.Patterns().Add(NewSearch(v, text, matchAll, rel))
	return b
}

// Include appends INCLUDE %name.
func (b *QueryBuilder) Include(name string) *QueryBuilder {
	b.Patterns().Add(NewInclude(name))
	return b
}

// SolutionSet appends INCLUDE %name for a server-side solution set.
func (b *QueryBuilder) SolutionSet(name string) *QueryBuilder {
	b.Patterns().Add(NewSolutionSet(name))
	return b
}

// Subquery appends { select ... } built by a nested Blazegraph builder.
// Hints set inside fn apply to the subquery.
func (b *QueryBuilder) Subquery(fn func(*QueryBuilder)) *QueryBuilder {
	sub := &QueryBuilder{QueryBuilder: b.Patterns().NewSubquery()}
	if fn != nil {
		fn(sub)
	}
	q, err := sub.Build()
	if err != nil {
		return b.Fail(err)
	}
	b.Patterns().Add(sparql.NewGroup(q))
	return b
}

// With declares a named subquery WITH { ... } AS %name. Only the outermost
// builder accepts WITH blocks.
func (b *QueryBuilder) With(name string, fn func(*QueryBuilder)) *QueryBuilder {
	if b.Nested() {
		return b.Fail(sparql.NewNodeError(sparql.ErrCodeInvalid, "with", "WITH %%%s is only allowed on the outermost query", name))
	}
	sub := &QueryBuilder{QueryBuilder: b.Patterns().NewSubquery()}
	if fn != nil {
		fn(sub)
	}
	q, err := sub.Build()
	if err != nil {
		return b.Fail(err)
	}
	w, err := NewWith(name, q.Base())
	if err != nil {
		return b.Fail(err)
	}
	b.with = append(b.with, w)
	return b
}

// Build freezes the query and its WITH blocks.
func (b *QueryBuilder) Build() (*Query, error) {
	base, err := b.QueryBuilder.Build()
	if err != nil {
		return nil, err
	}
	q, err := NewQuery(base, b.with...)
	if err != nil {
		b.Fail(err)
		return nil, err
	}
	return q, nil
}
