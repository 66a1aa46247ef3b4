package blazegraph

import (
	"strings"

	"github.com/roach88/sparqb/internal/ir"
	"github.com/roach88/sparqb/internal/sparql"
)

// Query is a SELECT query with Blazegraph WITH blocks.
//
// It renders the base query's sections with the With section filled in, and
// its key is the base key document plus the multiset of WITH block keys.
// Without WITH blocks a Query renders and keys exactly like its base.
type Query struct {
	*sparql.Query
	with []*With
}

// NewQuery attaches WITH blocks to base. Block names must be unique.
func NewQuery(base *sparql.Query, with ...*With) (*Query, error) {
	if base == nil {
		return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "query", "base query is required")
	}
	seen := make(map[string]bool, len(with))
	for i, w := range with {
		if w == nil {
			return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "query", "with[%d] is nil", i)
		}
		if seen[w.name] {
			return nil, sparql.NewNodeError(sparql.ErrCodeInvalid, "query", "duplicate WITH block %%%s", w.name)
		}
		seen[w.name] = true
	}
	return &Query{Query: base, with: append([]*With(nil), with...)}, nil
}

// With returns the WITH blocks in declaration order.
func (q *Query) With() []*With { return append([]*With(nil), q.with...) }

// Base returns the query without its WITH blocks.
func (q *Query) Base() *sparql.Query { return q.Query }

// QueryID returns the value of the top-level queryId hint, if any.
func (q *Query) QueryID() (string, bool) {
	for _, stmt := range q.Children() {
		if h, ok := stmt.(*Hint); ok && h.name == HintQueryID {
			return h.value, true
		}
	}
	return "", false
}

// Sections renders the base sections with WITH blocks filled in.
func (q *Query) Sections(mode sparql.Mode) sparql.Sections {
	s := q.Query.Sections(mode)
	var with strings.Builder
	for _, w := range q.with {
		with.WriteString(w.Serialize(mode))
	}
	s.With = with.String()
	return s
}

func (q *Query) Serialize(mode sparql.Mode) string { return q.Sections(mode).String() }

// String renders the query in raw mode.
func (q *Query) String() string { return q.Serialize(sparql.ModeRaw) }

// KeyFields returns the base key document plus the WITH block keys.
func (q *Query) KeyFields() ir.IRObject {
	fields := q.Query.KeyFields()
	if len(q.with) > 0 {
		keys := make([]ir.Key, len(q.with))
		for i, w := range q.with {
			keys[i] = w.Key()
		}
		fields["with"] = ir.KeySet(keys)
	}
	return fields
}

func (q *Query) Key() ir.Key { return ir.MustKey(ir.DomainQuery, q.KeyFields()) }
