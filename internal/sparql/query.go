package sparql

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/sparqb/internal/ir"
)

// QueryParts is the input to NewQuery. The zero value describes
// "select *\nWHERE{\n}\n".
type QueryParts struct {
	// Prefixes maps a prefix token ("tcga") to its namespace URI.
	Prefixes map[string]string

	// Select is the projection list; empty means SELECT *.
	Select []Expression

	// Distinct wraps the projection in a single DISTINCT expression.
	Distinct bool

	// Where is the WHERE body.
	Where []Statement

	GroupBy []Expression
	Having  Expression
	OrderBy []Expression

	// Limit and Offset are omitted when nil.
	Limit  *int
	Offset *int
}

// Query is a SELECT query. It is also a Statement, so a Query can be nested
// inside another query's WHERE body as a subquery.
type Query struct {
	block
	prefixes map[string]string
	selects  []Expression
	distinct bool
	groupBy  []Expression
	having   Expression
	orderBy  []Expression
	limit    *int
	offset   *int

	// projection is what the select section renders: selects, or a single
	// Distinct over them.
	projection []Expression
}

// NewQuery validates parts and freezes them into a Query.
func NewQuery(parts QueryParts) (*Query, error) {
	q := &Query{
		prefixes: make(map[string]string, len(parts.Prefixes)),
		distinct: parts.Distinct,
	}
	for token, ns := range parts.Prefixes {
		if strings.TrimSpace(token) == "" {
			return nil, emptyError("query", "prefix token is required")
		}
		if strings.TrimSpace(ns) == "" {
			return nil, emptyError("query", "namespace for prefix %q is required", token)
		}
		q.prefixes[token] = ns
	}

	for i, e := range parts.Select {
		if isNil(e) {
			return nil, emptyError("query", "select[%d] expression is required", i)
		}
	}
	q.selects = slices.Clone(parts.Select)
	q.projection = q.selects
	if q.distinct && len(q.selects) > 0 {
		d, err := NewDistinct(q.selects...)
		if err != nil {
			return nil, err
		}
		q.projection = []Expression{d}
	}

	b, err := newBlock("query", parts.Where)
	if err != nil {
		return nil, err
	}
	q.block = b

	if err := requireValues("query", "group_by", parts.GroupBy); err != nil {
		return nil, err
	}
	q.groupBy = slices.Clone(parts.GroupBy)

	if parts.Having != nil {
		if err := requireValue("query", "having", parts.Having); err != nil {
			return nil, err
		}
		q.having = parts.Having
	}

	if err := requireValues("query", "order_by", parts.OrderBy); err != nil {
		return nil, err
	}
	q.orderBy = slices.Clone(parts.OrderBy)

	if parts.Limit != nil {
		if *parts.Limit < 0 {
			return nil, NewNodeError(ErrCodeInvalid, "query", "limit must be non-negative, got %d", *parts.Limit)
		}
		n := *parts.Limit
		q.limit = &n
	}
	if parts.Offset != nil {
		if *parts.Offset < 0 {
			return nil, NewNodeError(ErrCodeInvalid, "query", "offset must be non-negative, got %d", *parts.Offset)
		}
		n := *parts.Offset
		q.offset = &n
	}
	return q, nil
}

// Prefixes returns a copy of the prefix table.
func (q *Query) Prefixes() map[string]string { return maps.Clone(q.prefixes) }

// Select returns the projection list; empty means SELECT *.
func (q *Query) Select() []Expression { return slices.Clone(q.selects) }

// Distinct reports whether the projection is DISTINCT.
func (q *Query) Distinct() bool { return q.distinct }

// GroupBy returns the GROUP BY expressions.
func (q *Query) GroupBy() []Expression { return slices.Clone(q.groupBy) }

// Having returns the HAVING condition, or nil.
func (q *Query) Having() Expression { return q.having }

// OrderBy returns the ORDER BY expressions.
func (q *Query) OrderBy() []Expression { return slices.Clone(q.orderBy) }

// Limit returns the LIMIT value and whether one is set.
func (q *Query) Limit() (int, bool) {
	if q.limit == nil {
		return 0, false
	}
	return *q.limit, true
}

// Offset returns the OFFSET value and whether one is set.
func (q *Query) Offset() (int, bool) {
	if q.offset == nil {
		return 0, false
	}
	return *q.offset, true
}

// Sections is a rendered query split into its clauses. String joins them in
// field order, which is the SPARQL clause order. Dialects that add a clause
// fill the corresponding field instead of re-rendering the query.
type Sections struct {
	Prefixes string
	Select   string
	With     string
	Where    string
	GroupBy  string
	Having   string
	OrderBy  string
	Limit    string
	Offset   string
}

func (s Sections) String() string {
	var sb strings.Builder
	for _, part := range []string{
		s.Prefixes, s.Select, s.With, s.Where, s.GroupBy, s.Having, s.OrderBy, s.Limit, s.Offset,
	} {
		sb.WriteString(part)
	}
	return sb.String()
}

// Sections renders every clause of the query. The With section is always
// empty; the base query has no WITH blocks.
func (q *Query) Sections(mode Mode) Sections {
	var s Sections

	var prefixes strings.Builder
	for _, token := range slices.Sorted(maps.Keys(q.prefixes)) {
		prefixes.WriteString("PREFIX " + token + ": <" + q.prefixes[token] + ">\n")
	}
	s.Prefixes = prefixes.String()

	switch {
	case len(q.projection) > 0:
		s.Select = "select " + joinSerialized(q.projection, mode, " ")
	case q.distinct:
		s.Select = "select DISTINCT *"
	default:
		s.Select = "select *"
	}

	var where strings.Builder
	for _, c := range q.children {
		where.WriteString(c.Serialize(mode))
	}
	s.Where = "\nWHERE{\n" + where.String() + "}\n"

	if len(q.groupBy) > 0 {
		s.GroupBy = "\nGROUP BY " + joinSerialized(q.groupBy, mode, " ")
	}
	if q.having != nil {
		s.Having = "\nHAVING " + q.having.Serialize(mode)
	}
	if len(q.orderBy) > 0 {
		s.OrderBy = "\nORDER BY " + joinSerialized(q.orderBy, mode, " ")
	}
	if q.limit != nil {
		s.Limit = " LIMIT " + strconv.Itoa(*q.limit) + "\n"
	}
	if q.offset != nil {
		s.Offset = " OFFSET " + strconv.Itoa(*q.offset) + "\n"
	}
	return s
}

func (q *Query) Serialize(mode Mode) string { return q.Sections(mode).String() }

// String renders the query in raw mode.
func (q *Query) String() string { return q.Serialize(ModeRaw) }

// KeyFields returns the key document of the query. Dialects that extend the
// query add their own fields before hashing it with ir.DomainQuery.
//
// The WHERE body and the projection, group-by and order-by lists enter the
// document as multisets.
func (q *Query) KeyFields() ir.IRObject {
	having := ""
	if q.having != nil {
		having = string(q.having.Key())
	}
	fields := ir.IRObject{
		"node":     ir.IRString("query"),
		"children": ir.KeySet(keysOf(q.children)),
		"select":   ir.KeySet(keysOf(q.selects)),
		"group_by": ir.KeySet(keysOf(q.groupBy)),
		"order_by": ir.KeySet(keysOf(q.orderBy)),
		"having":   ir.IRString(having),
		"distinct": ir.IRBool(q.distinct),
		"prefixes": ir.StringMap(q.prefixes),
	}
	if q.limit != nil {
		fields["limit"] = ir.IRInt(*q.limit)
	}
	if q.offset != nil {
		fields["offset"] = ir.IRInt(*q.offset)
	}
	return fields
}

func (q *Query) Key() ir.Key { return ir.MustKey(ir.DomainQuery, q.KeyFields()) }

func (*Query) statementNode() {}
