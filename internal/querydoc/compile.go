package querydoc

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/roach88/sparqb/internal/blazegraph"
	"github.com/roach88/sparqb/internal/builder"
	"github.com/roach88/sparqb/internal/ir"
	"github.com/roach88/sparqb/internal/sparql"
)

// IDGenerator supplies generated query ids.
type IDGenerator interface {
	NewID() string
}

type uuidIDs struct{}

func (uuidIDs) NewID() string { return uuid.NewString() }

// Compiler turns documents into queries. A Compiler is safe for concurrent
// use when its IDGenerator is.
type Compiler struct {
	// IDs generates "auto" query ids. Defaults to random UUIDs.
	IDs IDGenerator

	// Dialect applies to documents that do not name one.
	Dialect Dialect

	// Prefixes are declared on every outermost query. Document prefixes
	// with the same token win.
	Prefixes map[string]string
}

// Compiled is a compiled document.
type Compiled struct {
	Name    string
	Dialect Dialect

	// Query is *sparql.Query or *blazegraph.Query.
	Query sparql.Node

	// Base is the standard query underneath Query.
	Base *sparql.Query

	// QueryID is the Blazegraph query id, if any.
	QueryID string
}

// SPARQL returns the query text.
func (c *Compiled) SPARQL() string { return c.Query.Serialize(sparql.ModeRaw) }

// Key returns the structural key of the query.
func (c *Compiled) Key() ir.Key { return c.Query.Key() }

// Validate reports portability warnings for the compiled query.
func (c *Compiled) Validate() sparql.ValidationResult { return sparql.Validate(c.Base) }

// compilation holds the state of one Compile call.
type compilation struct {
	*Compiler
	dialect Dialect
	errPath string
}

// Compile builds the query described by doc.
func (c *Compiler) Compile(doc *Document) (*Compiled, error) {
	if doc == nil {
		return nil, &CompileError{Err: sparql.NewNodeError(sparql.ErrCodeEmpty, "document", "document is required")}
	}
	name := doc.Dialect
	if name == "" {
		name = string(c.Dialect)
	}
	dialect, err := ParseDialect(name)
	if err != nil {
		return nil, &CompileError{Path: "dialect", Err: err}
	}
	run := &compilation{Compiler: c, dialect: dialect}

	out := &Compiled{Name: doc.Name, Dialect: dialect}
	if dialect == DialectBlazegraph {
		q, err := run.blazegraph(doc)
		if err != nil {
			return nil, run.wrap(err)
		}
		out.Query, out.Base = q, q.Base()
		out.QueryID, _ = q.QueryID()
		return out, nil
	}

	if len(doc.With) > 0 {
		return nil, &CompileError{Path: "with", Err: errDialect}
	}
	qb := builder.NewQuery()
	run.query(qb, doc, "", true)
	q, err := qb.Build()
	if err != nil {
		return nil, run.wrap(err)
	}
	out.Query, out.Base = q, q
	return out, nil
}

func (c *compilation) wrap(err error) error {
	if ce, ok := err.(*CompileError); ok {
		return ce
	}
	return &CompileError{Path: c.errPath, Err: err}
}

func (c *compilation) blazegraph(doc *Document) (*blazegraph.Query, error) {
	bq := blazegraph.NewQueryBuilder()
	c.query(bq.QueryBuilder, doc, "", true)
	for i, nq := range doc.With {
		path := fmt.Sprintf("with[%d]", i)
		c.track(bq.Err, path, func() {
			if len(nq.Query.With) > 0 {
				bq.Fail(sparql.NewNodeError(sparql.ErrCodeInvalid, "with", "WITH blocks cannot be nested"))
				return
			}
			bq.With(nq.Name, func(sub *blazegraph.QueryBuilder) {
				c.query(sub.QueryBuilder, &nq.Query, path+".query", false)
			})
		})
	}
	return bq.Build()
}

// track runs fn and records path as the error location when fn is the
// first to fail.
func (c *compilation) track(errOf func() error, path string, fn func()) {
	if errOf() != nil {
		return
	}
	fn()
	if errOf() != nil && c.errPath == "" {
		c.errPath = path
	}
}

func (c *compilation) fail(qb *builder.QueryBuilder, path string, err error) {
	c.track(qb.Err, path, func() { qb.Fail(err) })
}

// query fills qb from doc. Hints become the first WHERE patterns.
func (c *compilation) query(qb *builder.QueryBuilder, doc *Document, path string, top bool) {
	if !top && doc.Dialect != "" {
		c.fail(qb, join(path, "dialect"), sparql.NewNodeError(sparql.ErrCodeInvalid, "query", "dialect is only allowed on the outermost query"))
		return
	}

	prefixes := map[string]string{}
	if top {
		maps.Copy(prefixes, c.Prefixes)
	}
	maps.Copy(prefixes, doc.Prefixes)
	for _, token := range slices.Sorted(maps.Keys(prefixes)) {
		c.track(qb.Err, join(path, "prefixes."+token), func() { qb.Prefix(token, prefixes[token]) })
	}

	for i, item := range doc.Select {
		c.track(qb.Err, join(path, fmt.Sprintf("select[%d]", i)), func() {
			e, err := c.expr(item)
			if err != nil {
				qb.Fail(err)
				return
			}
			qb.Select(e)
		})
	}
	if doc.Distinct {
		qb.Distinct()
	}

	if doc.Hints != nil {
		c.track(qb.Err, join(path, "hints"), func() { c.hints(qb.Patterns(), doc.Hints) })
	}
	qb.Where(func(p *builder.Patterns) {
		c.patterns(p, join(path, "where"), doc.Where)
	})

	if len(doc.GroupBy) > 0 {
		c.track(qb.Err, join(path, "group_by"), func() {
			items, err := c.exprs(doc.GroupBy)
			if err != nil {
				qb.Fail(err)
				return
			}
			qb.GroupBy(items...)
		})
	}
	if doc.Having != nil {
		c.track(qb.Err, join(path, "having"), func() {
			e, err := c.expr(doc.Having)
			if err != nil {
				qb.Fail(err)
				return
			}
			qb.Having(e)
		})
	}
	if len(doc.OrderBy) > 0 {
		c.track(qb.Err, join(path, "order_by"), func() {
			items, err := c.exprs(doc.OrderBy)
			if err != nil {
				qb.Fail(err)
				return
			}
			qb.OrderBy(items...)
		})
	}
	if doc.Limit != nil {
		qb.Limit(*doc.Limit)
	}
	if doc.Offset != nil {
		qb.Offset(*doc.Offset)
	}
	// Limit/offset range errors come from Build; attribute them here.
	if c.errPath == "" && qb.Err() == nil {
		switch {
		case doc.Limit != nil && *doc.Limit < 0:
			c.errPath = join(path, "limit")
		case doc.Offset != nil && *doc.Offset < 0:
			c.errPath = join(path, "offset")
		}
	}
}

func (c *compilation) hints(p *builder.Patterns, h *Hints) {
	if c.dialect != DialectBlazegraph {
		p.Fail(errDialect)
		return
	}
	if h.QueryID != "" {
		id := h.QueryID
		if id == AutoQueryID {
			ids := c.IDs
			if ids == nil {
				ids = uuidIDs{}
			}
			id = ids.NewID()
		}
		p.Add(blazegraph.NewQueryID(id))
	}
	if h.ChunkSize != 0 {
		p.Add(blazegraph.NewChunkSize(h.ChunkSize))
	}
	if h.MaxParallel != 0 {
		p.Add(blazegraph.NewMaxParallel(h.MaxParallel))
	}
	if h.Optimizer != "" {
		o, err := blazegraph.ParseOptimizer(h.Optimizer)
		if err != nil {
			p.Fail(err)
			return
		}
		p.Add(blazegraph.NewOptimizerHint(o))
	}
}

func (c *compilation) patterns(p *builder.Patterns, path string, items []any) {
	for i, item := range items {
		c.pattern(p, fmt.Sprintf("%s[%d]", path, i), item)
	}
}

func (c *compilation) nested(path string, v any) (func(*builder.Patterns), error) {
	items, err := asList(v)
	if err != nil {
		return nil, err
	}
	return func(p *builder.Patterns) { c.patterns(p, path, items) }, nil
}

// pattern appends one pattern object: a map with exactly one key.
func (c *compilation) pattern(p *builder.Patterns, path string, v any) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		c.track(p.Err, path, func() {
			p.Fail(fmt.Errorf("pattern must be a map with exactly one key, got %s", describe(v)))
		})
		return
	}
	for kind, arg := range m {
		path := path + "." + kind
		c.track(p.Err, path, func() {
			if err := c.addPattern(p, path, kind, arg); err != nil {
				p.Fail(err)
			}
		})
	}
}

func (c *compilation) addPattern(p *builder.Patterns, path, kind string, arg any) error {
	switch kind {
	case "axiom":
		items, err := asList(arg)
		if err != nil {
			return err
		}
		if len(items) != 3 {
			return fmt.Errorf("axiom needs [subject, predicate, object], got %d items", len(items))
		}
		s, err := c.expr(items[0])
		if err != nil {
			return fmt.Errorf("subject: %w", err)
		}
		pred, err := asString(items[1])
		if err != nil {
			return fmt.Errorf("predicate: %w", err)
		}
		o, err := c.expr(items[2])
		if err != nil {
			return fmt.Errorf("object: %w", err)
		}
		p.Axiom(s, pred, o)
	case "values":
		return c.values(p, arg)
	case "bind":
		m, err := fields(arg, "expr", "as")
		if err != nil {
			return err
		}
		e, err := c.expr(m["expr"])
		if err != nil {
			return fmt.Errorf("expr: %w", err)
		}
		name, err := asString(m["as"])
		if err != nil {
			return fmt.Errorf("as: %w", err)
		}
		p.Bind(e, name)
	case "filter":
		e, err := c.expr(arg)
		if err != nil {
			return err
		}
		p.Filter(e)
	case "group", "optional", "union", "minus", "exists", "not_exists":
		fn, err := c.nested(path, arg)
		if err != nil {
			return err
		}
		block := map[string]func(func(*builder.Patterns)) *builder.Patterns{
			"group":      p.Group,
			"optional":   p.Optional,
			"union":      p.Union,
			"minus":      p.Minus,
			"exists":     p.FilterExists,
			"not_exists": p.FilterNotExists,
		}[kind]
		block(fn)
	case "service":
		m, err := fields(arg, "uri", "where")
		if err != nil {
			return err
		}
		uri, err := asString(m["uri"])
		if err != nil {
			return fmt.Errorf("uri: %w", err)
		}
		fn, err := c.nested(path+".where", m["where"])
		if err != nil {
			return fmt.Errorf("where: %w", err)
		}
		p.Service(uri, fn)
	case "subquery":
		doc, err := decodeDocument(arg)
		if err != nil {
			return err
		}
		if len(doc.With) > 0 {
			return sparql.NewNodeError(sparql.ErrCodeInvalid, "with", "WITH is only allowed on the outermost query")
		}
		p.Subquery(func(sub *builder.QueryBuilder) { c.query(sub, doc, path, false) })
	case "search":
		if c.dialect != DialectBlazegraph {
			return errDialect
		}
		return c.search(p, arg)
	case "include", "solution_set":
		if c.dialect != DialectBlazegraph {
			return errDialect
		}
		name, err := asString(arg)
		if err != nil {
			return err
		}
		if kind == "include" {
			p.Add(blazegraph.NewInclude(name))
		} else {
			p.Add(blazegraph.NewSolutionSet(name))
		}
	default:
		return fmt.Errorf("unknown pattern %q", kind)
	}
	return nil
}

func (c *compilation) values(p *builder.Patterns, arg any) error {
	m, err := fields(arg, "vars", "rows")
	if err != nil {
		return err
	}
	rawVars, err := asList(m["vars"])
	if err != nil {
		return fmt.Errorf("vars: %w", err)
	}
	vars := make([]string, len(rawVars))
	for i, v := range rawVars {
		if vars[i], err = asString(v); err != nil {
			return fmt.Errorf("vars[%d]: %w", i, err)
		}
	}
	var rows [][]any
	if m["rows"] != nil {
		rawRows, err := asList(m["rows"])
		if err != nil {
			return fmt.Errorf("rows: %w", err)
		}
		for i, r := range rawRows {
			cells, err := asList(r)
			if err != nil {
				return fmt.Errorf("rows[%d]: %w", i, err)
			}
			row, err := c.exprs(cells)
			if err != nil {
				return fmt.Errorf("rows[%d]: %w", i, err)
			}
			rows = append(rows, row)
		}
	}
	p.Values(vars, rows...)
	return nil
}

func (c *compilation) search(p *builder.Patterns, arg any) error {
	m, err := fields(arg, "var", "text", "match_all", "relevance")
	if err != nil {
		return err
	}
	name, err := asString(m["var"])
	if err != nil {
		return fmt.Errorf("var: %w", err)
	}
	text, err := asString(m["text"])
	if err != nil {
		return fmt.Errorf("text: %w", err)
	}
	matchAll := true
	if raw, ok := m["match_all"]; ok {
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("match_all: want a bool, got %s", describe(raw))
		}
		matchAll = b
	}
	v, err := sparql.NewVariable(name)
	if err != nil {
		return err
	}
	var rel *sparql.Variable
	if raw, ok := m["relevance"]; ok {
		relName, err := asString(raw)
		if err != nil {
			return fmt.Errorf("relevance: %w", err)
		}
		if rel, err = sparql.NewVariable(relName); err != nil {
			return err
		}
	}
	p.Add(blazegraph.NewSearch(v, text, matchAll, rel))
	return nil
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("want a string, got %s", describe(v))
	}
	return s, nil
}

func asList(v any) ([]any, error) {
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want a list, got %s", describe(v))
	}
	return l, nil
}

// scalarText renders a literal value verbatim.
func scalarText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("want a scalar, got %s", describe(v))
}

// fields checks that v is a map using only the allowed keys.
func fields(v any, allowed ...string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("want a map, got %s", describe(v))
	}
	for k := range m {
		if !slices.Contains(allowed, k) {
			return nil, fmt.Errorf("unexpected key %q (want %v)", k, allowed)
		}
	}
	return m, nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case map[string]any:
		return "a map"
	case []any:
		return "a list"
	}
	return fmt.Sprintf("%T", v)
}
