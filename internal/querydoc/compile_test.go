package querydoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqb/internal/blazegraph"
	"github.com/roach88/sparqb/internal/builder"
	"github.com/roach88/sparqb/internal/sparql"
	"github.com/roach88/sparqb/internal/testutil"
)

func decodeOne(t *testing.T, src string) *Document {
	t.Helper()
	docs, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	return docs[0]
}

func compile(t *testing.T, c *Compiler, src string) *Compiled {
	t.Helper()
	out, err := c.Compile(decodeOne(t, src))
	require.NoError(t, err)
	return out
}

func compileErr(t *testing.T, c *Compiler, src string) *CompileError {
	t.Helper()
	_, err := c.Compile(decodeOne(t, src))
	require.Error(t, err)
	var ce *CompileError
	require.True(t, errors.As(err, &ce), "want *CompileError, got %T", err)
	return ce
}

func TestCompile_MatchesBuilder(t *testing.T) {
	docs, err := LoadFile("testdata/cases.yaml")
	require.NoError(t, err)
	out, err := (&Compiler{}).Compile(docs[0])
	require.NoError(t, err)

	want, err := builder.NewQuery().
		Prefix("tcga", "https://example.org/tcga#").
		Select("c", builder.Count("o").As("n")).
		Where(func(p *builder.Patterns) {
			p.Axiom("c", "a", "tcga:Case")
			p.Optional(func(p *builder.Patterns) {
				p.Axiom("c", "tcga:hasObservation", "o")
			})
		}).
		GroupBy("c").
		OrderBy(builder.Desc("n")).
		Limit(10).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "cases", out.Name)
	assert.Equal(t, DialectSPARQL, out.Dialect)
	assert.Equal(t, want.String(), out.SPARQL())
	assert.Equal(t, want.Key(), out.Key())
	assert.Same(t, out.Base, out.Query)
	testutil.AssertGolden(t, "cases", out.SPARQL())
}

func TestCompile_CUEAndYAMLAgree(t *testing.T) {
	c := &Compiler{}
	var keys []string
	for _, path := range []string{"testdata/cases.yaml", "testdata/cases.cue"} {
		docs, err := LoadFile(path)
		require.NoError(t, err)
		out, err := c.Compile(docs[0])
		require.NoError(t, err, path)
		keys = append(keys, string(out.Key()))
	}
	assert.Equal(t, keys[0], keys[1])
}

func TestCompile_Blazegraph(t *testing.T) {
	c := &Compiler{IDs: testutil.FixedID("q-42")}
	out := compile(t, c, `
dialect: blazegraph
prefixes:
  tcga: https://example.org/tcga#
select: [c, o, score]
hints:
  query_id: auto
  optimizer: runtime
with:
  - name: cases
    query:
      select: [c]
      where:
        - axiom: [c, a, "tcga:Case"]
where:
  - axiom: [c, "tcga:hasObservation", o]
  - include: cases
  - search: {var: o, text: brca1, match_all: false, relevance: score}
order_by:
  - desc: score
limit: 10
`)

	want, err := blazegraph.NewQueryBuilder().
		Prefix("tcga", "https://example.org/tcga#").
		Select("c", "o", "score").
		QueryID("q-42").
		Optimizer(blazegraph.OptimizerRuntime).
		With("cases", func(sb *blazegraph.QueryBuilder) {
			sb.Select("c").Where(func(p *builder.Patterns) {
				p.Axiom("c", "a", "tcga:Case")
			})
		}).
		Where(func(p *builder.Patterns) {
			p.Axiom("c", "tcga:hasObservation", "o")
		}).
		Include("cases").
		Search("o", "brca1", false, "score").
		OrderBy(builder.Desc("score")).
		Limit(10).
		Build()
	require.NoError(t, err)

	assert.Equal(t, DialectBlazegraph, out.Dialect)
	assert.Equal(t, "q-42", out.QueryID)
	assert.Equal(t, want.String(), out.SPARQL())
	assert.Equal(t, want.Key(), out.Key())
	assert.IsType(t, &blazegraph.Query{}, out.Query)
}

func TestCompile_AutoQueryIDs(t *testing.T) {
	ids := testutil.NewSequentialIDs()
	c := &Compiler{IDs: ids, Dialect: DialectBlazegraph}
	src := "select: [s]\nhints: {query_id: auto}\nwhere:\n  - axiom: [s, a, \"tcga:Case\"]\n"

	first := compile(t, c, src)
	second := compile(t, c, src)
	assert.Equal(t, "test-query-0001", first.QueryID)
	assert.Equal(t, "test-query-0002", second.QueryID)
	assert.NotEqual(t, first.Key(), second.Key())
	assert.Contains(t, first.SPARQL(), `hint:Query hint:queryId "test-query-0001"`)
}

func TestCompile_DefaultUUIDQueryID(t *testing.T) {
	out := compile(t, &Compiler{}, "dialect: blazegraph\nhints: {query_id: auto, chunk_size: 500}\n")
	assert.Len(t, out.QueryID, 36)
	assert.Contains(t, out.SPARQL(), `hint:Query hint:chunkSize "500"`)
}

func TestCompile_Prefixes(t *testing.T) {
	c := &Compiler{Prefixes: map[string]string{
		"tcga": "https://old.example.org/tcga#",
		"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	}}
	out := compile(t, c, "prefixes:\n  tcga: https://example.org/tcga#\n")
	assert.Equal(t, map[string]string{
		"tcga": "https://example.org/tcga#",
		"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	}, out.Base.Prefixes())
}

func TestCompile_UnionKeyword(t *testing.T) {
	out := compile(t, &Compiler{}, `
select: [a]
where:
  - union:
      - axiom: [a, a, "tcga:A"]
  - union:
      - axiom: [a, a, "tcga:B"]
`)
	children := out.Base.Children()
	require.Len(t, children, 2)
	assert.True(t, children[0].(*sparql.Union).Keyword())
	assert.False(t, children[1].(*sparql.Union).Keyword())
}

func TestCompile_Patterns(t *testing.T) {
	out := compile(t, &Compiler{}, `
select: [s, label]
where:
  - values:
      vars: [s]
      rows:
        - ["tcga:A"]
        - ["tcga:B"]
  - bind: {expr: {func: STR, args: [s]}, as: label}
  - filter: {and: [{bound: label}, {ne: [label, {string: ""}]}]}
  - minus:
      - axiom: [s, "tcga:withdrawn", true]
  - exists:
      - axiom: [s, "tcga:hasCase", c]
  - service:
      uri: http://example.org/sparql
      where:
        - axiom: [s, "rdfs:label", label]
  - subquery:
      select: [s]
      where:
        - axiom: [s, a, "tcga:Case"]
      limit: 5
`)
	children := out.Base.Children()
	require.Len(t, children, 7)
	assert.IsType(t, &sparql.Values{}, children[0])
	assert.IsType(t, &sparql.Bind{}, children[1])
	assert.IsType(t, &sparql.Filter{}, children[2])
	assert.IsType(t, &sparql.Minus{}, children[3])
	assert.IsType(t, &sparql.FilterExists{}, children[4])
	assert.IsType(t, &sparql.Service{}, children[5])
	assert.IsType(t, &sparql.Group{}, children[6])

	text := out.SPARQL()
	assert.Contains(t, text, "BIND(STR(?s) AS ?label)")
	assert.Contains(t, text, ` FILTER ((BOUND(?label) && (?label != "")))`)
	assert.Contains(t, text, "FILTER EXISTS {")
	assert.Contains(t, text, " LIMIT 5\n")
	assert.Empty(t, out.Validate().Warnings)
}

func TestCompile_Expressions(t *testing.T) {
	out := compile(t, &Compiler{}, `
select:
  - {var: name, as: label}
  - {count: {distinct: [s]}, as: n}
where:
  - axiom: [s, "rdfs:label", name]
  - filter: {in: name, values: [{string: a}, {string: b}]}
  - filter: {regex: name, pattern: "^br"}
  - filter: {not: {bound: s}}
order_by:
  - {asc: name}
  - {desc: n}
`)
	want, err := builder.NewQuery().
		Select(builder.Var("name").As("label"), builder.Count(builder.Distinct("s")).As("n")).
		Where(func(p *builder.Patterns) {
			p.Axiom("s", "rdfs:label", "name")
			p.Filter(builder.In("name", builder.Str("a"), builder.Str("b")))
			p.Filter(builder.Regex("name", "^br"))
			p.Filter(builder.Not(builder.Bound("s")))
		}).
		OrderBy(builder.Asc("name"), builder.Desc("n")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, want.String(), out.SPARQL())
}

func TestCompile_ValidateReportsExtensions(t *testing.T) {
	out := compile(t, &Compiler{Dialect: DialectBlazegraph}, "where:\n  - include: cases\n")
	res := out.Validate()
	assert.False(t, res.IsPortable)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "not standard SPARQL")
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		src     string
		path    string
		msg     string
	}{
		{
			name: "hints need blazegraph",
			src:  "hints: {chunk_size: 10}\n",
			path: "hints",
			msg:  "requires dialect blazegraph",
		},
		{
			name: "with needs blazegraph",
			src:  "with:\n  - name: x\n    query: {select: [a]}\n",
			path: "with",
			msg:  "requires dialect blazegraph",
		},
		{
			name: "search needs blazegraph",
			src:  "where:\n  - search: {var: o, text: x}\n",
			path: "where[0].search",
			msg:  "requires dialect blazegraph",
		},
		{
			name: "unknown pattern",
			src:  "where:\n  - frobnicate: x\n",
			path: "where[0].frobnicate",
			msg:  `unknown pattern "frobnicate"`,
		},
		{
			name: "pattern with two keys",
			src:  "where:\n  - {axiom: [a, b, c], filter: x}\n",
			path: "where[0]",
			msg:  "exactly one key",
		},
		{
			name: "nested blank predicate",
			src:  "where:\n  - axiom: [a, a, b]\n  - optional:\n      - axiom: [a, \"\", b]\n",
			path: "where[1].optional[0].axiom",
		},
		{
			name: "operand count",
			src:  "where:\n  - filter: {gt: [n]}\n",
			path: "where[0].filter",
			msg:  "gt: want 2 operands, got 1",
		},
		{
			name: "two operators",
			src:  "select:\n  - {gt: [a, b], lt: [a, b]}\n",
			path: "select[0]",
			msg:  `expression has two operators "gt" and "lt"`,
		},
		{
			name: "prefix in subquery",
			src:  "where:\n  - subquery:\n      prefixes: {x: \"http://x.org/\"}\n",
			path: "where[0].subquery.prefixes.x",
			msg:  "only allowed on the outermost query",
		},
		{
			name: "negative limit",
			src:  "limit: -1\n",
			path: "limit",
		},
		{
			name:    "bad optimizer",
			dialect: DialectBlazegraph,
			src:     "hints: {optimizer: greedy}\n",
			path:    "hints",
		},
		{
			name: "unknown dialect",
			src:  "dialect: virtuoso\n",
			path: "dialect",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := compileErr(t, &Compiler{Dialect: tt.dialect}, tt.src)
			assert.Equal(t, tt.path, ce.Path)
			if tt.msg != "" {
				assert.ErrorContains(t, ce, tt.msg)
			}
		})
	}
}

func TestCompile_ErrorsUnwrap(t *testing.T) {
	ce := compileErr(t, &Compiler{}, "limit: -1\n")
	assert.True(t, sparql.IsInvalid(ce))

	ce = compileErr(t, &Compiler{}, "where:\n  - optional:\n      - axiom: [a, \"\", b]\n")
	assert.True(t, sparql.IsEmptyError(ce))
}
