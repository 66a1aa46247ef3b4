package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariable_StripsSigil(t *testing.T) {
	a, err := NewVariable("?type")
	require.NoError(t, err)
	b, err := NewVariable("type")
	require.NoError(t, err)

	assert.Equal(t, "?type", a.Serialize(ModeRaw))
	assert.Equal(t, "type", a.Name())
	assert.Equal(t, a.Key(), b.Key(), "sigil must not affect identity")
}

func TestVariable_EmptyName(t *testing.T) {
	for _, name := range []string{"", "?"} {
		_, err := NewVariable(name)
		require.Error(t, err, "name %q", name)
		assert.True(t, IsEmptyError(err))
	}
}

func TestURI_Rendering(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short form", "tcga:Analyte", "tcga:Analyte"},
		{"empty prefix", ":Thing", ":Thing"},
		{"absolute http", "http://example.org/x", "<http://example.org/x>"},
		{"absolute with fragment", "https://example.org/tcga#Case", "<https://example.org/tcga#Case>"},
		{"localhost with port", "http://localhost:9999/blazegraph/sparql", "<http://localhost:9999/blazegraph/sparql>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := NewURI(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, uri.Serialize(ModeRaw))
			assert.Equal(t, tt.in, uri.Value())
		})
	}
}

func TestURI_Errors(t *testing.T) {
	_, err := NewURI("")
	assert.True(t, IsEmptyError(err))

	for _, bad := range []string{"not a uri", "ftp://example.org/x", "tcga:has space", "tcga:"} {
		_, err := NewURI(bad)
		require.Error(t, err, "uri %q", bad)
		assert.True(t, IsMalformedURI(err), "uri %q", bad)
	}
}

func TestLiteral(t *testing.T) {
	_, err := NewLiteral("")
	assert.True(t, IsEmptyError(err))

	assert.Equal(t, "5", lit("5").Serialize(ModeRaw))

	typed, err := NewTypedLiteral(`"5"`, u("xsd:integer"))
	require.NoError(t, err)
	assert.Equal(t, `"5"^^xsd:integer`, typed.Serialize(ModeRaw))
	assert.Equal(t, "xsd:integer", typed.Datatype().Value())

	_, err = NewTypedLiteral(`"5"`, nil)
	assert.True(t, IsEmptyError(err))
}

func TestStringLiteral_Escapes(t *testing.T) {
	assert.Equal(t, `"say \"hi\""`, NewStringLiteral(`say "hi"`).Serialize(ModeRaw))
	assert.Equal(t, `"a\\b\nc"`, NewStringLiteral("a\\b\nc").Serialize(ModeRaw))
	assert.Equal(t, `""`, NewStringLiteral("").Serialize(ModeRaw))
}

func TestFunctionsAndOperators(t *testing.T) {
	gt := must(Gt(v("x"), lit("5")))
	ne := must(Ne(v("y"), lit(`"b"`)))

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"count star", must(Count(NewStar())), "COUNT(*)"},
		{"count distinct", must(Count(must(NewDistinct(v("a"))))), "COUNT(DISTINCT ?a)"},
		{"desc", must(Desc(v("n"))), "DESC(?n)"},
		{"asc", must(Asc(v("n"))), "ASC(?n)"},
		{"nullary function", must(NewFunction("NOW")), "NOW()"},
		{"multi-arg function", must(NewFunction("CONCAT", v("a"), lit(`"-"`), v("b"))), `CONCAT(?a, "-", ?b)`},
		{"and", must(And(gt, ne)), `((?x > 5) && (?y != "b"))`},
		{"or", must(Or(gt, ne)), `((?x > 5) || (?y != "b"))`},
		{"not bound", must(Not(must(Bound(v("z"))))), "!BOUND(?z)"},
		{"comparisons", must(Le(must(Ge(v("a"), lit("1"))), must(Lt(v("b"), lit("2"))))), "((?a >= 1) <= (?b < 2))"},
		{"eq", must(Eq(v("a"), u("tcga:X"))), "(?a = tcga:X)"},
		{"in", must(NewInSet(v("t"), u("tcga:A"), u("tcga:B"))), "?t IN (tcga:A, tcga:B)"},
		{"regex", must(NewRegex(v("name"), "^br")), `regex(str(?name), "^br", "i")`},
		{"alias", must(NewAs(must(Count(NewStar())), v("n"))), "(COUNT(*) AS ?n)"},
		{"distinct list", must(NewDistinct(v("a"), must(NewAs(v("b"), v("c"))))), "DISTINCT ?a (?b AS ?c)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.Serialize(ModeRaw))
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestKinds(t *testing.T) {
	alias := must(NewAs(v("a"), v("b")))
	assert.Equal(t, KindAs, alias.Kind())
	assert.Equal(t, "as", alias.Kind().String())
	assert.Equal(t, KindValue, v("a").Kind())
	assert.Equal(t, "value", KindValue.String())
}

func TestAsKindRejectedInsideExpressions(t *testing.T) {
	alias := must(NewAs(v("a"), v("b")))

	cases := map[string]func() error{
		"binary":   func() error { _, err := NewBinaryOp("+", alias, v("x")); return err },
		"unary":    func() error { _, err := Not(alias); return err },
		"function": func() error { _, err := Count(alias); return err },
		"nested as": func() error {
			_, err := NewAs(alias, v("c"))
			return err
		},
		"in probe":     func() error { _, err := NewInSet(alias, v("x")); return err },
		"in candidate": func() error { _, err := NewInSet(v("x"), alias); return err },
		"regex":        func() error { _, err := NewRegex(alias, "x"); return err },
	}

	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			err := fn()
			require.Error(t, err)
			assert.True(t, IsKindMismatch(err), "got %v", err)
		})
	}
}

func TestNilChildrenAreEmptyErrors(t *testing.T) {
	_, err := NewFunction("COUNT", nil)
	assert.True(t, IsEmptyError(err))

	_, err = NewBinaryOp("+", v("a"), nil)
	assert.True(t, IsEmptyError(err))

	_, err = NewAs(v("a"), nil)
	assert.True(t, IsEmptyError(err))

	_, err = NewRegex(v("a"), "")
	assert.True(t, IsEmptyError(err))

	_, err = Bound(nil)
	assert.True(t, IsEmptyError(err))

	_, err = NewDistinct()
	assert.True(t, IsEmptyError(err))
}

func TestTypedNilChildrenAreEmptyErrors(t *testing.T) {
	var nilVar *Variable
	var nilAxiom *Axiom

	tests := []struct {
		name  string
		build func() error
	}{
		{"binary op", func() error { _, err := NewBinaryOp(">", nilVar, lit("5")); return err }},
		{"unary op", func() error { _, err := NewUnaryOp("!", nilVar); return err }},
		{"function", func() error { _, err := NewFunction("COUNT", nilVar); return err }},
		{"distinct", func() error { _, err := NewDistinct(v("a"), nilVar); return err }},
		{"axiom", func() error { _, err := NewAxiom(nilVar, "a", v("b")); return err }},
		{"filter", func() error { _, err := NewFilter(nilVar); return err }},
		{"group", func() error { _, err := NewGroup(nilAxiom); return err }},
		{"union", func() error { _, err := NewUnion(true, axiom(v("a"), "a", v("b")), nilAxiom); return err }},
		{"query select", func() error { _, err := NewQuery(QueryParts{Select: []Expression{nilVar}}); return err }},
		{"query where", func() error { _, err := NewQuery(QueryParts{Where: []Statement{nilAxiom}}); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			assert.True(t, IsEmptyError(err), "got %v", err)
		})
	}
}

func TestRegex_EscapesPattern(t *testing.T) {
	r := must(NewRegex(v("name"), `a"b\d`))
	assert.Equal(t, `regex(str(?name), "a\"b\\d", "i")`, r.Serialize(ModeRaw))
}

func TestDistinct_RejectsNonVariables(t *testing.T) {
	_, err := NewDistinct(v("a"), lit("5"))
	require.Error(t, err)
	assert.True(t, IsKindMismatch(err))
}

func TestExpressionKeys(t *testing.T) {
	a := must(Gt(v("x"), lit("5")))
	b := must(Gt(v("?x"), lit("5")))
	c := must(Gt(lit("5"), v("x")))

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key(), "operand order is significant inside an expression")

	// Same text, different variant.
	assert.NotEqual(t, lit("tcga:X").Key(), u("tcga:X").Key())
}

func TestNodeError_Message(t *testing.T) {
	_, err := NewVariable("")
	assert.Equal(t, "EMPTY: variable: name is required", err.Error())
}
