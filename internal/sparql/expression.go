package sparql

import (
	"fmt"
	"strings"

	"github.com/roach88/sparqb/internal/ir"
)

// Kind tells where an expression may appear.
type Kind int

const (
	// KindValue expressions are usable anywhere a scalar is expected.
	KindValue Kind = iota

	// KindAs expressions are projection aliases, valid only in a SELECT list.
	KindAs
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindAs {
		return "as"
	}
	return "value"
}

// Expression is a SPARQL value-level expression.
//
// This is a sealed interface - only types in this package implement it.
//
// Expression types:
//   - Variable, Literal, URI, Star: leaves
//   - Function, UnaryOp, BinaryOp, InSet, Regex: VALUE-kind compositions
//   - As: the only AS-kind expression
//   - Distinct: DISTINCT over variables and aliases
type Expression interface {
	Node
	fmt.Stringer

	// Kind reports whether the expression is a value or a projection alias.
	Kind() Kind

	expressionNode() // Marker method - seals interface to this package
}

// requireValue checks that e is present and VALUE-kind.
func requireValue(node, role string, e Expression) error {
	if isNil(e) {
		return emptyError(node, "%s expression is required", role)
	}
	if e.Kind() != KindValue {
		return kindError(node, "%s must be a value expression, got %s", role, e.Kind())
	}
	return nil
}

func requireValues(node, role string, es []Expression) error {
	for i, e := range es {
		if err := requireValue(node, fmt.Sprintf("%s[%d]", role, i), e); err != nil {
			return err
		}
	}
	return nil
}

func exprKey(node string, e Expression) ir.Key {
	return leafKey(ir.DomainExpression, node, e.Serialize(ModeRaw))
}

// Variable is a SPARQL variable: ?name.
type Variable struct {
	name string
}

// NewVariable creates a variable. A leading "?" is stripped; the remaining
// name must not be empty.
func NewVariable(name string) (*Variable, error) {
	name = strings.TrimPrefix(name, "?")
	if name == "" {
		return nil, emptyError("variable", "name is required")
	}
	return &Variable{name: name}, nil
}

// Name returns the variable name without the "?" sigil.
func (v *Variable) Name() string { return v.name }

func (v *Variable) Kind() Kind { return KindValue }
func (v *Variable) Serialize(mode Mode) string { return "?" + v.name }
func (v *Variable) String() string { return v.Serialize(ModeRaw) }
func (v *Variable) Key() ir.Key { return exprKey("variable", v) }
func (*Variable) expressionNode() {}

// Literal is a raw literal token with an optional datatype.
//
// The value is emitted verbatim, so string literals must carry their own
// quotes. Use NewStringLiteral to quote and escape a Go string.
type Literal struct {
	value    string
	datatype *URI
}

// NewLiteral creates an untyped literal. value must not be empty.
func NewLiteral(value string) (*Literal, error) {
	if value == "" {
		return nil, emptyError("literal", "value is required")
	}
	return &Literal{value: value}, nil
}

// NewTypedLiteral creates a literal rendered as value^^datatype.
func NewTypedLiteral(value string, datatype *URI) (*Literal, error) {
	lit, err := NewLiteral(value)
	if err != nil {
		return nil, err
	}
	if datatype == nil {
		return nil, emptyError("literal", "datatype is required for a typed literal")
	}
	lit.datatype = datatype
	return lit, nil
}

// NewStringLiteral creates a double-quoted string literal from s.
func NewStringLiteral(s string) *Literal {
	return &Literal{value: QuoteString(s)}
}

// QuoteString renders s as a SPARQL double-quoted string.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Value returns the raw literal token.
func (l *Literal) Value() string { return l.value }

// Datatype returns the datatype URI, or nil for an untyped literal.
func (l *Literal) Datatype() *URI { return l.datatype }

func (l *Literal) Kind() Kind { return KindValue }

func (l *Literal) Serialize(mode Mode) string {
	if l.datatype == nil {
		return l.value
	}
	return l.value + "^^" + l.datatype.Serialize(mode)
}

func (l *Literal) String() string { return l.Serialize(ModeRaw) }
func (l *Literal) Key() ir.Key { return exprKey("literal", l) }
func (*Literal) expressionNode() {}

// URI is an IRI reference, either prefixed (tcga:Case) or absolute.
type URI struct {
	uri string
}

// NewURI validates uri against the short-form and absolute-URL grammars.
func NewURI(uri string) (*URI, error) {
	if uri == "" {
		return nil, emptyError("uri", "uri is required")
	}
	if !IsValidURI(uri) {
		return nil, NewNodeError(ErrCodeMalformedURI, "uri", "%q is neither prefix:local nor an http(s) URL", uri)
	}
	return &URI{uri: uri}, nil
}

// Value returns the URI as given.
func (u *URI) Value() string { return u.uri }

func (u *URI) Kind() Kind { return KindValue }

// Serialize emits short forms as-is and brackets absolute URLs.
func (u *URI) Serialize(mode Mode) string {
	if IsShortURI(u.uri) {
		return u.uri
	}
	return "<" + u.uri + ">"
}

func (u *URI) String() string { return u.Serialize(ModeRaw) }
func (u *URI) Key() ir.Key { return exprKey("uri", u) }
func (*URI) expressionNode() {}

// Function is a call NAME(arg, ...). Arguments must be VALUE-kind.
type Function struct {
	name string
	args []Expression
}

// NewFunction creates a function call. Zero arguments are allowed (NOW()).
func NewFunction(name string, args ...Expression) (*Function, error) {
	if strings.TrimSpace(name) == "" {
		return nil, emptyError("function", "name is required")
	}
	if err := requireValues("function", "argument", args); err != nil {
		return nil, err
	}
	return &Function{name: name, args: append([]Expression(nil), args...)}, nil
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

func (f *Function) Kind() Kind { return KindValue }

func (f *Function) Serialize(mode Mode) string {
	return f.name + "(" + joinSerialized(f.args, mode, ", ") + ")"
}

func (f *Function) String() string { return f.Serialize(ModeRaw) }
func (f *Function) Key() ir.Key { return exprKey("function", f) }
func (*Function) expressionNode() {}

// As aliases a value expression to a variable: (expr AS ?v).
// It is the only AS-kind expression.
type As struct {
	expr   Expression
	target *Variable
}

// NewAs creates an alias. expr must be VALUE-kind.
func NewAs(expr Expression, target *Variable) (*As, error) {
	if err := requireValue("as", "aliased", expr); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, emptyError("as", "target variable is required")
	}
	return &As{expr: expr, target: target}, nil
}

// Expr returns the aliased expression.
func (a *As) Expr() Expression { return a.expr }

// Target returns the alias variable.
func (a *As) Target() *Variable { return a.target }

func (a *As) Kind() Kind { return KindAs }

func (a *As) Serialize(mode Mode) string {
	return "(" + a.expr.Serialize(mode) + " AS " + a.target.Serialize(mode) + ")"
}

func (a *As) String() string { return a.Serialize(ModeRaw) }
func (a *As) Key() ir.Key { return exprKey("as", a) }
func (*As) expressionNode() {}

// UnaryOp is a prefix operator applied to a value: !expr.
type UnaryOp struct {
	op      string
	operand Expression
}

// NewUnaryOp creates a prefix operator expression.
func NewUnaryOp(op string, operand Expression) (*UnaryOp, error) {
	if op == "" {
		return nil, emptyError("unary", "operator is required")
	}
	if err := requireValue("unary", "operand", operand); err != nil {
		return nil, err
	}
	return &UnaryOp{op: op, operand: operand}, nil
}

func (u *UnaryOp) Kind() Kind { return KindValue }

func (u *UnaryOp) Serialize(mode Mode) string {
	return u.op + u.operand.Serialize(mode)
}

func (u *UnaryOp) String() string { return u.Serialize(ModeRaw) }
func (u *UnaryOp) Key() ir.Key { return exprKey("unary", u) }
func (*UnaryOp) expressionNode() {}

// BinaryOp is an infix operator, always fully parenthesized: (l op r).
type BinaryOp struct {
	op          string
	left, right Expression
}

// NewBinaryOp creates an infix operator expression.
func NewBinaryOp(op string, left, right Expression) (*BinaryOp, error) {
	if strings.TrimSpace(op) == "" {
		return nil, emptyError("binary", "operator is required")
	}
	if err := requireValue("binary", "left", left); err != nil {
		return nil, err
	}
	if err := requireValue("binary", "right", right); err != nil {
		return nil, err
	}
	return &BinaryOp{op: op, left: left, right: right}, nil
}

func (b *BinaryOp) Kind() Kind { return KindValue }

func (b *BinaryOp) Serialize(mode Mode) string {
	return "(" + b.left.Serialize(mode) + " " + b.op + " " + b.right.Serialize(mode) + ")"
}

func (b *BinaryOp) String() string { return b.Serialize(ModeRaw) }
func (b *BinaryOp) Key() ir.Key { return exprKey("binary", b) }
func (*BinaryOp) expressionNode() {}

// Distinct renders DISTINCT followed by variables and aliases. It appears
// inside aggregates (COUNT(DISTINCT ?a)) and as the wrapped projection of a
// SELECT DISTINCT query.
type Distinct struct {
	items []Expression
}

// NewDistinct creates a DISTINCT list. Items must be *Variable or *As.
func NewDistinct(items ...Expression) (*Distinct, error) {
	if len(items) == 0 {
		return nil, emptyError("distinct", "at least one item is required")
	}
	for i, item := range items {
		if isNil(item) {
			return nil, emptyError("distinct", "item[%d] is required", i)
		}
		switch item.(type) {
		case *Variable, *As:
		default:
			return nil, kindError("distinct", "item[%d] must be a variable or alias, got %T", i, item)
		}
	}
	return &Distinct{items: append([]Expression(nil), items...)}, nil
}

func (d *Distinct) Kind() Kind { return KindValue }

func (d *Distinct) Serialize(mode Mode) string {
	return "DISTINCT " + joinSerialized(d.items, mode, " ")
}

func (d *Distinct) String() string { return d.Serialize(ModeRaw) }
func (d *Distinct) Key() ir.Key { return exprKey("distinct", d) }
func (*Distinct) expressionNode() {}

// Star is the * wildcard, as in SELECT * or COUNT(*).
type Star struct{}

// NewStar returns the wildcard expression.
func NewStar() *Star { return &Star{} }

func (*Star) Kind() Kind { return KindValue }
func (*Star) Serialize(mode Mode) string { return "*" }
func (s *Star) String() string { return "*" }
func (s *Star) Key() ir.Key { return exprKey("star", s) }
func (*Star) expressionNode() {}

// InSet tests membership: probe IN (a, b, ...).
type InSet struct {
	probe      Expression
	candidates []Expression
}

// NewInSet creates a membership test. All operands must be VALUE-kind.
func NewInSet(probe Expression, candidates ...Expression) (*InSet, error) {
	if err := requireValue("in", "probe", probe); err != nil {
		return nil, err
	}
	if err := requireValues("in", "candidate", candidates); err != nil {
		return nil, err
	}
	return &InSet{probe: probe, candidates: append([]Expression(nil), candidates...)}, nil
}

func (in *InSet) Kind() Kind { return KindValue }

func (in *InSet) Serialize(mode Mode) string {
	return in.probe.Serialize(mode) + " IN (" + joinSerialized(in.candidates, mode, ", ") + ")"
}

func (in *InSet) String() string { return in.Serialize(ModeRaw) }
func (in *InSet) Key() ir.Key { return exprKey("in", in) }
func (*InSet) expressionNode() {}

// Regex is a case-insensitive match of an expression's string form:
// regex(str(expr), "pattern", "i").
type Regex struct {
	expr    Expression
	pattern string
}

// NewRegex creates a regex test. pattern must not be empty.
func NewRegex(expr Expression, pattern string) (*Regex, error) {
	if err := requireValue("regex", "matched", expr); err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, emptyError("regex", "pattern is required")
	}
	return &Regex{expr: expr, pattern: pattern}, nil
}

func (r *Regex) Kind() Kind { return KindValue }

func (r *Regex) Serialize(mode Mode) string {
	return fmt.Sprintf(`regex(str(%s), %s, "i")`, r.expr.Serialize(mode), QuoteString(r.pattern))
}

func (r *Regex) String() string { return r.Serialize(ModeRaw) }
func (r *Regex) Key() ir.Key { return exprKey("regex", r) }
func (*Regex) expressionNode() {}
