package sparql

import (
	"strings"

	"github.com/roach88/sparqb/internal/ir"
)

// Statement is a graph-pattern or clause-level construct inside a WHERE body.
//
// The interface is sealed by an unexported marker method. Other packages add
// statement variants by embedding Extension (for new leaves) or an existing
// statement node such as *Axiom or *Service (to reuse its rendering and key):
//
//	type Include struct {
//	    sparql.Extension
//	    name string
//	}
//
// Statement types in this package:
//   - Axiom, Values, Bind, Filter: leaves
//   - Group, Optional, Union, Minus, Service, FilterExists: compounds
//   - Query: a compound with projection and solution modifiers
type Statement interface {
	Node
	statementNode() // Marker method - see Extension
}

// Extension is embedded by statement types declared outside this package.
// It carries the marker method and nothing else.
type Extension struct{}

func (Extension) statementNode() {}

// Axiom is a single triple pattern: subject predicate object .
//
// The predicate is a raw token ("a", "rdf:type", "<http://...>") emitted
// verbatim.
type Axiom struct {
	subject   Expression
	predicate string
	object    Expression
}

// NewAxiom creates a triple pattern. Subject and object must be VALUE-kind.
func NewAxiom(subject Expression, predicate string, object Expression) (*Axiom, error) {
	if err := requireValue("axiom", "subject", subject); err != nil {
		return nil, err
	}
	if strings.TrimSpace(predicate) == "" {
		return nil, emptyError("axiom", "predicate is required")
	}
	if err := requireValue("axiom", "object", object); err != nil {
		return nil, err
	}
	return &Axiom{subject: subject, predicate: predicate, object: object}, nil
}

// Subject returns the subject expression.
func (a *Axiom) Subject() Expression { return a.subject }

// Predicate returns the raw predicate token.
func (a *Axiom) Predicate() string { return a.predicate }

// Object returns the object expression.
func (a *Axiom) Object() Expression { return a.object }

func (a *Axiom) Serialize(mode Mode) string {
	return " " + a.subject.Serialize(mode) + " " + a.predicate + " " + a.object.Serialize(mode) + " . \n"
}

func (a *Axiom) Key() ir.Key { return leafKey(ir.DomainStatement, "axiom", a.Serialize(ModeRaw)) }

func (*Axiom) statementNode() {}

// Values is an inline data block: VALUES ( ?a ?b ) { (x y) (z w) }.
type Values struct {
	vars []*Variable
	rows [][]Expression
}

// NewValues wraps the raw variable names and validates that every row has
// one value per variable. Zero rows are allowed (the block then produces no
// solutions).
func NewValues(vars []string, rows ...[]Expression) (*Values, error) {
	if len(vars) == 0 {
		return nil, emptyError("values", "at least one variable is required")
	}
	v := &Values{vars: make([]*Variable, len(vars))}
	for i, name := range vars {
		variable, err := NewVariable(name)
		if err != nil {
			return nil, err
		}
		v.vars[i] = variable
	}
	for i, row := range rows {
		if len(row) != len(vars) {
			return nil, NewNodeError(ErrCodeInvalid, "values", "row %d has %d values, want %d", i, len(row), len(vars))
		}
		if err := requireValues("values", "value", row); err != nil {
			return nil, err
		}
		v.rows = append(v.rows, append([]Expression(nil), row...))
	}
	return v, nil
}

// Vars returns the variables in declaration order.
func (v *Values) Vars() []*Variable { return append([]*Variable(nil), v.vars...) }

// Len returns the number of rows.
func (v *Values) Len() int { return len(v.rows) }

func (v *Values) Serialize(mode Mode) string {
	rows := make([]string, len(v.rows))
	for i, row := range v.rows {
		rows[i] = "(" + joinSerialized(row, mode, " ") + ")"
	}
	return " VALUES ( " + joinSerialized(v.vars, mode, " ") + " ) { " + strings.Join(rows, "\n ") + " } \n"
}

// Key keeps the variable order (it decides which column a value binds) but
// treats rows as a multiset.
func (v *Values) Key() ir.Key {
	rows := make([]string, len(v.rows))
	for i, row := range v.rows {
		rows[i] = joinSerialized(row, ModeRaw, " ")
	}
	vars := make([]string, len(v.vars))
	for i, variable := range v.vars {
		vars[i] = variable.Name()
	}
	return ir.MustKey(ir.DomainStatement, ir.IRObject{
		"node": ir.IRString("values"),
		"vars": ir.Strings(vars),
		"rows": ir.SortedStrings(rows),
	})
}

func (*Values) statementNode() {}

// Bind assigns an expression to a variable: BIND(expr AS ?v).
type Bind struct {
	alias *As
}

// NewBind creates a BIND clause. expr must be VALUE-kind.
func NewBind(expr Expression, target *Variable) (*Bind, error) {
	if err := requireValue("bind", "bound", expr); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, emptyError("bind", "target variable is required")
	}
	return &Bind{alias: &As{expr: expr, target: target}}, nil
}

// Target returns the bound variable.
func (b *Bind) Target() *Variable { return b.alias.Target() }

func (b *Bind) Serialize(mode Mode) string { return "BIND" + b.alias.Serialize(mode) + "\n" }

func (b *Bind) Key() ir.Key { return leafKey(ir.DomainStatement, "bind", b.Serialize(ModeRaw)) }

func (*Bind) statementNode() {}

// Filter restricts solutions: FILTER (expr).
type Filter struct {
	expr Expression
}

// NewFilter creates a FILTER clause. expr must be VALUE-kind.
func NewFilter(expr Expression) (*Filter, error) {
	if err := requireValue("filter", "condition", expr); err != nil {
		return nil, err
	}
	return &Filter{expr: expr}, nil
}

// Expr returns the filter condition.
func (f *Filter) Expr() Expression { return f.expr }

func (f *Filter) Serialize(mode Mode) string { return " FILTER (" + f.expr.Serialize(mode) + ")\n" }

func (f *Filter) Key() ir.Key { return leafKey(ir.DomainStatement, "filter", f.Serialize(ModeRaw)) }

func (*Filter) statementNode() {}
