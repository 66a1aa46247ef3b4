package blazegraph

import (
	"github.com/roach88/sparqb/internal/ir"
	"github.com/roach88/sparqb/internal/sparql"
)

// With is a named subquery evaluated once and referenced by INCLUDE:
//
//	WITH { select ... } AS %name
type With struct {
	name  string
	query *sparql.Query
}

// NewWith names the solution set produced by query.
func NewWith(name string, query *sparql.Query) (*With, error) {
	name, err := solutionSetName("with", name)
	if err != nil {
		return nil, err
	}
	if query == nil {
		return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "with", "subquery for %%%s is required", name)
	}
	return &With{name: name, query: query}, nil
}

// Name returns the solution set name.
func (w *With) Name() string { return w.name }

// Query returns the named subquery.
func (w *With) Query() *sparql.Query { return w.query }

func (w *With) Serialize(mode sparql.Mode) string {
	return "\nWITH\n{\n" + w.query.Serialize(mode) + "}\nAS %" + w.name + "\n"
}

func (w *With) Key() ir.Key {
	return ir.MustKey(ir.DomainStatement, ir.IRObject{
		"node":  ir.IRString("with"),
		"name":  ir.IRString(w.name),
		"query": ir.IRString(w.query.Key()),
	})
}
