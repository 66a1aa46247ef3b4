package blazegraph

import (
	"strings"

	"github.com/roach88/sparqb/internal/ir"
	"github.com/roach88/sparqb/internal/sparql"
)

// Include splices a named solution set into the WHERE body: INCLUDE %name.
// The set is either produced by a WITH block of the same query or stored
// server-side.
type Include struct {
	sparql.Extension
	name string
}

// NewInclude references the solution set of a WITH block. A leading "%" is
// stripped.
func NewInclude(name string) (*Include, error) {
	name, err := solutionSetName("include", name)
	if err != nil {
		return nil, err
	}
	return &Include{name: name}, nil
}

// NewSolutionSet references a named solution set stored on the server. It
// renders exactly like NewInclude.
func NewSolutionSet(name string) (*Include, error) {
	name, err := solutionSetName("solution_set", name)
	if err != nil {
		return nil, err
	}
	return &Include{name: name}, nil
}

// Name returns the solution set name without the "%" sigil.
func (i *Include) Name() string { return i.name }

func (i *Include) Serialize(sparql.Mode) string { return " INCLUDE %" + i.name + " \n" }

func (i *Include) Key() ir.Key {
	return ir.MustKey(ir.DomainStatement, ir.IRObject{
		"node": ir.IRString("include"),
		"name": ir.IRString(i.name),
	})
}

func solutionSetName(node, name string) (string, error) {
	name = strings.TrimPrefix(name, "%")
	if strings.TrimSpace(name) == "" {
		return "", sparql.NewNodeError(sparql.ErrCodeEmpty, node, "solution set name is required")
	}
	if strings.ContainsAny(name, " \t\r\n{}%") {
		return "", sparql.NewNodeError(sparql.ErrCodeInvalid, node, "solution set name %q contains whitespace or braces", name)
	}
	return name, nil
}
