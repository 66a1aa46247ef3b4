package sparql

import (
	"fmt"
)

// ValidationResult contains portability analysis of a query.
//
// A portable query uses only standard SPARQL 1.1 constructs and should run
// unchanged on any compliant endpoint. Non-portable queries still serialize
// correctly; warnings only describe what would need rewriting.
type ValidationResult struct {
	// IsPortable indicates if the query uses only standard constructs.
	IsPortable bool

	// Warnings lists the findings in traversal order.
	// Empty when IsPortable is true.
	Warnings []string
}

// Validate walks q and reports constructs that are vendor-specific or
// likely mistakes:
//  1. Extension statements declared outside this package (vendor hints,
//     search services, INCLUDE)
//  2. SELECT * combined with GROUP BY
//  3. Compound blocks with no children
//  4. VALUES blocks with no rows
//  5. A Union without its keyword that does not follow another Union
//
// Validate is a pure function with no side effects.
func Validate(q *Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(q, "query")

	return ValidationResult{
		IsPortable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q *Query, path string) {
	if q == nil {
		v.addWarning("%s: nil query", path)
		return
	}
	if len(q.selects) == 0 && len(q.groupBy) > 0 {
		v.addWarning("%s: SELECT * with GROUP BY - project the grouped variables explicitly", path)
	}
	v.validateChildren(q.children, path)
}

func (v *validator) validateChildren(children []Statement, path string) {
	for i, c := range children {
		childPath := fmt.Sprintf("%s/%d", path, i)
		if u, ok := c.(*Union); ok && !u.keyword {
			if i == 0 {
				v.addWarning("%s: union without keyword has no preceding union", childPath)
			} else if _, prev := children[i-1].(*Union); !prev {
				v.addWarning("%s: union without keyword has no preceding union", childPath)
			}
		}
		v.validateStatement(c, childPath)
	}
}

func (v *validator) validateStatement(s Statement, path string) {
	switch st := s.(type) {
	case *Query:
		v.validateQuery(st, path)
	case *Values:
		if st.Len() == 0 {
			v.addWarning("%s: VALUES block has no rows and matches nothing", path)
		}
	case *Axiom, *Bind, *Filter:
		// Leaf statements are always standard.
	case *Group:
		v.validateBlock(st.block, "group", path)
	case *Optional:
		v.validateBlock(st.block, "OPTIONAL", path)
	case *Union:
		v.validateBlock(st.block, "UNION", path)
	case *Minus:
		v.validateBlock(st.block, "MINUS", path)
	case *Service:
		v.validateBlock(st.block, "SERVICE", path)
	case *FilterExists:
		v.validateBlock(st.block, "FILTER EXISTS", path)
	default:
		v.addWarning("%s: extension statement %T is not standard SPARQL", path, s)
	}
}

func (v *validator) validateBlock(b block, name, path string) {
	if len(b.children) == 0 {
		v.addWarning("%s: empty %s block", path, name)
	}
	v.validateChildren(b.children, path)
}
