package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/sparqb/internal/sparql"
)

// Term converts a loosely typed value to an expression using the term
// conversion rules. Expr and sparql.Expression values pass through.
func Term(v any) (sparql.Expression, error) {
	switch t := v.(type) {
	case nil:
		return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "term", "value is required")
	case Expr:
		return t.Node()
	case sparql.Expression:
		return t, nil
	case string:
		return stringTerm(t)
	case bool:
		return sparql.NewLiteral(strconv.FormatBool(t))
	case int:
		return sparql.NewLiteral(strconv.Itoa(t))
	case int64:
		return sparql.NewLiteral(strconv.FormatInt(t, 10))
	case float64:
		return sparql.NewLiteral(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		return nil, sparql.NewNodeError(sparql.ErrCodeKindMismatch, "term", "cannot use %T as a SPARQL term", v)
	}
}

func stringTerm(s string) (sparql.Expression, error) {
	switch {
	case s == "*":
		return sparql.NewStar(), nil
	case strings.HasPrefix(s, `"`):
		return sparql.NewLiteral(s)
	case sparql.IsValidURI(s):
		return sparql.NewURI(s)
	default:
		return sparql.NewVariable(s)
	}
}

// variableTerm converts projection, GROUP BY and ORDER BY items: strings
// are variables ("*" is the wildcard), everything else follows Term.
func variableTerm(v any) (sparql.Expression, error) {
	if s, ok := v.(string); ok {
		if s == "*" {
			return sparql.NewStar(), nil
		}
		return sparql.NewVariable(s)
	}
	return Term(v)
}

func terms(vs []any, convert func(any) (sparql.Expression, error)) ([]sparql.Expression, error) {
	out := make([]sparql.Expression, len(vs))
	for i, v := range vs {
		e, err := convert(v)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}
