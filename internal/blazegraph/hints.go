package blazegraph

import (
	"strconv"
	"strings"

	"github.com/roach88/sparqb/internal/sparql"
)

// Hint names, rendered as hint:<name>.
const (
	HintQueryID     = "queryId"
	HintChunkSize   = "chunkSize"
	HintMaxParallel = "maxParallel"
	HintOptimizer   = "optimizer"
)

// HintSubject is the subject of every query-scoped hint.
const HintSubject = "hint:Query"

// Optimizer selects Blazegraph's join-order optimizer.
type Optimizer string

const (
	OptimizerNone    Optimizer = "None"
	OptimizerStatic  Optimizer = "Static"
	OptimizerRuntime Optimizer = "Runtime"
)

// Valid reports whether o is one of the known optimizer modes.
func (o Optimizer) Valid() bool {
	switch o {
	case OptimizerNone, OptimizerStatic, OptimizerRuntime:
		return true
	}
	return false
}

// ParseOptimizer parses an optimizer mode in any letter case.
func ParseOptimizer(s string) (Optimizer, error) {
	for _, o := range []Optimizer{OptimizerNone, OptimizerStatic, OptimizerRuntime} {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", sparql.NewNodeError(sparql.ErrCodeInvalid, "optimizer", "unknown optimizer %q (want None, Static or Runtime)", s)
}

// Hint is a query hint: hint:Query hint:<name> "<value>" .
type Hint struct {
	*sparql.Axiom
	name  string
	value string
}

func newHint(name, value string) (*Hint, error) {
	subject, err := sparql.NewURI(HintSubject)
	if err != nil {
		return nil, err
	}
	object, err := sparql.NewLiteral(sparql.QuoteString(value))
	if err != nil {
		return nil, err
	}
	ax, err := sparql.NewAxiom(subject, "hint:"+name, object)
	if err != nil {
		return nil, err
	}
	return &Hint{Axiom: ax, name: name, value: value}, nil
}

// NewQueryID tags the query with an id that shows up in Blazegraph's
// running-query list and can be used to cancel it.
func NewQueryID(id string) (*Hint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "hint", "query id is required")
	}
	return newHint(HintQueryID, id)
}

// NewChunkSize sets the vectoring chunk size. n must be positive.
func NewChunkSize(n int) (*Hint, error) {
	if n <= 0 {
		return nil, sparql.NewNodeError(sparql.ErrCodeInvalid, "hint", "chunk size must be positive, got %d", n)
	}
	return newHint(HintChunkSize, strconv.Itoa(n))
}

// NewMaxParallel caps the parallelism of each operator. n must be positive.
func NewMaxParallel(n int) (*Hint, error) {
	if n <= 0 {
		return nil, sparql.NewNodeError(sparql.ErrCodeInvalid, "hint", "max parallel must be positive, got %d", n)
	}
	return newHint(HintMaxParallel, strconv.Itoa(n))
}

// NewOptimizerHint selects the join-order optimizer.
func NewOptimizerHint(o Optimizer) (*Hint, error) {
	if !o.Valid() {
		return nil, sparql.NewNodeError(sparql.ErrCodeInvalid, "hint", "unknown optimizer %q", string(o))
	}
	return newHint(HintOptimizer, string(o))
}

// Name returns the hint name without the hint: prefix.
func (h *Hint) Name() string { return h.name }

// Value returns the unquoted hint value.
func (h *Hint) Value() string { return h.value }
