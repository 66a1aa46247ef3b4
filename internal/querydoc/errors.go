package querydoc

import "errors"

// CompileError reports where in a document compilation failed. Path uses
// field names and list indexes: "where[2].optional[0].axiom".
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error { return e.Err }

// errDialect is returned for constructs the selected dialect lacks.
var errDialect = errors.New("requires dialect blazegraph")
