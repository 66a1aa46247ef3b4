package sparql

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes node construction errors.
type ErrorCode string

const (
	// ErrCodeEmpty indicates a required field is missing: blank variable
	// name, empty literal, nil expression, empty regex pattern.
	ErrCodeEmpty ErrorCode = "EMPTY"

	// ErrCodeKindMismatch indicates an AS-kind expression where a VALUE-kind
	// one is required (or vice versa), or a node of the wrong variant.
	ErrCodeKindMismatch ErrorCode = "KIND_MISMATCH"

	// ErrCodeMalformedURI indicates a string that is neither a prefixed
	// short form nor an absolute http(s) URL.
	ErrCodeMalformedURI ErrorCode = "MALFORMED_URI"

	// ErrCodeInvalid indicates a value of the right type but out of range:
	// VALUES row arity, negative LIMIT/OFFSET, non-positive hint values.
	ErrCodeInvalid ErrorCode = "INVALID"
)

// NodeError is returned by node constructors.
type NodeError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Node names the node being constructed (e.g. "variable", "axiom").
	Node string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Node, e.Message)
}

// NewNodeError creates a NodeError. Exported for dialect packages that
// declare their own nodes.
func NewNodeError(code ErrorCode, node, format string, args ...any) *NodeError {
	return &NodeError{Code: code, Node: node, Message: fmt.Sprintf(format, args...)}
}

func emptyError(node, format string, args ...any) *NodeError {
	return NewNodeError(ErrCodeEmpty, node, format, args...)
}

func kindError(node, format string, args ...any) *NodeError {
	return NewNodeError(ErrCodeKindMismatch, node, format, args...)
}

// IsEmptyError returns true if err is a NodeError with ErrCodeEmpty.
// Uses errors.As to handle wrapped errors.
func IsEmptyError(err error) bool { return hasCode(err, ErrCodeEmpty) }

// IsKindMismatch returns true if err is a NodeError with ErrCodeKindMismatch.
func IsKindMismatch(err error) bool { return hasCode(err, ErrCodeKindMismatch) }

// IsMalformedURI returns true if err is a NodeError with ErrCodeMalformedURI.
func IsMalformedURI(err error) bool { return hasCode(err, ErrCodeMalformedURI) }

// IsInvalid returns true if err is a NodeError with ErrCodeInvalid.
func IsInvalid(err error) bool { return hasCode(err, ErrCodeInvalid) }

func hasCode(err error, code ErrorCode) bool {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Code == code
	}
	return false
}
