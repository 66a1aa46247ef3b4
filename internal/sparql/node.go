package sparql

import (
	"reflect"
	"strings"

	"github.com/roach88/sparqb/internal/ir"
)

// Mode selects the serialization flavor.
//
// ModePretty is reserved for whitespace normalization; it currently renders
// exactly like ModeRaw and callers may rely on that.
type Mode string

const (
	ModeRaw    Mode = "raw"
	ModePretty Mode = "pretty"
)

// Node is implemented by every expression, statement and query.
type Node interface {
	// Serialize renders the node as SPARQL text.
	Serialize(mode Mode) string

	// Key returns the node's structural identity.
	Key() ir.Key
}

// isNil reports whether n is nil or an interface holding a nil pointer.
func isNil(n any) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// leafKey is the key of a node identified by its rendered text.
func leafKey(domain, node, text string) ir.Key {
	return ir.MustKey(domain, ir.IRObject{
		"node": ir.IRString(node),
		"text": ir.IRString(text),
	})
}

// keysOf collects the keys of nodes in order.
func keysOf[T Node](nodes []T) []ir.Key {
	keys := make([]ir.Key, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Key()
	}
	return keys
}

// joinSerialized renders nodes and joins them with sep.
func joinSerialized[T Node](nodes []T, mode Mode, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Serialize(mode)
	}
	return strings.Join(parts, sep)
}
