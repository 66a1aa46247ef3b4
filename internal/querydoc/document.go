package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dialect selects the SPARQL flavor a document compiles to.
type Dialect string

const (
	// DialectSPARQL is plain SPARQL 1.1.
	DialectSPARQL Dialect = "sparql"

	// DialectBlazegraph adds hints, full-text search, INCLUDE and WITH.
	DialectBlazegraph Dialect = "blazegraph"
)

// ParseDialect validates a dialect name. Empty means DialectSPARQL.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case "", DialectSPARQL:
		return DialectSPARQL, nil
	case DialectBlazegraph:
		return DialectBlazegraph, nil
	}
	return "", fmt.Errorf("unknown dialect %q (want sparql or blazegraph)", s)
}

// Document is one query document.
//
// Select, GroupBy, OrderBy and Having hold expressions: scalars follow the
// builder conversion rules and maps are expression objects ({count: a},
// {gt: [n, 10]}, ...). Where holds pattern objects with exactly one key
// ({axiom: [s, p, o]}, {optional: [...]}, ...).
type Document struct {
	Name     string            `yaml:"name,omitempty"`
	Dialect  string            `yaml:"dialect,omitempty"`
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
	Select   []any             `yaml:"select,omitempty"`
	Distinct bool              `yaml:"distinct,omitempty"`
	Where    []any             `yaml:"where,omitempty"`
	GroupBy  []any             `yaml:"group_by,omitempty"`
	Having   any               `yaml:"having,omitempty"`
	OrderBy  []any             `yaml:"order_by,omitempty"`
	Limit    *int              `yaml:"limit,omitempty"`
	Offset   *int              `yaml:"offset,omitempty"`
	Hints    *Hints            `yaml:"hints,omitempty"`
	With     []NamedQuery      `yaml:"with,omitempty"`
}

// Hints are Blazegraph query hints.
type Hints struct {
	// QueryID tags the query; "auto" generates one.
	QueryID     string `yaml:"query_id,omitempty"`
	ChunkSize   int    `yaml:"chunk_size,omitempty"`
	MaxParallel int    `yaml:"max_parallel,omitempty"`
	Optimizer   string `yaml:"optimizer,omitempty"`
}

// NamedQuery is a Blazegraph WITH block.
type NamedQuery struct {
	Name  string   `yaml:"name"`
	Query Document `yaml:"query"`
}

// AutoQueryID asks the compiler to generate a query id.
const AutoQueryID = "auto"

// Decode reads every document in a YAML (or JSON) stream.
func Decode(r io.Reader) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []*Document
	for i := 0; ; i++ {
		var raw map[string]any
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if raw == nil {
			continue
		}
		found, err := expand(raw)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, found...)
	}
	return docs, nil
}

// expand splits a top-level "queries" list into documents.
func expand(raw map[string]any) ([]*Document, error) {
	list, ok := raw["queries"]
	if !ok {
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		return []*Document{doc}, nil
	}
	if len(raw) != 1 {
		return nil, errors.New(`"queries" cannot be combined with other top-level fields`)
	}
	items, ok := list.([]any)
	if !ok {
		return nil, fmt.Errorf(`"queries" must be a list, got %T`, list)
	}
	docs := make([]*Document, 0, len(items))
	for i, item := range items {
		doc, err := decodeDocument(item)
		if err != nil {
			return nil, fmt.Errorf("queries[%d]: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// decodeDocument converts a generic map into a Document, rejecting unknown
// fields.
func decodeDocument(v any) (*Document, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
