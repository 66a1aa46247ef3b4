// Package sparql provides an immutable abstract syntax tree for SPARQL
// SELECT queries and a serializer that walks it.
//
// ARCHITECTURE:
//
//	[builder / querydoc] → [Expression, Statement, Query] → SPARQL text
//	                                                      → ir.Key
//
// Nodes are created by validating constructors (NewVariable, NewAxiom,
// NewQuery, ...) and never change afterwards. A constructor either returns a
// usable node or a *NodeError; partially built nodes are never observable.
// Serialization and key computation cannot fail on a tree of valid nodes.
//
// SEALED AND OPEN INTERFACES:
//
// Expression is sealed with a marker method. The set of SPARQL value
// expressions is closed and consumers can switch on it exhaustively.
//
// Statement is sealed the same way, but with an explicit extension point:
// types in other packages become statements by embedding Extension or an
// existing statement node. Vendor dialects (see internal/blazegraph) add
// hints, full-text search and INCLUDE this way without touching this package.
//
// STRUCTURAL KEYS:
//
// Every node has a Key. Leaves hash their serialized text. Compound nodes hash
// a variant tag plus the sorted multiset of their children's keys, so
//
//	{ ?a a :X . ?a :p ?b . }   and   { ?a :p ?b . ?a a :X . }
//
// share a key while OPTIONAL { ... } and MINUS { ... } over the same children
// do not. Query keys also fold in the sorted projection, GROUP BY and ORDER BY
// keys. See Equal and Unique.
//
// QUERY SECTIONS:
//
// Query renders through Sections, a fixed-order template
// (PREFIX, SELECT, WITH, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT, OFFSET).
// Dialects fill sections they own (WITH) rather than branching inside the
// base serializer.
package sparql
