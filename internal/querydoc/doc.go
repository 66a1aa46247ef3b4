// Package querydoc compiles declarative query documents into SPARQL.
//
// A document describes one SELECT query in YAML, JSON or CUE:
//
//	name: analyte-types
//	dialect: blazegraph
//	prefixes:
//	  tcga: https://example.org/tcga#
//	select: [type, {as: {count: a}, var: n}]
//	where:
//	  - axiom: [a, a, type]
//	  - optional:
//	      - axiom: [type, "rdfs:label", label]
//	group_by: [type]
//	hints:
//	  query_id: auto
//
// Documents are decoded with yaml.v3 (CUE files are evaluated first and
// exported as JSON) and compiled through the builder packages, so the
// conversion rules of package builder apply to every scalar.
//
// A YAML file may hold several documents separated by "---", and any file
// may instead hold a top-level "queries" list.
package querydoc
