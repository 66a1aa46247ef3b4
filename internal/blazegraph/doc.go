// Package blazegraph layers Blazegraph's SPARQL extensions on the core AST.
//
// Everything here is built from the extension points of package sparql:
//
//   - Hint embeds *sparql.Axiom: query hints are triples against hint:Query.
//   - Search embeds *sparql.Service: full-text search is a SERVICE call on
//     the bds:search endpoint.
//   - Include embeds sparql.Extension: INCLUDE %name is a new leaf.
//   - Query embeds *sparql.Query and fills the WITH section of the
//     rendered template; its key folds in the WITH blocks.
//
// QueryBuilder extends builder.QueryBuilder with the hint, search, INCLUDE
// and named-subquery methods. Named subqueries (WITH ... AS %name) are only
// accepted on the outermost builder.
package blazegraph
