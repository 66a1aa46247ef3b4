// Package builder assembles sparql queries from loosely typed input.
//
// The sparql package only accepts fully formed nodes. Builders sit in front
// of it: they accept strings, numbers and booleans, convert them to
// expressions, collect WHERE patterns through nested closures and freeze the
// result with one NewQuery call.
//
//	q, err := builder.NewQuery().
//	    Prefix("tcga", "https://example.org/tcga#").
//	    Select("type", builder.Count("a").As("n")).
//	    Where(func(p *builder.Patterns) {
//	        p.Axiom("a", "a", "type")
//	        p.Optional(func(p *builder.Patterns) {
//	            p.Axiom("type", "rdfs:label", "label")
//	        })
//	    }).
//	    GroupBy("type").
//	    Build()
//
// CONVERSION RULES:
//
// In term positions (axiom subject/object, VALUES cells, function arguments):
//   - "*" is the wildcard
//   - a string starting with a double quote is a literal token
//   - a valid URI (prefix:Local or http(s)://...) is a URI
//   - any other string is a variable name ("a" and "?a" are the same)
//   - integers, floats and booleans are literals
//
// In SELECT, GROUP BY and ORDER BY lists strings are always variables.
//
// ERRORS:
//
// Builder methods never return errors. The first failure is recorded and
// later calls keep chaining; Build returns that first error. A builder and
// all nested Patterns share one error slot and must be used from a single
// goroutine.
package builder
