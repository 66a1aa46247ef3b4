package blazegraph

import (
	"strconv"
	"strings"

	"github.com/roach88/sparqb/internal/sparql"
)

// Full-text search vocabulary (bds: namespace).
const (
	SearchNamespace = "http://www.bigdata.com/rdf/search#"
	SearchService   = SearchNamespace + "search"

	predSearch        = "<" + SearchNamespace + "search>"
	predMatchAllTerms = "<" + SearchNamespace + "matchAllTerms>"
	predRelevance     = "<" + SearchNamespace + "relevance>"
)

// Search is a full-text search against Blazegraph's built-in index. It
// renders as a SERVICE block on bds:search holding the search, matchAllTerms
// and optional relevance triples.
type Search struct {
	*sparql.Service
	variable  *sparql.Variable
	text      string
	matchAll  bool
	relevance *sparql.Variable
}

// NewSearch binds variable to literals matching text. relevance may be nil.
func NewSearch(variable *sparql.Variable, text string, matchAll bool, relevance *sparql.Variable) (*Search, error) {
	if variable == nil {
		return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "search", "search variable is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, sparql.NewNodeError(sparql.ErrCodeEmpty, "search", "search text is required")
	}

	query, err := sparql.NewLiteral(sparql.QuoteString(text))
	if err != nil {
		return nil, err
	}
	flag, err := sparql.NewLiteral(sparql.QuoteString(strconv.FormatBool(matchAll)))
	if err != nil {
		return nil, err
	}

	children := make([]sparql.Statement, 0, 3)
	for _, triple := range []struct {
		pred string
		obj  sparql.Expression
	}{
		{predSearch, query},
		{predMatchAllTerms, flag},
	} {
		ax, err := sparql.NewAxiom(variable, triple.pred, triple.obj)
		if err != nil {
			return nil, err
		}
		children = append(children, ax)
	}
	if relevance != nil {
		ax, err := sparql.NewAxiom(variable, predRelevance, relevance)
		if err != nil {
			return nil, err
		}
		children = append(children, ax)
	}

	endpoint, err := sparql.NewURI(SearchService)
	if err != nil {
		return nil, err
	}
	svc, err := sparql.NewService(endpoint, children...)
	if err != nil {
		return nil, err
	}
	return &Search{Service: svc, variable: variable, text: text, matchAll: matchAll, relevance: relevance}, nil
}

// Variable returns the variable bound to matching literals.
func (s *Search) Variable() *sparql.Variable { return s.variable }

// Text returns the search text.
func (s *Search) Text() string { return s.text }

// MatchAllTerms reports whether every term must match.
func (s *Search) MatchAllTerms() bool { return s.matchAll }

// Relevance returns the relevance variable, or nil.
func (s *Search) Relevance() *sparql.Variable { return s.relevance }
