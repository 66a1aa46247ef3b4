package sparql

import (
	"github.com/roach88/sparqb/internal/ir"
)

// block is the child list shared by every compound statement.
type block struct {
	children []Statement
}

func newBlock(node string, children []Statement) (block, error) {
	for i, c := range children {
		if isNil(c) {
			return block{}, emptyError(node, "child statement %d is nil", i)
		}
	}
	return block{children: append([]Statement(nil), children...)}, nil
}

// Children returns a copy of the child statements in insertion order.
func (b block) Children() []Statement { return append([]Statement(nil), b.children...) }

// Len returns the number of children.
func (b block) Len() int { return len(b.children) }

func (b block) body(mode Mode) string {
	return "{\n" + joinSerialized(b.children, mode, " \n") + "}\n"
}

// key hashes the children as a multiset together with the variant tag and
// any variant fields.
func (b block) key(node string, fields ir.IRObject) ir.Key {
	doc := ir.IRObject{
		"node":     ir.IRString(node),
		"children": ir.KeySet(keysOf(b.children)),
	}
	for k, v := range fields {
		doc[k] = v
	}
	return ir.MustKey(ir.DomainStatement, doc)
}

// Group is a plain braced block: { ... }.
type Group struct{ block }

// NewGroup creates a braced group of statements.
func NewGroup(children ...Statement) (*Group, error) {
	b, err := newBlock("group", children)
	if err != nil {
		return nil, err
	}
	return &Group{b}, nil
}

func (g *Group) Serialize(mode Mode) string { return g.body(mode) }
func (g *Group) Key() ir.Key { return g.key("group", nil) }
func (*Group) statementNode() {}

// Optional is OPTIONAL { ... }.
type Optional struct{ block }

// NewOptional creates an OPTIONAL block.
func NewOptional(children ...Statement) (*Optional, error) {
	b, err := newBlock("optional", children)
	if err != nil {
		return nil, err
	}
	return &Optional{b}, nil
}

func (o *Optional) Serialize(mode Mode) string { return "OPTIONAL " + o.body(mode) }
func (o *Optional) Key() ir.Key { return o.key("optional", nil) }
func (*Optional) statementNode() {}

// Union is one alternative of a UNION chain.
//
// The keyword flag only affects rendering: a chain A UNION B UNION C is a
// sequence of Union siblings where the first carries the keyword and the
// following ones share it. Two unions that differ only in the flag have the
// same key.
type Union struct {
	block
	keyword bool
}

// NewUnion creates a UNION block. keyword controls whether "UNION " is
// emitted before the braces.
func NewUnion(keyword bool, children ...Statement) (*Union, error) {
	b, err := newBlock("union", children)
	if err != nil {
		return nil, err
	}
	return &Union{block: b, keyword: keyword}, nil
}

// Keyword reports whether the block renders its own UNION keyword.
func (u *Union) Keyword() bool { return u.keyword }

func (u *Union) Serialize(mode Mode) string {
	if u.keyword {
		return "UNION " + u.body(mode)
	}
	return u.body(mode)
}

func (u *Union) Key() ir.Key { return u.key("union", nil) }
func (*Union) statementNode() {}

// Minus is MINUS { ... }.
type Minus struct{ block }

// NewMinus creates a MINUS block.
func NewMinus(children ...Statement) (*Minus, error) {
	b, err := newBlock("minus", children)
	if err != nil {
		return nil, err
	}
	return &Minus{b}, nil
}

func (m *Minus) Serialize(mode Mode) string { return "MINUS " + m.body(mode) }
func (m *Minus) Key() ir.Key { return m.key("minus", nil) }
func (*Minus) statementNode() {}

// Service is a federated block: SERVICE <uri> { ... }.
type Service struct {
	block
	uri *URI
}

// NewService creates a SERVICE block against uri.
func NewService(uri *URI, children ...Statement) (*Service, error) {
	if uri == nil {
		return nil, emptyError("service", "service uri is required")
	}
	b, err := newBlock("service", children)
	if err != nil {
		return nil, err
	}
	return &Service{block: b, uri: uri}, nil
}

// URI returns the service endpoint.
func (s *Service) URI() *URI { return s.uri }

func (s *Service) Serialize(mode Mode) string {
	return " SERVICE " + s.uri.Serialize(mode) + " " + s.body(mode)
}

func (s *Service) Key() ir.Key {
	return s.key("service", ir.IRObject{"uri": ir.IRString(s.uri.Value())})
}

func (*Service) statementNode() {}

// FilterExists is FILTER EXISTS { ... } or FILTER NOT EXISTS { ... }.
type FilterExists struct {
	block
	negated bool
}

// NewFilterExists creates an existence filter. negated selects NOT EXISTS.
func NewFilterExists(negated bool, children ...Statement) (*FilterExists, error) {
	b, err := newBlock("filter_exists", children)
	if err != nil {
		return nil, err
	}
	return &FilterExists{block: b, negated: negated}, nil
}

// Negated reports whether this is a NOT EXISTS filter.
func (f *FilterExists) Negated() bool { return f.negated }

func (f *FilterExists) Serialize(mode Mode) string {
	if f.negated {
		return " FILTER NOT EXISTS " + f.body(mode)
	}
	return " FILTER EXISTS " + f.body(mode)
}

func (f *FilterExists) Key() ir.Key {
	return f.key("filter_exists", ir.IRObject{"negated": ir.IRBool(f.negated)})
}

func (*FilterExists) statementNode() {}
