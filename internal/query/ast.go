// Package query parses free-text search queries into a boolean AST. The AST
// is a closed set of node kinds; consumers switch over them exhaustively, so
// adding a kind forces a decision at every call site.
package query

// Node is one node of a parsed query. The set of implementations is closed.
type Node interface {
	isNode()
}

// RootNode is the top of every parsed query. An empty query has no children.
type RootNode struct {
	Children []Node
}

// AndNode requires all of its children to match.
type AndNode struct {
	Children []Node
}

// OrNode requires at least one of its children to match.
type OrNode struct {
	Children []Node
}

// NotNode negates its single child.
type NotNode struct {
	Child Node
}

// TokenKind distinguishes plain keywords from minus-prefixed exclusions.
type TokenKind int

const (
	Keyword TokenKind = iota
	Exclude
)

// TokenNode is a single search term.
type TokenNode struct {
	Kind  TokenKind
	Value string
}

// PhraseNode is a quoted phrase. All tokens derived from the phrase text must
// appear in a matching document.
type PhraseNode struct {
	Phrase string
}

// FieldNode is a field:value term. Recognized but not compiled.
type FieldNode struct {
	Field string
	Value string
}

// WildcardNode is a term containing a wildcard. Recognized but not compiled.
type WildcardNode struct {
	Pattern string
}

// FuzzyNode is a term with a trailing tilde. Recognized but not compiled.
type FuzzyNode struct {
	Term string
}

// RangeNode is a [low TO high] term. Recognized but not compiled.
type RangeNode struct {
	Low  string
	High string
}

func (*RootNode) isNode()     {}
func (*AndNode) isNode()      {}
func (*OrNode) isNode()       {}
func (*NotNode) isNode()      {}
func (*TokenNode) isNode()    {}
func (*PhraseNode) isNode()   {}
func (*FieldNode) isNode()    {}
func (*WildcardNode) isNode() {}
func (*FuzzyNode) isNode()    {}
func (*RangeNode) isNode()    {}

// Query wraps the root of a parsed query.
type Query struct {
	Root *RootNode
}

// IsEmpty reports whether the query contains no terms at all.
func (q *Query) IsEmpty() bool {
	return q == nil || q.Root == nil || len(q.Root.Children) == 0
}
