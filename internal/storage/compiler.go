package storage

import (
	"fmt"
	"strings"

	"blog-api/internal/query"
	"blog-api/internal/tokenizer"
)

// QueryCompiler lowers a parsed query into a SQL predicate over the
// entry_tokens table plus a parameter map. The compiler itself holds no
// per-call state; each Compile allocates its own parameter counter and map,
// so one compiler is safe for concurrent use.
type QueryCompiler struct {
	tokenizer tokenizer.Tokenizer
}

func NewQueryCompiler(tok tokenizer.Tokenizer) *QueryCompiler {
	return &QueryCompiler{tokenizer: tok}
}

// CompiledQuery is a SQL boolean expression plus its bound parameters.
// Set-valued parameters hold a term's token set; their companion size
// parameter holds the set's cardinality.
type CompiledQuery struct {
	Where  string
	Params map[string]any
}

// Compile lowers q. An empty query compiles to the always-true predicate.
func (c *QueryCompiler) Compile(q *query.Query) CompiledQuery {
	if q.IsEmpty() {
		return CompiledQuery{Where: "1=1", Params: map[string]any{}}
	}
	comp := &compilation{tokenizer: c.tokenizer, params: map[string]any{}, counter: 1}
	return CompiledQuery{Where: comp.compile(q.Root), Params: comp.params}
}

// compilation carries the state of one Compile call: the parameter map under
// construction and the monotonically increasing parameter counter.
type compilation struct {
	tokenizer tokenizer.Tokenizer
	params    map[string]any
	counter   int
}

func (c *compilation) compile(node query.Node) string {
	switch n := node.(type) {
	case *query.RootNode:
		return strings.Join(c.compileChildren(n.Children, false), " AND ")
	case *query.AndNode:
		joined := strings.Join(c.compileChildren(n.Children, true), " AND ")
		if len(n.Children) > 1 {
			return "(" + joined + ")"
		}
		return joined
	case *query.OrNode:
		return "(" + strings.Join(c.compileChildren(n.Children, true), " OR ") + ")"
	case *query.NotNode:
		// NOT over a plain keyword compiles straight to a negated
		// containment clause instead of wrapping a positive clause in NOT.
		if tok, ok := n.Child.(*query.TokenNode); ok && tok.Kind == query.Keyword {
			return c.containment(tok.Value, true)
		}
		child := c.compile(n.Child)
		if child == "" {
			return ""
		}
		return "NOT " + child
	case *query.TokenNode:
		switch n.Kind {
		case query.Keyword:
			return c.containment(n.Value, false)
		case query.Exclude:
			return c.containment(n.Value, true)
		}
		return ""
	case *query.PhraseNode:
		return c.containment(n.Phrase, false)
	case *query.FieldNode, *query.WildcardNode, *query.FuzzyNode, *query.RangeNode:
		// Recognized but unsupported: contributes no constraint.
		return ""
	default:
		panic(fmt.Sprintf("unhandled query node %T", node))
	}
}

func (c *compilation) compileChildren(children []query.Node, parenthesize bool) []string {
	var compiled []string
	for _, child := range children {
		sql := c.compile(child)
		if sql == "" {
			continue
		}
		if parenthesize {
			sql = "(" + sql + ")"
		}
		compiled = append(compiled, sql)
	}
	return compiled
}

// containment emits the set-containment subquery shared by keyword, phrase
// and exclusion terms. Requiring the per-entry distinct-token count to equal
// the query token set's cardinality turns "contains any" into "contains all".
// A term whose text tokenizes to nothing can never match and compiles to an
// always-false clause.
func (c *compilation) containment(value string, negated bool) string {
	index := c.counter
	c.counter++
	tokens := c.tokenizer.Tokenize(value)
	if len(tokens) == 0 {
		return "1=2"
	}
	tokensParam := fmt.Sprintf("tokens%d", index)
	sizeParam := fmt.Sprintf("tokensSize%d", index)
	c.params[tokensParam] = tokens
	c.params[sizeParam] = len(tokens)
	not := ""
	if negated {
		not = "NOT "
	}
	return fmt.Sprintf(
		"e.id %sIN (SELECT entry_id FROM entry_tokens WHERE token IN (:%s) GROUP BY entry_id HAVING COUNT(DISTINCT token) = :%s)",
		not, tokensParam, sizeParam)
}
