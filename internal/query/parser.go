package query

import "strings"

// Parse turns a raw query string into an AST. Adjacent terms combine with
// AND; "or" between terms combines with OR; a leading minus excludes a term;
// quoted text becomes a phrase. The parser is lenient: malformed input
// degrades to the terms that could be read rather than failing.
func Parse(text string) *Query {
	tokens := lex(text)
	p := &parser{tokens: tokens}
	root := &RootNode{}
	if node := p.parseOr(); node != nil {
		root.Children = append(root.Children, node)
	}
	return &Query{Root: root}
}

type lexKind int

const (
	lexWord lexKind = iota
	lexPhrase
	lexExclude
	lexField
	lexWildcard
	lexFuzzy
	lexRange
	lexOr
	lexAnd
	lexNot
	lexLParen
	lexRParen
)

type lexToken struct {
	kind  lexKind
	value string
	extra string
}

func lex(text string) []lexToken {
	var tokens []lexToken
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case isSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, lexToken{kind: lexLParen})
			i++
		case r == ')':
			tokens = append(tokens, lexToken{kind: lexRParen})
			i++
		case r == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			tokens = append(tokens, lexToken{kind: lexPhrase, value: string(runes[i+1 : j])})
			if j < len(runes) {
				j++
			}
			i = j
		case r == '[':
			j := i + 1
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			low, high := splitRange(string(runes[i+1 : j]))
			tokens = append(tokens, lexToken{kind: lexRange, value: low, extra: high})
			if j < len(runes) {
				j++
			}
			i = j
		default:
			j := i
			for j < len(runes) && !isSpace(runes[j]) && runes[j] != '(' && runes[j] != ')' && runes[j] != '"' {
				j++
			}
			tokens = append(tokens, classifyWord(string(runes[i:j])))
			i = j
		}
	}
	return tokens
}

func classifyWord(word string) lexToken {
	switch strings.ToLower(word) {
	case "or":
		return lexToken{kind: lexOr}
	case "and":
		return lexToken{kind: lexAnd}
	case "not":
		return lexToken{kind: lexNot}
	}
	if strings.HasPrefix(word, "-") && len(word) > 1 {
		return lexToken{kind: lexExclude, value: word[1:]}
	}
	if field, value, ok := strings.Cut(word, ":"); ok && field != "" && value != "" {
		return lexToken{kind: lexField, value: field, extra: value}
	}
	if strings.ContainsAny(word, "*?") {
		return lexToken{kind: lexWildcard, value: word}
	}
	if idx := strings.IndexByte(word, '~'); idx > 0 {
		return lexToken{kind: lexFuzzy, value: word[:idx]}
	}
	return lexToken{kind: lexWord, value: word}
}

func splitRange(body string) (string, string) {
	parts := strings.Fields(body)
	for i, p := range parts {
		if strings.EqualFold(p, "to") && i > 0 && i < len(parts)-1 {
			return strings.Join(parts[:i], " "), strings.Join(parts[i+1:], " ")
		}
	}
	return strings.TrimSpace(body), ""
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

type parser struct {
	tokens []lexToken
	pos    int
}

func (p *parser) peek() (lexToken, bool) {
	if p.pos >= len(p.tokens) {
		return lexToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (lexToken, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) parseOr() Node {
	parts := []Node{}
	if part := p.parseAnd(); part != nil {
		parts = append(parts, part)
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != lexOr {
			break
		}
		p.pos++
		if part := p.parseAnd(); part != nil {
			parts = append(parts, part)
		}
	}
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}
	return &OrNode{Children: parts}
}

func (p *parser) parseAnd() Node {
	units := []Node{}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind == lexOr || tok.kind == lexRParen {
			break
		}
		if tok.kind == lexAnd {
			p.pos++
			continue
		}
		if unit := p.parseUnary(); unit != nil {
			units = append(units, unit)
		}
	}
	switch len(units) {
	case 0:
		return nil
	case 1:
		return units[0]
	}
	return &AndNode{Children: units}
}

func (p *parser) parseUnary() Node {
	tok, ok := p.next()
	if !ok {
		return nil
	}
	switch tok.kind {
	case lexNot:
		child := p.parseUnary()
		if child == nil {
			return nil
		}
		return &NotNode{Child: child}
	case lexLParen:
		node := p.parseOr()
		if next, ok := p.peek(); ok && next.kind == lexRParen {
			p.pos++
		}
		return node
	case lexWord:
		return &TokenNode{Kind: Keyword, Value: tok.value}
	case lexExclude:
		return &TokenNode{Kind: Exclude, Value: tok.value}
	case lexPhrase:
		return &PhraseNode{Phrase: tok.value}
	case lexField:
		return &FieldNode{Field: tok.value, Value: tok.extra}
	case lexWildcard:
		return &WildcardNode{Pattern: tok.value}
	case lexFuzzy:
		return &FuzzyNode{Term: tok.value}
	case lexRange:
		return &RangeNode{Low: tok.value, High: tok.extra}
	case lexRParen:
		return nil
	}
	return nil
}
