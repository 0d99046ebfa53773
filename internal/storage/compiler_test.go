package storage

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"blog-api/internal/query"
	"blog-api/internal/tokenizer"
)

var (
	compilerTokenizerOnce sync.Once
	compilerTokenizer     *tokenizer.KagomeTokenizer
)

// testTokenizer shares one dictionary load across the compiler tests.
func testTokenizer(t *testing.T) *tokenizer.KagomeTokenizer {
	t.Helper()
	compilerTokenizerOnce.Do(func() {
		tok, err := tokenizer.NewKagomeTokenizer()
		if err != nil {
			t.Fatalf("NewKagomeTokenizer: %v", err)
		}
		compilerTokenizer = tok
	})
	return compilerTokenizer
}

func containmentClause(negated bool, index int) string {
	not := ""
	if negated {
		not = "NOT "
	}
	return fmt.Sprintf(
		"e.id %sIN (SELECT entry_id FROM entry_tokens WHERE token IN (:tokens%d) GROUP BY entry_id HAVING COUNT(DISTINCT token) = :tokensSize%d)",
		not, index, index)
}

func tokenSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func TestCompileImplicitAnd(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	compiled := compiler.Compile(query.Parse("hello spring-boot"))

	want := fmt.Sprintf("((%s) AND (%s))", containmentClause(false, 1), containmentClause(false, 2))
	if compiled.Where != want {
		t.Errorf("Where = %q, want %q", compiled.Where, want)
	}
	wantParams := map[string]any{
		"tokens1":     tokenSet("hello"),
		"tokensSize1": 1,
		"tokens2":     tokenSet("spring", "boot"),
		"tokensSize2": 2,
	}
	if !reflect.DeepEqual(compiled.Params, wantParams) {
		t.Errorf("Params = %v, want %v", compiled.Params, wantParams)
	}
}

func TestCompileExclusion(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	compiled := compiler.Compile(query.Parse("hello -world"))

	want := fmt.Sprintf("((%s) AND (%s))", containmentClause(false, 1), containmentClause(true, 2))
	if compiled.Where != want {
		t.Errorf("Where = %q, want %q", compiled.Where, want)
	}
	wantParams := map[string]any{
		"tokens1":     tokenSet("hello"),
		"tokensSize1": 1,
		"tokens2":     tokenSet("world"),
		"tokensSize2": 1,
	}
	if !reflect.DeepEqual(compiled.Params, wantParams) {
		t.Errorf("Params = %v, want %v", compiled.Params, wantParams)
	}
}

func TestCompileOr(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	compiled := compiler.Compile(query.Parse("hello or world"))

	want := fmt.Sprintf("((%s) OR (%s))", containmentClause(false, 1), containmentClause(false, 2))
	if compiled.Where != want {
		t.Errorf("Where = %q, want %q", compiled.Where, want)
	}
}

func TestCompileNotKeyword(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	compiled := compiler.Compile(query.Parse("not world"))

	want := containmentClause(true, 1)
	if compiled.Where != want {
		t.Errorf("Where = %q, want %q", compiled.Where, want)
	}
}

func TestCompileEmptyQuery(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	compiled := compiler.Compile(query.Parse(""))

	if compiled.Where != "1=1" {
		t.Errorf("Where = %q, want %q", compiled.Where, "1=1")
	}
	if len(compiled.Params) != 0 {
		t.Errorf("Params = %v, want empty", compiled.Params)
	}
}

func TestCompileUntokenizableTerm(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	// Single ASCII letters never survive tokenization, so the term can
	// never match any entry.
	compiled := compiler.Compile(query.Parse("a"))

	if compiled.Where != "1=2" {
		t.Errorf("Where = %q, want %q", compiled.Where, "1=2")
	}
}

func TestCompileFieldOnlyQuery(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	compiled := compiler.Compile(query.Parse("title:hello"))

	if compiled.Where != "" {
		t.Errorf("Where = %q, want empty", compiled.Where)
	}
}

func TestCompilePhrase(t *testing.T) {
	compiler := NewQueryCompiler(testTokenizer(t))
	compiled := compiler.Compile(query.Parse(`"spring boot"`))

	want := containmentClause(false, 1)
	if compiled.Where != want {
		t.Errorf("Where = %q, want %q", compiled.Where, want)
	}
	got, ok := compiled.Params["tokens1"].(map[string]struct{})
	if !ok {
		t.Fatalf("tokens1 = %T, want map[string]struct{}", compiled.Params["tokens1"])
	}
	if !reflect.DeepEqual(got, tokenSet("spring", "boot")) {
		t.Errorf("tokens1 = %v, want spring and boot", got)
	}
}
