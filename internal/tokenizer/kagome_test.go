package tokenizer

import (
	"strings"
	"testing"
)

// newKagome builds the analyzer once per test binary; dictionary loading is
// too slow to repeat per test.
var sharedKagome *KagomeTokenizer

func newKagome(t *testing.T) *KagomeTokenizer {
	t.Helper()
	if sharedKagome == nil {
		tok, err := NewKagomeTokenizer()
		if err != nil {
			t.Fatalf("NewKagomeTokenizer() error = %v", err)
		}
		sharedKagome = tok
	}
	return sharedKagome
}

func assertContains(t *testing.T, tokens map[string]struct{}, want ...string) {
	t.Helper()
	for _, w := range want {
		if _, ok := tokens[w]; !ok {
			t.Errorf("token set missing %q (got %v)", w, tokens)
		}
	}
}

func assertNotContains(t *testing.T, tokens map[string]struct{}, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if _, ok := tokens[u]; ok {
			t.Errorf("token set should not contain %q", u)
		}
	}
}

func TestKagomeTokenizer_englishText(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("Spring Boot is a popular Java framework for building web applications")
	assertContains(t, got, "spring", "boot", "is", "popular", "java", "framework", "building", "web", "applications")
	assertNotContains(t, got, "a", "for", "the")
}

func TestKagomeTokenizer_camelCase(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("JavaScript getElementById XMLHttpRequest")
	assertContains(t, got,
		"javascript", "java", "script",
		"getelementbyid", "element",
		"xmlhttprequest", "xml", "http", "request")
}

func TestKagomeTokenizer_stopWords(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("The quick brown fox jumps over the lazy dog")
	assertContains(t, got, "quick", "brown", "fox", "jumps", "over", "lazy", "dog")
	assertNotContains(t, got, "the")
}

func TestKagomeTokenizer_shortTokens(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("go in on up at by my ai cf vs ui")
	assertContains(t, got, "go", "in", "on", "up", "at", "by", "my", "ai", "cf", "vs", "ui")

	got = tok.Tokenize("A big cat ate my fresh apple pie today")
	assertContains(t, got, "big", "cat", "ate", "my", "fresh", "apple", "pie", "today")
	assertNotContains(t, got, "a")
}

func TestKagomeTokenizer_meaningfulAbbreviations(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("AI vs ML and DB with UI/UX design using JS and Go")
	assertContains(t, got, "ai", "vs", "ml", "db", "ui", "ux", "design", "using", "js", "go")
	assertNotContains(t, got, "and", "with")
}

func TestKagomeTokenizer_possessives(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("Google's CloudとAmazon's AWS")
	assertContains(t, got, "google", "cloud", "amazon", "aws")
	assertNotContains(t, got, "google's", "amazon's")
}

func TestKagomeTokenizer_mixedJapaneseEnglish(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("Spring BootでRESTful APIを開発する")
	assertContains(t, got, "spring", "boot", "restful", "api", "開発")

	got = tok.Tokenize("JavaのStreamAPIとLambda式を使ってコレクションを処理します")
	assertContains(t, got, "java", "lambda", "使う", "コレクション", "処理")
}

func TestKagomeTokenizer_japaneseBaseForm(t *testing.T) {
	tok := newKagome(t)

	// Inflected verbs index under their dictionary form.
	got := tok.Tokenize("これはテストです。頑張って。")
	assertContains(t, got, "テスト", "頑張る")
	assertNotContains(t, got, "これ") // pronoun
}

func TestKagomeTokenizer_truncation(t *testing.T) {
	tok := newKagome(t)

	longWord := strings.Repeat("x", 100)
	got := tok.Tokenize("hello " + longWord + " world")
	assertContains(t, got, "hello", "world", strings.Repeat("x", 64))
	assertNotContains(t, got, longWord)
	for token := range got {
		if n := len([]rune(token)); n > 64 {
			t.Errorf("token %q has %d runes, want <= 64", token, n)
		}
	}
}

func TestKagomeTokenizer_exactly64Runes(t *testing.T) {
	tok := newKagome(t)

	exactly64 := strings.Repeat("y", 64)
	got := tok.Tokenize("word " + exactly64 + " end")
	assertContains(t, got, "word", "end", exactly64)
}

func TestKagomeTokenizer_empty(t *testing.T) {
	tok := newKagome(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		if got := tok.Tokenize(text); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want empty set", text, got)
		}
	}
}

func TestKagomeTokenizer_lowercaseProperty(t *testing.T) {
	tok := newKagome(t)

	got := tok.Tokenize("JavaScript REST API 開発 PostgreSQL XMLHttpRequest")
	for token := range got {
		if token != strings.ToLower(token) {
			t.Errorf("token %q is not lower-cased", token)
		}
	}
}

func TestKagomeTokenizer_idempotent(t *testing.T) {
	tok := newKagome(t)

	const text = "Spring BootでRESTful APIを開発する"
	first := tok.Tokenize(text)
	second := tok.Tokenize(text)
	if len(first) != len(second) {
		t.Fatalf("token sets differ in size: %d vs %d", len(first), len(second))
	}
	for token := range first {
		if _, ok := second[token]; !ok {
			t.Errorf("second run missing token %q", token)
		}
	}
}

func TestSplitCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"getElementById", []string{"get", "Element", "By", "Id"}},
		{"XMLHttpRequest", []string{"XML", "Http", "Request"}},
		{"JavaScript", []string{"Java", "Script"}},
		{"myApp", []string{"my", "App"}},
		{"aProp", []string{"a", "Prop"}},
		{"AWS", []string{"AWS"}},
		{"lower", []string{"lower"}},
	}

	for _, tt := range tests {
		got := splitCamelCase(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitCamelCase(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitCamelCase(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}
