package tokenizer

import "testing"

func TestTrigramTokenizer_Tokenize(t *testing.T) {
	tok := NewTrigramTokenizer()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "basic hiragana",
			text: "こんにちは",
			want: []string{"こんに", "んにち", "にちは"},
		},
		{
			name: "katakana folds to hiragana",
			text: "コンニチハ",
			want: []string{"こんに", "んにち", "にちは"},
		},
		{
			name: "uppercase to lowercase",
			text: "Hello",
			want: []string{"hel", "ell", "llo"},
		},
		{
			name: "full-width to half-width",
			text: "Ｈｅｌｌｏ",
			want: []string{"hel", "ell", "llo"},
		},
		{
			name: "punctuation kept in windows",
			text: "こんにちは、世界！",
			want: []string{"こんに", "んにち", "にちは", "ちは、", "は、世", "、世界", "世界!"},
		},
		{
			name: "duplicate trigrams deduplicated",
			text: "あああああ",
			want: []string{"あああ"},
		},
		{
			name: "mixed latin and japanese",
			text: "Javaプログラミング123",
			want: []string{"jav", "ava", "vaぷ", "aぷろ", "ぷろぐ", "ろぐら", "ぐらみ", "らみん", "みんぐ", "んぐ1", "ぐ12"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Errorf("Tokenize(%q) returned %d tokens, want %d: %v", tt.text, len(got), len(tt.want), got)
			}
			for _, w := range tt.want {
				if _, ok := got[w]; !ok {
					t.Errorf("Tokenize(%q) missing token %q", tt.text, w)
				}
			}
		})
	}
}

func TestTrigramTokenizer_Tokenize_empty(t *testing.T) {
	tok := NewTrigramTokenizer()

	for _, text := range []string{"", "   ", "ab", "12", "123456"} {
		if got := tok.Tokenize(text); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want empty set", text, got)
		}
	}
}

func TestTrigramTokenizer_Tokenize_allDigitWindowsExcluded(t *testing.T) {
	tok := NewTrigramTokenizer()

	got := tok.Tokenize("abc123456")
	for gram := range got {
		if gram == "123" || gram == "234" || gram == "345" || gram == "456" {
			t.Errorf("all-digit trigram %q should be excluded", gram)
		}
	}
	for _, want := range []string{"abc", "bc1", "c12"} {
		if _, ok := got[want]; !ok {
			t.Errorf("Tokenize(%q) missing token %q", "abc123456", want)
		}
	}
}

func TestTrigramTokenizer_Tokenize_idempotent(t *testing.T) {
	tok := NewTrigramTokenizer()

	first := tok.Tokenize("JavaとGoのツールチェーン比較")
	second := tok.Tokenize("JavaとGoのツールチェーン比較")
	if len(first) != len(second) {
		t.Fatalf("token sets differ in size: %d vs %d", len(first), len(second))
	}
	for gram := range first {
		if _, ok := second[gram]; !ok {
			t.Errorf("second run missing token %q", gram)
		}
	}
}
