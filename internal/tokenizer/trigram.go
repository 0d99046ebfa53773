package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TrigramTokenizer is the script-agnostic fallback used when no morphological
// analyzer is configured. It slides a fixed three-rune window over the
// normalized text, so it supports substring search but yields an empty set
// for documents shorter than three runes.
type TrigramTokenizer struct{}

func NewTrigramTokenizer() *TrigramTokenizer {
	return &TrigramTokenizer{}
}

// Tokenize returns the set of trigrams for text.
func (t *TrigramTokenizer) Tokenize(text string) map[string]struct{} {
	ngrams := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return ngrams
	}
	runes := []rune(normalizeForTrigrams(text))
	for i := 0; i+3 <= len(runes); i++ {
		gram := runes[i : i+3]
		if validTrigram(gram) {
			ngrams[string(gram)] = struct{}{}
		}
	}
	return ngrams
}

// normalizeForTrigrams lowercases, applies Unicode compatibility
// normalization (full-width to half-width, composed forms) and maps katakana
// to hiragana so either kana script matches the other.
func normalizeForTrigrams(text string) string {
	text = norm.NFKC.String(strings.ToLower(text))
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r >= 'ァ' && r <= 'ヶ' {
			r = r - 'ァ' + 'ぁ'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// validTrigram rejects windows that are all whitespace or all decimal digits.
func validTrigram(gram []rune) bool {
	allSpace, allDigit := true, true
	for _, r := range gram {
		if !unicode.IsSpace(r) {
			allSpace = false
		}
		if r < '0' || r > '9' {
			allDigit = false
		}
	}
	return !allSpace && !allDigit
}
