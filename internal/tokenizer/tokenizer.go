// Package tokenizer turns entry text into the set of index tokens stored in
// the entry_tokens table. Two interchangeable implementations exist: a
// morphological tokenizer for mixed Japanese/English text and a trigram
// tokenizer for script-agnostic substring search.
package tokenizer

// Tokenizer produces the deduplicated set of index tokens for a piece of text.
// Implementations are pure functions of their input and safe for concurrent
// use once constructed.
type Tokenizer interface {
	// Tokenize returns the token set for text. Blank input yields an empty set.
	Tokenize(text string) map[string]struct{}
}

// maxTokenLength is the maximum token length in runes. Longer tokens are
// truncated, not dropped.
const maxTokenLength = 64

func truncate(token string) string {
	runes := []rune(token)
	if len(runes) > maxTokenLength {
		return string(runes[:maxTokenLength])
	}
	return token
}
