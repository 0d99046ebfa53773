package tokenizer

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"
)

// meaningfulTwoCharWords lists two-letter abbreviations worth indexing even
// though the general minimum token length is three.
var meaningfulTwoCharWords = map[string]struct{}{
	"ai": {}, "cf": {}, "az": {}, "vs": {}, "ok": {}, "ui": {}, "ux": {}, "os": {},
	"db": {}, "ip": {}, "id": {}, "io": {}, "js": {}, "go": {}, "it": {}, "is": {},
	"if": {}, "or": {}, "my": {}, "no": {}, "up": {}, "on": {}, "in": {}, "at": {},
	"by": {}, "so": {}, "we": {}, "he": {}, "me": {}, "be": {}, "to": {}, "do": {},
	"ml": {}, "ci": {}, "cd": {}, "dx": {}, "ex": {}, "ut": {},
}

var englishStopWords = map[string]struct{}{
	"the": {}, "and": {}, "a": {}, "that": {}, "have": {}, "i": {}, "for": {},
	"not": {}, "with": {}, "as": {}, "you": {}, "this": {}, "but": {}, "his": {},
	"from": {}, "was": {}, "are": {}, "been": {}, "its": {}, "an": {}, "will": {},
	"one": {}, "all": {}, "would": {}, "there": {}, "their": {}, "can": {},
	"had": {}, "has": {}, "her": {}, "were": {}, "she": {}, "which": {},
	"when": {}, "what": {}, "who": {}, "where": {}, "why": {}, "how": {},
}

// KagomeTokenizer segments mixed Japanese/English text with a morphological
// analyzer (IPA dictionary, search segmentation mode) and applies per-script
// normalization and filtering rules. Constructing the analyzer loads the
// dictionary and is expensive; build one per process and reuse it.
type KagomeTokenizer struct {
	analyzer *kagome.Tokenizer
}

// NewKagomeTokenizer builds the morphological analyzer.
func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	analyzer, err := kagome.New(ipa.Dict(), kagome.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("build morphological analyzer: %w", err)
	}
	return &KagomeTokenizer{analyzer: analyzer}, nil
}

// Tokenize returns the token set for text.
func (t *KagomeTokenizer) Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return tokens
	}
	for _, morpheme := range t.analyzer.Analyze(text, kagome.Search) {
		surface := morpheme.Surface
		if containsASCIILetter(surface) {
			addEnglishTokens(surface, tokens)
			continue
		}
		if !shouldIndexJapanese(morpheme) {
			continue
		}
		base := surface
		if b, ok := morpheme.BaseForm(); ok && b != "*" {
			base = b
		}
		normalized := normalizeJapanese(base)
		if normalized == "" {
			continue
		}
		tokens[truncate(normalized)] = struct{}{}
	}
	return tokens
}

// addEnglishTokens normalizes a Latin/alphanumeric morpheme and adds the
// qualifying forms to the set. camelCase and PascalCase surfaces additionally
// contribute their case-transition parts for better search coverage.
func addEnglishTokens(surface string, tokens map[string]struct{}) {
	normalized := normalizeEnglish(surface)
	if !qualifiesEnglish(normalized) {
		return
	}
	normalized = truncate(normalized)
	if hasCamelCase(surface) {
		if !isStopWord(normalized) {
			tokens[normalized] = struct{}{}
		}
		for _, part := range splitCamelCase(surface) {
			part = strings.ToLower(part)
			if qualifiesEnglish(part) && !isStopWord(part) {
				tokens[truncate(part)] = struct{}{}
			}
		}
		return
	}
	if !isStopWord(normalized) {
		tokens[normalized] = struct{}{}
	}
}

// normalizeEnglish lowercases, strips non-alphanumeric characters from the
// edges, and drops a trailing possessive 's.
func normalizeEnglish(token string) string {
	normalized := strings.ToLower(token)
	normalized = strings.TrimLeftFunc(normalized, func(r rune) bool { return !isASCIIAlnum(r) })
	normalized = strings.TrimRightFunc(normalized, func(r rune) bool { return !isASCIIAlnum(r) })
	normalized = strings.TrimSuffix(normalized, "'s")
	return strings.TrimSpace(normalized)
}

// qualifiesEnglish reports whether a normalized token is long enough to
// index: three or more runes, or a whitelisted two-letter abbreviation.
func qualifiesEnglish(word string) bool {
	n := len([]rune(word))
	if n >= 3 {
		return true
	}
	if n != 2 {
		return false
	}
	_, ok := meaningfulTwoCharWords[word]
	return ok
}

func isStopWord(word string) bool {
	_, ok := englishStopWords[word]
	return ok
}

// hasCamelCase reports whether the original surface mixes upper and lower
// case letters.
func hasCamelCase(token string) bool {
	var hasLower, hasUpper bool
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	return hasLower && hasUpper
}

// splitCamelCase splits a surface on case-transition boundaries into letter
// runs: a lowercase run, a single capital followed by a lowercase run, or a
// capital run ending before a capital+lowercase pair. Non-letter characters
// delimit runs and appear in no part.
func splitCamelCase(s string) []string {
	var parts []string
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		switch r := runes[i]; {
		case r >= 'a' && r <= 'z':
			j := i
			for j < len(runes) && runes[j] >= 'a' && runes[j] <= 'z' {
				j++
			}
			parts = append(parts, string(runes[i:j]))
			i = j
		case r >= 'A' && r <= 'Z':
			j := i
			for j < len(runes) && runes[j] >= 'A' && runes[j] <= 'Z' {
				j++
			}
			if j < len(runes) && runes[j] >= 'a' && runes[j] <= 'z' {
				// The last capital of the run starts a Capital+lower part.
				if j-i > 1 {
					parts = append(parts, string(runes[i:j-1]))
				}
				k := j
				for k < len(runes) && runes[k] >= 'a' && runes[k] <= 'z' {
					k++
				}
				parts = append(parts, string(runes[j-1:k]))
				i = k
			} else {
				parts = append(parts, string(runes[i:j]))
				i = j
			}
		default:
			i++
		}
	}
	return parts
}

// shouldIndexJapanese decides by part of speech whether a morpheme belongs in
// the index: nouns (except non-independent nouns, pronouns and numerals),
// independent verbs, adjectives, adverbs, and symbol-classified runs that are
// actually Latin text of two or more runes.
func shouldIndexJapanese(morpheme kagome.Token) bool {
	pos := morpheme.POS()
	if len(pos) == 0 {
		return false
	}
	switch pos[0] {
	case "名詞":
		if len(pos) < 2 {
			return true
		}
		sub := pos[1]
		return sub != "非自立" && sub != "代名詞" && sub != "数"
	case "動詞":
		return len(pos) >= 2 && pos[1] == "自立"
	case "形容詞", "副詞":
		return true
	case "記号":
		return containsASCIILetter(morpheme.Surface) && len([]rune(morpheme.Surface)) >= 2
	default:
		return false
	}
}

// normalizeJapanese converts full-width Latin letters and digits to their
// half-width equivalents, lowercases and trims. Tokens of a single rune,
// digits only, or punctuation only normalize to the empty string.
func normalizeJapanese(token string) string {
	normalized := strings.Map(fullWidthToHalfWidth, token)
	normalized = strings.TrimSpace(strings.ToLower(normalized))
	runes := []rune(normalized)
	if len(runes) <= 1 {
		return ""
	}
	if allDigits(runes) || allPunct(runes) {
		return ""
	}
	return normalized
}

func fullWidthToHalfWidth(r rune) rune {
	switch {
	case r >= 'Ａ' && r <= 'Ｚ':
		return r - 'Ａ' + 'A'
	case r >= 'ａ' && r <= 'ｚ':
		return r - 'ａ' + 'a'
	case r >= '０' && r <= '９':
		return r - '０' + '0'
	}
	return r
}

func containsASCIILetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(runes) > 0
}

func allPunct(runes []rune) bool {
	for _, r := range runes {
		if !isASCIIPunct(r) {
			return false
		}
	}
	return len(runes) > 0
}

// isASCIIPunct matches ASCII punctuation only; CJK punctuation never reaches
// this check because it carries no indexable part of speech.
func isASCIIPunct(r rune) bool {
	return r >= '!' && r <= '~' && !isASCIIAlnum(r) && !(r >= 'A' && r <= 'Z')
}
