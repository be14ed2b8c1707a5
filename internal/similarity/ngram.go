// Package similarity selects few-shot examples by TF-IDF cosine similarity
// over a small, immutable corpus of source snippets.
package similarity

import (
	"regexp"
	"strings"
)

var tokenSplitter = regexp.MustCompile(`[\s\W_]+`)

// Tokenize splits text on runs of whitespace, non-word characters and
// underscores and returns the lowercased, non-empty tokens.
func Tokenize(text string) []string {
	parts := tokenSplitter.Split(text, -1)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tokens = append(tokens, strings.ToLower(part))
	}
	return tokens
}

// ExtractNGrams returns every window of exactly n consecutive tokens, sliding
// by one. Trailing tokens that cannot fill a window are dropped. n must be
// positive; nil is returned otherwise.
func ExtractNGrams(text string, n int) []string {
	if n < 1 {
		return nil
	}
	tokens := Tokenize(text)
	if len(tokens) < n {
		return nil
	}
	ngrams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		ngrams = append(ngrams, strings.Join(tokens[i:i+n], " "))
	}
	return ngrams
}
