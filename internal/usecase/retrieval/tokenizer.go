package retrieval

import (
	"regexp"
	"strings"
)

// tokenPattern matches lowercase word runs, allowing dot-joined numerics so
// "50.2" and "3.5x" survive as single tokens.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+(?:\.[a-z0-9]+)*`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "shall", "can", "need", "dare", "ought",
		"to", "of", "in", "for", "on", "with", "at", "by", "from", "as",
		"into", "through", "during", "before", "after", "above", "below",
		"between", "out", "off", "over", "under", "again", "further", "then",
		"once", "and", "but", "or", "nor", "not", "so", "yet", "both",
		"each", "all", "any", "few", "more", "most", "other", "some", "such",
		"no", "only", "same", "than", "too", "very", "just", "because",
		"if", "when", "while", "this", "that", "these", "those", "it", "its",
		"what", "which", "who", "whom", "how", "where", "why", "i", "me",
		"my", "we", "our", "you", "your", "he", "him", "his", "she", "her",
		"they", "them", "their",
	} {
		stopWords[w] = struct{}{}
	}
}

// tokenize lowercases the text, extracts word tokens and drops stop words
// and single-character tokens.
func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) <= 1 {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
