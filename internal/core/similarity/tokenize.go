package similarity

import (
	"strings"
	"unicode"
)

const minTokenLength = 3

// stopWords mixes common English with the structural tokens that appear in
// almost every code snippet. Leaving those in would make any two snippets of
// the same language look alike.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
		"her", "was", "one", "our", "out", "get", "has", "him", "his", "how",
		"its", "new", "now", "old", "see", "two", "way", "who", "did", "each",
		"she", "use", "that", "this", "with", "from", "they", "have", "been",
		"will", "what", "when", "then", "than", "them", "were", "your", "into",
		"some", "also", "such", "here", "there", "where", "which", "while",
		"const", "let", "var", "function", "return", "import", "export",
		"class", "def", "end", "else", "elif", "true", "false", "null", "nil",
		"void", "public", "private", "static", "final", "println", "print",
	} {
		stopWords[w] = struct{}{}
	}
}

func isStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Tokens lowercases the text, splits it on non-word runes and drops short
// tokens and stop words. Duplicates and order are preserved so callers can
// count frequencies.
func Tokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLength || isStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Keywords reduces text to its token set.
func Keywords(text string) map[string]struct{} {
	tokens := Tokens(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
