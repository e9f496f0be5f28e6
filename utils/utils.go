package utils

import "strings"

// Normalize folds text for comparison: trim, lowercase, collapse every
// whitespace run to a single space. Idempotent. Every keyword and
// command comparison in the agent goes through this.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsAny reports whether the normalized text contains any of the
// keywords as a substring. Substring, not token, match: overlapping
// keywords across intents are resolved by table order alone.
func ContainsAny(text string, keywords []string) bool {
	t := Normalize(text)
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// TitleWords uppercases the first letter of each space-separated word.
// Used for city/state names parsed out of the adapt phrase.
func TitleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
