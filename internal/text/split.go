package text

import "strings"

// UniqueWords returns the plain words of the given lines in first-seen order,
// de-duplicated case-insensitively. Words shorter than minLen runes are skipped.
func UniqueWords(lines []string, minLen int) []string {
	seen := make(map[string]bool)
	var words []string
	for _, line := range lines {
		for _, tok := range Tokenize(CleanCaption(line)) {
			if tok.IsSpace() || len([]rune(tok.Plain)) < minLen {
				continue
			}
			key := strings.ToLower(tok.Plain)
			if seen[key] {
				continue
			}
			seen[key] = true
			words = append(words, tok.Plain)
		}
	}
	return words
}
