package text

import "strings"

// Token is one piece of a caption line: either a word as displayed or a run
// of whitespace. Plain is the word with non-word characters removed and is
// empty for whitespace and pure punctuation.
type Token struct {
	Raw   string
	Plain string
	space bool
}

// IsSpace reports whether the token is a whitespace run.
func (t Token) IsSpace() bool {
	return t.space
}

// Clickable reports whether the token carries a word that can be explained.
func (t Token) Clickable() bool {
	return !t.space && t.Plain != ""
}

// Tokenize splits text on whitespace, keeping each whitespace run as its own
// token so that joining every Raw value reproduces the input.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}

	var tokens []Token
	last := 0
	for _, loc := range whitespaceRunRegex.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			tokens = append(tokens, wordToken(text[last:loc[0]]))
		}
		tokens = append(tokens, Token{Raw: text[loc[0]:loc[1]], space: true})
		last = loc[1]
	}
	if last < len(text) {
		tokens = append(tokens, wordToken(text[last:]))
	}
	return tokens
}

func wordToken(raw string) Token {
	return Token{Raw: raw, Plain: StripNonWord(raw)}
}

// StripNonWord removes every character outside [A-Za-z0-9_].
func StripNonWord(s string) string {
	return nonWordRegex.ReplaceAllString(s, "")
}

// SameWord compares two plain words case-insensitively.
func SameWord(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
