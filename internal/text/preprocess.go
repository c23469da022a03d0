// Package text provides caption tokenization and cleanup for the word picker.
package text

import (
	"regexp"
	"strings"
)

// Pre-compiled regex patterns (created once at package init for performance)
var (
	fillerRegex       = regexp.MustCompile(`(?i)\b(uh|um|er|ah|hmm|erm)\b`)
	dotsRegex         = regexp.MustCompile(`\.{2,}`)
	exclamationsRegex = regexp.MustCompile(`!{2,}`)
	questionsRegex    = regexp.MustCompile(`\?{2,}`)
	commasRegex       = regexp.MustCompile(`,{2,}`)
)

// CleanCaption strips sound annotations and filler words from caption text
// and collapses whitespace and repeated punctuation.
// It is used when harvesting vocabulary, never for the displayed caption.
func CleanCaption(text string) string {
	if text == "" {
		return ""
	}

	text = bracketedRegex.ReplaceAllString(text, " ")
	text = fillerRegex.ReplaceAllString(text, "")
	text = whitespaceRunRegex.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	text = dotsRegex.ReplaceAllString(text, ".")
	text = exclamationsRegex.ReplaceAllString(text, "!")
	text = questionsRegex.ReplaceAllString(text, "?")
	text = commasRegex.ReplaceAllString(text, ",")

	return text
}
