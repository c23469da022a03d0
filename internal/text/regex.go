package text

import "regexp"

// Pre-compiled regex patterns shared by the tokenizer and caption cleanup.
var (
	// whitespaceRunRegex matches a run of whitespace, kept as its own token.
	whitespaceRunRegex = regexp.MustCompile(`\s+`)

	// nonWordRegex matches everything that is not a letter, digit or underscore.
	nonWordRegex = regexp.MustCompile(`[^\w]+`)

	// bracketedRegex matches sound annotations such as [music] or (laughs).
	bracketedRegex = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
)
