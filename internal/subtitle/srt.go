package subtitle

import (
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled patterns for block parsing
var (
	timeRegex       = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[,\.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,\.]\d{3})`)
	blockSeparator  = regexp.MustCompile(`\n\n+`)
	sequenceIndexRe = regexp.MustCompile(`^\d+$`)
)

// Parse turns SRT (or loosely compatible VTT) text into cues.
//
// Parsing is best effort: blocks with fewer than two lines or without a
// timestamp range are dropped and the rest are kept in document order.
//
//	1
//	00:00:01,000 --> 00:00:03,000
//	Hello world
func Parse(text string) List {
	if text == "" {
		return List{}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	cues := List{}
	for _, block := range blockSeparator.Split(text, -1) {
		cue, ok := parseBlock(block)
		if ok {
			cues = append(cues, cue)
		}
	}
	return cues
}

func parseBlock(block string) (Cue, bool) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return Cue{}, false
	}

	// Optional sequence index
	idx := 0
	if sequenceIndexRe.MatchString(lines[0]) {
		idx = 1
	}

	matches := timeRegex.FindStringSubmatch(lines[idx])
	if len(matches) != 3 {
		return Cue{}, false
	}
	start, err := ParseTimestamp(matches[1])
	if err != nil {
		return Cue{}, false
	}
	end, err := ParseTimestamp(matches[2])
	if err != nil {
		return Cue{}, false
	}

	return Cue{
		Start: start,
		End:   end,
		Text:  strings.Join(lines[idx+1:], " "),
	}, true
}

// ParseReader parses subtitle content from a reader.
// Only I/O errors are reported; malformed blocks are skipped.
func ParseReader(r io.Reader) (List, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// ParseFile parses a subtitle file from the given path.
func ParseFile(path string) (List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseReader(file)
}

// FormatSRT formats cues as an SRT document, numbering from 1.
func FormatSRT(cues List) string {
	var builder strings.Builder
	for i, c := range cues {
		builder.WriteString(strconv.Itoa(i + 1))
		builder.WriteString("\n")

		builder.WriteString(FormatTimestamp(c.Start))
		builder.WriteString(" --> ")
		builder.WriteString(FormatTimestamp(c.End))
		builder.WriteString("\n")

		builder.WriteString(c.Text)
		builder.WriteString("\n")

		// Blank line between entries
		if i < len(cues)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}
