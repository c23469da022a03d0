// Package subtitle provides caption cue parsing, formatting and lookup by playback time.
package subtitle

import (
	"strings"
	"time"
)

// Cue represents a single timed caption entry. Start and End are offsets in seconds.
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Contains reports whether t falls inside the cue, both bounds inclusive.
func (c Cue) Contains(t float64) bool {
	return c.Start <= t && t <= c.End
}

// IsEmpty returns true if the cue has no text.
func (c Cue) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// List is an ordered sequence of cues in document order.
// It is neither sorted nor checked for overlaps.
type List []Cue

// TotalDuration returns the largest end offset in the list.
func (l List) TotalDuration() time.Duration {
	var end float64
	for _, c := range l {
		if c.End > end {
			end = c.End
		}
	}
	return SecondsToDuration(end)
}

// NonEmpty returns a new list containing only cues with non-empty text.
func (l List) NonEmpty() List {
	result := make(List, 0, len(l))
	for _, c := range l {
		if !c.IsEmpty() {
			result = append(result, c)
		}
	}
	return result
}

// Clone returns a copy of the list.
func (l List) Clone() List {
	result := make(List, len(l))
	copy(result, l)
	return result
}
