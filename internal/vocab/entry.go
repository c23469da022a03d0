// Package vocab stores the learner's saved words and normalizes the loosely
// shaped documents that older clients wrote.
package vocab

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Definition is one dictionary sense of a word.
type Definition struct {
	PartOfSpeech string `json:"partOfSpeech,omitempty"`
	Definition   string `json:"definition"`
}

// Entry is a saved vocabulary item in canonical form.
type Entry struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"ownerUid"`
	Word        string       `json:"word"`
	Meaning     string       `json:"meaning,omitempty"`
	Example     string       `json:"example,omitempty"`
	Definitions []Definition `json:"definitions,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Usable reports whether the entry can take part in a quiz.
func (e Entry) Usable() bool {
	return strings.TrimSpace(e.Word) != ""
}

// MaxDefinitionsShown caps how many senses the dictionary view lists.
const MaxDefinitionsShown = 5

// TopDefinitions returns at most MaxDefinitionsShown senses.
func (e Entry) TopDefinitions() []Definition {
	if len(e.Definitions) > MaxDefinitionsShown {
		return e.Definitions[:MaxDefinitionsShown]
	}
	return e.Definitions
}

// Document returns the entry as a schema-less document in canonical field names.
func (e Entry) Document() map[string]any {
	doc := map[string]any{
		"ownerUid": e.OwnerID,
		"word":     e.Word,
	}
	if e.Meaning != "" {
		doc["meaning"] = e.Meaning
	}
	if e.Example != "" {
		doc["example"] = e.Example
	}
	if len(e.Definitions) > 0 {
		defs := make([]any, 0, len(e.Definitions))
		for _, d := range e.Definitions {
			defs = append(defs, map[string]any{
				"partOfSpeech": d.PartOfSpeech,
				"definition":   d.Definition,
			})
		}
		doc["definitions"] = defs
	}
	if !e.CreatedAt.IsZero() {
		doc["createdAt"] = e.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return doc
}

// Field aliases accepted by Normalize, in priority order.
var (
	wordFields    = []string{"word", "original", "entry", "text"}
	meaningFields = []string{"meaning", "definition", "def"}
	exampleFields = []string{"example", "exampleSentence", "exampleText", "context"}
	ownerFields   = []string{"ownerUid", "ownerId", "owner"}
)

// Normalize converts a stored document into an Entry. It is the only place
// that knows about the alternative field names older writers used.
func Normalize(id string, doc map[string]any) Entry {
	entry := Entry{
		ID:      id,
		OwnerID: firstString(doc, ownerFields),
		Word:    strings.TrimSpace(firstString(doc, wordFields)),
		Meaning: strings.TrimSpace(firstString(doc, meaningFields)),
		Example: strings.TrimSpace(firstString(doc, exampleFields)),
	}

	if raw, ok := doc["definitions"].([]any); ok {
		for _, item := range raw {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			def := Definition{
				PartOfSpeech: stringValue(m["partOfSpeech"]),
				Definition:   stringValue(m["definition"]),
			}
			if def.Definition != "" {
				entry.Definitions = append(entry.Definitions, def)
			}
		}
	}

	// An entry that only carries a definitions list still gets a meaning.
	if entry.Meaning == "" && len(entry.Definitions) > 0 {
		entry.Meaning = entry.Definitions[0].Definition
	}

	switch v := doc["createdAt"].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			entry.CreatedAt = t
		}
	case float64:
		entry.CreatedAt = time.UnixMilli(int64(v)).UTC()
	}

	return entry
}

// DecodeDocument parses a JSON document and normalizes it.
func DecodeDocument(id string, data []byte) (Entry, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Entry{}, fmt.Errorf("decode vocab document %s: %w", id, err)
	}
	return Normalize(id, doc), nil
}

func firstString(doc map[string]any, keys []string) string {
	for _, key := range keys {
		if s := stringValue(doc[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
