// Package quiz builds multiple-choice vocabulary quizzes from saved words
// and runs them question by question.
package quiz

import (
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"sentix/internal/config"
	"sentix/internal/vocab"
)

// ErrNotEnoughWords is returned when no saved entry can become a question.
var ErrNotEnoughWords = errors.New("cannot build quiz: not enough words")

// Type is the question style.
type Type string

const (
	TypeDefinition Type = "definition"
	TypeBlank      Type = "blank"
)

// Question is one multiple-choice item. Options always contain Answer.
type Question struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation,omitempty"`
	Example     string   `json:"example,omitempty"`
}

// Generator builds quizzes. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. A nil rng seeds one from the clock.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Build returns up to n questions drawn from entries. It fails with
// ErrNotEnoughWords only when no entry is usable; n <= 0 asks for nothing.
//
// Entries without a word are dropped and words are de-duplicated
// case-insensitively, keeping the first. Each question offers the answer
// plus up to three distractors taken from the other entries.
func (g *Generator) Build(entries []vocab.Entry, n int) ([]Question, error) {
	pool := usableEntries(entries)
	if len(pool) == 0 {
		return []Question{}, ErrNotEnoughWords
	}
	if n <= 0 {
		return []Question{}, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	shuffle(g.rng, pool)

	count := n
	if count > len(pool) {
		count = len(pool)
	}

	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		correct := pool[i]

		others := make([]vocab.Entry, 0, len(pool)-1)
		others = append(others, pool[:i]...)
		others = append(others, pool[i+1:]...)
		shuffle(g.rng, others)

		options := []string{correct.Word}
		for j := 0; j < len(others) && j < config.QuizOptionCount-1; j++ {
			options = append(options, others[j].Word)
		}
		shuffle(g.rng, options)

		if correct.Example != "" && g.rng.Float64() < config.QuizBlankProbability {
			questions = append(questions, blankQuestion(correct, options))
		} else {
			questions = append(questions, definitionQuestion(correct, options))
		}
	}
	return questions, nil
}

func blankQuestion(e vocab.Entry, options []string) Question {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(e.Word))
	prompt := re.ReplaceAllString(e.Example, config.QuizBlankPlaceholder)
	if prompt == "" {
		prompt = e.Meaning
	}
	if prompt == "" {
		prompt = config.QuizBlankPrompt
	}
	return Question{
		ID:          e.ID,
		Type:        TypeBlank,
		Question:    prompt,
		Answer:      e.Word,
		Options:     options,
		Explanation: e.Meaning,
	}
}

func definitionQuestion(e vocab.Entry, options []string) Question {
	prompt := e.Meaning
	if prompt == "" {
		prompt = config.QuizDefinitionPrompt
	}
	return Question{
		ID:       e.ID,
		Type:     TypeDefinition,
		Question: prompt,
		Answer:   e.Word,
		Options:  options,
		Example:  e.Example,
	}
}

func usableEntries(entries []vocab.Entry) []vocab.Entry {
	seen := make(map[string]bool, len(entries))
	pool := make([]vocab.Entry, 0, len(entries))
	for _, e := range entries {
		e.Word = strings.TrimSpace(e.Word)
		if !e.Usable() {
			continue
		}
		key := strings.ToLower(e.Word)
		if seen[key] {
			continue
		}
		seen[key] = true
		pool = append(pool, e)
	}
	return pool
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
