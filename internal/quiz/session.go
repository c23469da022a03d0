package quiz

import (
	"errors"
	"fmt"

	"sentix/internal/config"
)

var (
	// ErrNoSelection is returned by Check before an option is chosen.
	ErrNoSelection = errors.New("no option selected")
	// ErrAlreadyAnswered is returned when the current question was already checked.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Session walks through a built quiz one question at a time.
// Restarting means building a new session.
type Session struct {
	questions []Question
	current   int
	selected  string
	answered  bool
	correct   bool
	score     int
}

// NewSession starts a session over questions.
func NewSession(questions []Question) *Session {
	return &Session{questions: questions}
}

// Len returns the number of questions.
func (s *Session) Len() int {
	return len(s.questions)
}

// Index returns the zero-based position of the current question.
func (s *Session) Index() int {
	return s.current
}

// Current returns the question being asked.
func (s *Session) Current() (Question, bool) {
	if s.current >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.current], true
}

// Select chooses an option. It has no effect once the question is checked.
func (s *Session) Select(option string) {
	if s.answered {
		return
	}
	s.selected = option
}

// Selected returns the chosen option.
func (s *Session) Selected() string {
	return s.selected
}

// Answered reports whether the current question has been checked.
func (s *Session) Answered() bool {
	return s.answered
}

// Check grades the selected option and updates the score.
func (s *Session) Check() (bool, error) {
	q, ok := s.Current()
	if !ok {
		return false, ErrAlreadyAnswered
	}
	if s.answered {
		return s.correct, ErrAlreadyAnswered
	}
	if s.selected == "" {
		return false, ErrNoSelection
	}

	s.answered = true
	s.correct = s.selected == q.Answer
	if s.correct {
		s.score++
	}
	return s.correct, nil
}

// HasNext reports whether another question follows the current one.
func (s *Session) HasNext() bool {
	return s.current+1 < len(s.questions)
}

// Next moves to the following question once the current one is checked.
// It returns false when there is nothing to move to.
func (s *Session) Next() bool {
	if !s.answered || !s.HasNext() {
		return false
	}
	s.current++
	s.selected = ""
	s.answered = false
	s.correct = false
	return true
}

// Finished reports whether the last question has been checked.
func (s *Session) Finished() bool {
	return len(s.questions) == 0 || (s.answered && !s.HasNext())
}

// Score returns correct answers and total questions.
func (s *Session) Score() (correct, total int) {
	return s.score, len(s.questions)
}

// Progress returns the fraction of questions already passed.
func (s *Session) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(s.current) / float64(len(s.questions))
}

// Verdict returns "Correct!" or "Incorrect" for a checked question.
func (s *Session) Verdict() string {
	if !s.answered {
		return ""
	}
	if s.correct {
		return "Correct!"
	}
	return "Incorrect"
}

// Feedback explains the answer of a checked question.
func (s *Session) Feedback() string {
	q, ok := s.Current()
	if !ok || !s.answered {
		return ""
	}
	return Feedback(q)
}

// Feedback renders the answer line shown after a question is checked.
func Feedback(q Question) string {
	detail := q.Explanation
	if detail == "" {
		detail = q.Example
	}
	if detail == "" {
		detail = config.QuizDefaultFeedback
	}
	return fmt.Sprintf("%s - %s", q.Answer, detail)
}
