// Package tui runs a vocabulary quiz in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"sentix/internal/config"
	"sentix/internal/quiz"
)

const (
	defaultWidth  = 80
	reviewHeight  = 24
	glamourGutter = 2
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#93C5FD")).Background(lipgloss.Color("#1F2937")).Bold(true).Padding(0, 1)
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166")).Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06D6A0")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF476F")).Bold(true)
	helpView      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

type answer struct {
	question quiz.Question
	chosen   string
	correct  bool
}

// Model is the bubbletea model for one quiz run.
type Model struct {
	session *quiz.Session
	restart func() (*quiz.Session, error)
	copy    func(string) error

	cursor  int
	history []answer
	status  string

	reviewing bool
	review    viewport.Model
	width     int

	Quit bool
}

// NewModel starts on the first question of session. restart builds a fresh
// session when the learner asks for another round.
func NewModel(session *quiz.Session, restart func() (*quiz.Session, error)) Model {
	return Model{
		session: session,
		restart: restart,
		copy:    clipboard.WriteAll,
		width:   defaultWidth,
	}
}

// Score returns the session score.
func (m Model) Score() (correct, total int) {
	return m.session.Score()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.reviewing {
			m.review.Width = msg.Width
			m.review.Height = max(msg.Height-3, 5)
		}
		return m, nil

	case tea.MouseMsg:
		if m.reviewing {
			var cmd tea.Cmd
			m.review, cmd = m.review.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.reviewing {
			return m.updateReview(msg)
		}
		return m.updateQuestion(msg)
	}
	return m, nil
}

func (m Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q, ok := m.session.Current()
	if !ok {
		m.Quit = true
		return m, tea.Quit
	}

	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		m.Quit = true
		return m, tea.Quit

	case "up", "k":
		if !m.session.Answered() && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if !m.session.Answered() && m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case "1", "2", "3", "4", "5", "6":
		if i := int(key[0] - '1'); !m.session.Answered() && i < len(q.Options) {
			m.cursor = i
		}

	case "enter", " ":
		if !m.session.Answered() {
			m.session.Select(q.Options[m.cursor])
			correct, err := m.session.Check()
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.history = append(m.history, answer{question: q, chosen: q.Options[m.cursor], correct: correct})
			m.status = m.session.Verdict()
			return m, nil
		}
		if m.session.Next() {
			m.cursor = 0
			m.status = ""
			return m, nil
		}
		return m.startReview()

	case "c":
		text := questionText(q)
		if m.session.Answered() {
			text = m.session.Feedback()
		}
		if err := m.copy(text); err != nil {
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Copied to clipboard"
		}
	}
	return m, nil
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.Quit = true
		return m, tea.Quit
	case "r":
		if m.restart == nil {
			return m, nil
		}
		session, err := m.restart()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.session = session
		m.cursor = 0
		m.history = nil
		m.status = ""
		m.reviewing = false
		return m, nil
	case "c":
		if err := m.copy(reviewMarkdown(m.history, m.session)); err != nil {
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Review copied to clipboard"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.review, cmd = m.review.Update(msg)
	return m, cmd
}

func (m Model) startReview() (tea.Model, tea.Cmd) {
	vp := viewport.New(m.width, reviewHeight)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		PaddingRight(2)

	// Leave room for the border, padding and glamour's own left gutter.
	wrap := m.width - vp.Style.GetHorizontalFrameSize() - glamourGutter
	content := reviewMarkdown(m.history, m.session)
	if rendered, err := renderMarkdown(content, wrap); err == nil {
		content = rendered
	}
	vp.SetContent(content)

	m.review = vp
	m.reviewing = true
	m.status = ""
	return m, nil
}

func renderMarkdown(md string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

func (m Model) View() string {
	if m.reviewing {
		var b strings.Builder
		b.WriteString(m.review.View())
		if m.status != "" {
			b.WriteString("\n  " + m.status)
		}
		b.WriteString(helpView.Render("\n  ↑/↓: Scroll • r: Restart • c: Copy review • q: Quit\n"))
		return b.String()
	}

	q, ok := m.session.Current()
	if !ok {
		return ""
	}
	correct, total := m.session.Score()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sentix quiz · Question %d/%d · Score %d", m.session.Index()+1, total, correct)))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(promptLabel(q)) + "\n")
	b.WriteString(questionStyle.Width(max(m.width-2, 20)).Render(q.Question) + "\n\n")

	for i, opt := range q.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case m.session.Answered() && opt == q.Answer:
			line = correctStyle.Render("✓ " + line)
		case m.session.Answered() && opt == m.session.Selected():
			line = wrongStyle.Render("✗ " + line)
		case !m.session.Answered() && i == m.cursor:
			line = cursorStyle.Render("> " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.session.Answered() {
		style := wrongStyle
		if m.session.Selected() == q.Answer {
			style = correctStyle
		}
		b.WriteString("\n" + style.Render(m.session.Verdict()) + "  " + m.session.Feedback() + "\n")
		if m.status != "" && m.status != m.session.Verdict() {
			b.WriteString("  " + m.status + "\n")
		}
	} else if m.status != "" {
		b.WriteString("\n  " + m.status + "\n")
	}

	help := "\n  ↑/↓ or 1-4: Choose • enter: Check • c: Copy • q: Quit\n"
	if m.session.Answered() {
		help = "\n  enter: Next • c: Copy answer • q: Quit\n"
	}
	b.WriteString(helpView.Render(help))
	return b.String()
}

func promptLabel(q quiz.Question) string {
	if q.Type == quiz.TypeBlank {
		return config.QuizBlankPrompt
	}
	return config.QuizDefinitionPrompt
}

func questionText(q quiz.Question) string {
	return promptLabel(q) + ": " + q.Question
}

// reviewMarkdown summarizes a finished round.
func reviewMarkdown(history []answer, session *quiz.Session) string {
	correct, total := session.Score()

	var b strings.Builder
	fmt.Fprintf(&b, "# Quiz complete\n\n**Score: %d / %d**\n\n", correct, total)
	for i, a := range history {
		mark := "✅"
		if !a.correct {
			mark = "❌"
		}
		fmt.Fprintf(&b, "## %d. %s %s\n\n", i+1, mark, a.question.Answer)
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(a.question.Question, "\n", " "))
		if !a.correct {
			fmt.Fprintf(&b, "You chose *%s*.\n\n", a.chosen)
		}
		fmt.Fprintf(&b, "%s\n\n", quiz.Feedback(a.question))
	}
	return b.String()
}
