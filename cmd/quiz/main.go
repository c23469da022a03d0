package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	tea "github.com/charmbracelet/bubbletea"

	"sentix/internal/config"
	"sentix/internal/db"
	"sentix/internal/logger"
	"sentix/internal/quiz"
	"sentix/internal/tui"
	"sentix/internal/vocab"
	"sentix/models"
)

type args struct {
	DB        string `arg:"--db" help:"vocabulary database"`
	Owner     string `arg:"--owner" help:"whose words to quiz on"`
	Questions int    `arg:"-n,--questions" help:"questions per round"`
}

func (args) Description() string {
	return "sentix quiz: practice saved words in the terminal"
}

func main() {
	cfg, err := models.LoadConfig()
	if err != nil {
		logger.Warn("using default settings: %v", err)
		cfg = models.DefaultConfig()
	}

	a := args{DB: cfg.DBPath, Owner: vocab.LocalOwner, Questions: cfg.QuizQuestions}
	arg.MustParse(&a)
	if a.Questions <= 0 {
		a.Questions = config.QuizDefaultQuestions
	}

	database, err := db.Open(a.DB)
	if err != nil {
		exitWithErr(err)
	}
	defer database.Close()

	entries, err := vocab.NewSQLiteStore(database).List(context.Background(), a.Owner)
	if err != nil {
		exitWithErr(err)
	}

	gen := quiz.NewGenerator(nil)
	newSession := func() (*quiz.Session, error) {
		questions, err := gen.Build(entries, a.Questions)
		if err != nil {
			return nil, err
		}
		return quiz.NewSession(questions), nil
	}

	session, err := newSession()
	if errors.Is(err, quiz.ErrNotEnoughWords) {
		fmt.Fprintln(os.Stderr, "No saved words yet. Click words while watching to add them to your dictionary.")
		os.Exit(1)
	}
	if err != nil {
		exitWithErr(err)
	}

	final, err := tea.NewProgram(tui.NewModel(session, newSession), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		exitWithErr(err)
	}
	if m, ok := final.(tui.Model); ok {
		correct, total := m.Score()
		fmt.Printf("Score: %d/%d\n", correct, total)
	}
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
