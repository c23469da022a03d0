// Package explain sends clicked words and sentences to an explanation
// provider and keeps the panel showing the answer to the latest click.
package explain

import (
	"context"
	"strings"
	"sync"
	"time"

	"sentix/internal/config"
	"sentix/internal/logger"
	"sentix/internal/text"
)

// Explainer turns a word or sentence into a human-readable explanation.
type Explainer interface {
	Explain(ctx context.Context, text string) (string, error)
}

// ExplainerFunc adapts a function to the Explainer interface.
type ExplainerFunc func(ctx context.Context, text string) (string, error)

// Explain calls f.
func (f ExplainerFunc) Explain(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Kind tells what the current selection is.
type Kind int

const (
	KindNone Kind = iota
	KindWord
	KindSentence
)

// Display is what the explanation panel renders.
type Display struct {
	Kind    Kind
	Target  string // selected word or sentence
	Text    string
	Pending bool
	Failed  bool
}

// Dispatcher issues one explanation request per click. Every click bumps a
// sequence number and a response is applied only if its sequence is still
// the latest, so the panel always reflects the last click.
type Dispatcher struct {
	explainer Explainer
	timeout   time.Duration
	log       *logger.Logger

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	display  Display
	onChange func(Display)

	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher that calls explainer with the default timeout.
func NewDispatcher(explainer Explainer) *Dispatcher {
	return &Dispatcher{
		explainer: explainer,
		timeout:   config.ExplainTimeout,
		log:       logger.Named("explain"),
		display:   Display{Text: config.ExplainDefaultHint},
	}
}

// OnChange registers the callback invoked after every display change.
// The callback runs on whichever goroutine produced the change.
func (d *Dispatcher) OnChange(fn func(Display)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

// State returns the current display.
func (d *Dispatcher) State() Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.display
}

// ClickWord requests an explanation of a plain word.
func (d *Dispatcher) ClickWord(plain string) {
	if plain == "" {
		return
	}
	d.dispatch(KindWord, plain)
}

// ClickSentence requests an explanation of a whole caption.
func (d *Dispatcher) ClickSentence(sentence string) {
	if strings.TrimSpace(sentence) == "" {
		return
	}
	d.dispatch(KindSentence, sentence)
}

// Clear drops the selection and ignores any request still in flight.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	d.seq++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.display = Display{Text: config.ExplainDefaultHint}
	d.mu.Unlock()

	d.notify()
}

// Wait blocks until every request goroutine has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// IsSelected reports whether a caption token is the selected word.
func IsSelected(tok text.Token, display Display) bool {
	return display.Kind == KindWord && text.SameWord(tok.Plain, display.Target)
}

func (d *Dispatcher) dispatch(kind Kind, target string) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	d.cancel = cancel
	d.display = Display{
		Kind:    kind,
		Target:  target,
		Text:    config.ExplainPending,
		Pending: true,
	}
	d.mu.Unlock()

	d.notify()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		meaning, err := d.explainer.Explain(ctx, target)
		d.resolve(seq, kind, target, meaning, err)
	}()
}

func (d *Dispatcher) resolve(seq uint64, kind Kind, target, meaning string, err error) {
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		d.log.Debug("discarding stale explanation for %q", target)
		return
	}
	d.cancel = nil

	next := Display{Kind: kind, Target: target}
	switch {
	case err != nil:
		d.log.Warn("explain %q failed: %v", target, err)
		next.Text = config.ExplainFailed
		next.Failed = true
	case strings.TrimSpace(meaning) == "":
		d.log.Warn("explain %q returned an empty body", target)
		next.Text = config.ExplainFailed
		next.Failed = true
	default:
		next.Text = meaning
	}
	d.display = next
	d.mu.Unlock()

	d.notify()
}

// notify hands the callback the display as it is at call time, so a late
// notification can never overwrite a newer one with older state.
func (d *Dispatcher) notify() {
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()

	d.mu.Lock()
	state, fn := d.display, d.onChange
	d.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}
