package media

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"sentix/internal/config"
	"sentix/internal/logger"
	"sentix/internal/playback"
)

// DurationSource reports the length of a media source in seconds.
type DurationSource interface {
	GetDuration(ctx context.Context, source string) (float64, error)
}

// AudioOutput plays the sound track of a source from an offset.
type AudioOutput interface {
	Start(source string, offset, volume float64) error
	Stop()
}

// Player is a wall-clock media element. It keeps the playback position from
// elapsed time, reports it at most every config.TimeUpdateInterval while
// playing, and optionally drives an AudioOutput so the learner hears the video.
type Player struct {
	source    string
	durations DurationSource
	audio     AudioOutput
	interval  time.Duration
	now       func() time.Time
	log       *logger.Logger

	mu       sync.Mutex
	paused   bool
	base     float64   // position when anchor was taken
	anchor   time.Time // wall time at which playback (re)started
	duration float64
	volume   float64
	handlers map[playback.EventKind]map[int]playback.Handler
	nextID   int
	stopTick chan struct{}
	closed   bool
}

// PlayerOption customizes a Player.
type PlayerOption func(*Player)

// WithAudio attaches an audio output.
func WithAudio(out AudioOutput) PlayerOption {
	return func(p *Player) { p.audio = out }
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) PlayerOption {
	return func(p *Player) { p.now = now }
}

// WithTickInterval changes how often time updates are emitted.
func WithTickInterval(d time.Duration) PlayerOption {
	return func(p *Player) { p.interval = d }
}

// NewPlayer creates a paused player for source. The duration is unknown
// (NaN) until LoadMetadata succeeds.
func NewPlayer(source string, durations DurationSource, opts ...PlayerOption) *Player {
	p := &Player{
		source:    source,
		durations: durations,
		interval:  config.TimeUpdateInterval,
		now:       time.Now,
		log:       logger.Named("player"),
		paused:    true,
		duration:  math.NaN(),
		volume:    config.DefaultVolume,
		handlers:  make(map[playback.EventKind]map[int]playback.Handler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Source returns what the player plays.
func (p *Player) Source() string {
	return p.source
}

// LoadMetadata reads the duration and fires EventLoadedMetadata.
func (p *Player) LoadMetadata(ctx context.Context) error {
	if p.durations == nil {
		return fmt.Errorf("no duration source configured")
	}
	duration, err := p.durations.GetDuration(ctx, p.source)
	if err != nil {
		return fmt.Errorf("load metadata: %w", err)
	}

	p.mu.Lock()
	p.duration = duration
	p.mu.Unlock()

	p.fire(playback.EventLoadedMetadata)
	return nil
}

// Play starts or resumes playback.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("player closed")
	}
	if !p.paused {
		p.mu.Unlock()
		return nil
	}
	pos := p.positionLocked()
	if p.duration > 0 && pos >= p.duration {
		pos = 0
	}
	p.base = pos
	p.anchor = p.now()
	p.paused = false
	p.stopTick = make(chan struct{})
	stop := p.stopTick
	volume := p.volume
	p.mu.Unlock()

	if p.audio != nil {
		if err := p.audio.Start(p.source, pos, volume); err != nil {
			p.log.Warn("audio output unavailable: %v", err)
		}
	}

	go p.tickLoop(stop)
	p.fire(playback.EventPlay)
	return nil
}

// Pause stops playback at the current position.
func (p *Player) Pause() {
	if !p.pauseLocked() {
		return
	}
	p.fire(playback.EventPause)
}

func (p *Player) pauseLocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return false
	}
	p.base = p.positionLocked()
	p.paused = true
	close(p.stopTick)
	p.stopTick = nil
	if p.audio != nil {
		p.audio.Stop()
	}
	return true
}

// Paused reports whether playback is stopped.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// SetCurrentTime seeks and fires EventTimeUpdate.
func (p *Player) SetCurrentTime(seconds float64) {
	if math.IsNaN(seconds) {
		return
	}
	p.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if p.duration > 0 && seconds > p.duration {
		seconds = p.duration
	}
	p.base = seconds
	p.anchor = p.now()
	playing := !p.paused
	volume := p.volume
	p.mu.Unlock()

	if playing && p.audio != nil {
		p.audio.Stop()
		if err := p.audio.Start(p.source, seconds, volume); err != nil {
			p.log.Warn("audio restart after seek failed: %v", err)
		}
	}
	p.fire(playback.EventTimeUpdate)
}

// Duration returns the media length, NaN until metadata has loaded.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Volume returns the output volume in [0,1].
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume changes the output volume.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	playing := !p.paused
	pos := p.positionLocked()
	p.mu.Unlock()

	if playing && p.audio != nil {
		p.audio.Stop()
		if err := p.audio.Start(p.source, pos, v); err != nil {
			p.log.Warn("audio restart after volume change failed: %v", err)
		}
	}
}

// Subscribe registers handler for kind.
func (p *Player) Subscribe(kind playback.EventKind, handler playback.Handler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handlers[kind] == nil {
		p.handlers[kind] = make(map[int]playback.Handler)
	}
	id := p.nextID
	p.nextID++
	p.handlers[kind][id] = handler

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers[kind], id)
	}
}

// Close stops playback and the audio output.
func (p *Player) Close() {
	p.Pause()
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Player) positionLocked() float64 {
	pos := p.base
	if !p.paused {
		pos += p.now().Sub(p.anchor).Seconds()
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	return pos
}

func (p *Player) tickLoop(stop chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick emits a time update and pauses at the end of the media.
func (p *Player) tick() {
	p.mu.Lock()
	if p.paused {
		p.mu.Unlock()
		return
	}
	ended := p.duration > 0 && p.positionLocked() >= p.duration
	p.mu.Unlock()

	p.fire(playback.EventTimeUpdate)
	if ended {
		p.Pause()
	}
}

func (p *Player) fire(kind playback.EventKind) {
	p.mu.Lock()
	handlers := make([]playback.Handler, 0, len(p.handlers[kind]))
	for _, h := range p.handlers[kind] {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

// FFplayOutput plays audio through an ffplay subprocess without a window.
type FFplayOutput struct {
	path string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewFFplayOutput creates an output using the ffplay binary at path.
func NewFFplayOutput(path string) *FFplayOutput {
	return &FFplayOutput{path: path}
}

// Start launches ffplay at offset seconds. Any previous process is stopped.
// The lock is held from stopping the old process to recording the new one,
// so a concurrent Stop never misses a process.
func (o *FFplayOutput) Start(source string, offset, volume float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()

	args := []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "quiet",
		"-ss", strconv.FormatFloat(offset, 'f', 3, 64),
		"-volume", strconv.Itoa(int(math.Round(volume * 100))),
		source,
	}
	cmd := exec.Command(o.path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffplay: %w", err)
	}
	o.cmd = cmd

	go cmd.Wait()
	return nil
}

// Stop kills the running ffplay process, if any.
func (o *FFplayOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
}

func (o *FFplayOutput) stopLocked() {
	if o.cmd != nil && o.cmd.Process != nil {
		o.cmd.Process.Kill()
	}
	o.cmd = nil
}
