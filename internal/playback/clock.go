package playback

import (
	"fmt"
	"math"
	"sync"
)

// PlaybackState is the clock's view of the media.
type PlaybackState struct {
	CurrentTime float64
	Duration    float64
	Playing     bool
	Volume      float64
}

// Listener receives the updated state after every media event.
type Listener func(kind EventKind, state PlaybackState)

// Clock wraps a Media and keeps a PlaybackState in step with its events.
type Clock struct {
	media Media

	mu    sync.Mutex
	state PlaybackState
}

// NewClock creates a clock over media, seeding the state from it.
func NewClock(media Media) *Clock {
	return &Clock{
		media: media,
		state: PlaybackState{
			CurrentTime: media.CurrentTime(),
			Duration:    knownDuration(media.Duration()),
			Playing:     !media.Paused(),
			Volume:      media.Volume(),
		},
	}
}

// State returns a snapshot of the playback state.
func (c *Clock) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Play starts playback.
func (c *Clock) Play() error {
	if err := c.media.Play(); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// Pause stops playback.
func (c *Clock) Pause() {
	c.media.Pause()
}

// Toggle switches between playing and paused.
func (c *Clock) Toggle() error {
	if c.media.Paused() {
		return c.Play()
	}
	c.Pause()
	return nil
}

// Seek jumps to fraction of the duration. fraction is clamped to [0,1].
// Nothing happens while the duration is unknown.
func (c *Clock) Seek(fraction float64) {
	duration := knownDuration(c.media.Duration())
	if duration <= 0 || math.IsNaN(fraction) {
		return
	}
	c.media.SetCurrentTime(clamp(fraction, 0, 1) * duration)
}

// SkipBy moves the position by delta seconds, clamped to [0,duration].
func (c *Clock) SkipBy(delta float64) {
	target := c.media.CurrentTime() + delta
	if duration := knownDuration(c.media.Duration()); duration > 0 {
		target = clamp(target, 0, duration)
	} else if target < 0 {
		target = 0
	}
	c.media.SetCurrentTime(target)
}

// SetVolume sets the output volume, clamped to [0,1].
func (c *Clock) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = clamp(v, 0, 1)
	c.media.SetVolume(v)

	c.mu.Lock()
	c.state.Volume = v
	c.mu.Unlock()
}

// Bind subscribes listener to all four media events and returns a single
// release that removes every subscription. Release is safe to call twice.
func (c *Clock) Bind(listener Listener) (release func()) {
	kinds := []EventKind{EventTimeUpdate, EventPlay, EventPause, EventLoadedMetadata}
	unsubs := make([]func(), 0, len(kinds))
	for _, kind := range kinds {
		kind := kind
		unsubs = append(unsubs, c.media.Subscribe(kind, func() {
			state := c.apply(kind)
			if listener != nil {
				listener(kind, state)
			}
		}))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, unsub := range unsubs {
				unsub()
			}
		})
	}
}

func (c *Clock) apply(kind EventKind) PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case EventTimeUpdate:
		c.state.CurrentTime = c.media.CurrentTime()
	case EventPlay:
		c.state.Playing = true
	case EventPause:
		c.state.Playing = false
	case EventLoadedMetadata:
		c.state.Duration = knownDuration(c.media.Duration())
		c.state.CurrentTime = c.media.CurrentTime()
	}
	return c.state
}

// Progress returns the position as a fraction of the duration, or 0 when unknown.
func (s PlaybackState) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return clamp(s.CurrentTime/s.Duration, 0, 1)
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return "00:00"
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func knownDuration(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
