package subtitle

import "sync"

// Active returns the first cue, in sequence order, whose range contains t.
// Overlapping cues resolve to the earliest one in the list.
func Active(cues List, t float64) (Cue, bool) {
	for _, c := range cues {
		if c.Contains(t) {
			return c, true
		}
	}
	return Cue{}, false
}

// Tracker follows playback time against the loaded cue list.
type Tracker struct {
	mu      sync.Mutex
	cues    List
	current Cue
	active  bool
}

// NewTracker creates a tracker over cues.
func NewTracker(cues List) *Tracker {
	return &Tracker{cues: cues}
}

// Load replaces the cue list wholesale and clears the active cue.
func (t *Tracker) Load(cues List) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cues = cues
	t.current = Cue{}
	t.active = false
}

// Cues returns a copy of the loaded list, safe to hand to another goroutine.
func (t *Tracker) Cues() List {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cues.Clone()
}

// Update looks up the active cue for playback time at.
// changed reports whether the result differs from the previous call.
func (t *Tracker) Update(at float64) (cue Cue, ok bool, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cue, ok = Active(t.cues, at)
	changed = ok != t.active || cue != t.current
	t.current, t.active = cue, ok
	return cue, ok, changed
}

// Current returns the last active cue.
func (t *Tracker) Current() (Cue, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.active
}
