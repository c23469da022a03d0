// Package playback adapts a playable media resource into a clock that the
// cue tracker and the player controls can follow.
package playback

// EventKind identifies a media notification.
type EventKind int

const (
	EventTimeUpdate EventKind = iota
	EventPlay
	EventPause
	EventLoadedMetadata
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "timeupdate"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventLoadedMetadata:
		return "loadedmetadata"
	default:
		return "unknown"
	}
}

// Handler is invoked synchronously by the media when an event fires.
type Handler func()

// Media is the capability set of a playable resource.
// Times are in seconds. Duration may be NaN or zero until metadata has loaded.
type Media interface {
	Play() error
	Pause()
	Paused() bool
	CurrentTime() float64
	SetCurrentTime(seconds float64)
	Duration() float64
	Volume() float64
	SetVolume(v float64)
	// Subscribe registers handler for kind and returns a function that removes it.
	Subscribe(kind EventKind, handler Handler) (unsubscribe func())
}
