// Package session remembers which video the learner is working on so the
// player can resume it.
package session

import (
	"errors"
	"strings"
	"sync"
)

// ErrNoVideo means there is no usable current video; callers send the user
// back to video selection.
var ErrNoVideo = errors.New("no current video")

// Video describes the video being studied.
type Video struct {
	DownloadURL string `json:"downloadURL"`
	StoragePath string `json:"storagePath,omitempty"`
	Title       string `json:"title"`
	SRT         string `json:"srt,omitempty"`
}

// Valid reports whether the video can be played.
func (v Video) Valid() bool {
	return strings.TrimSpace(v.DownloadURL) != ""
}

// Port persists the current video.
type Port interface {
	Save(v Video) error
	// Load returns ErrNoVideo when nothing usable is stored.
	Load() (Video, error)
	Clear() error
}

// Context is handed to the player view. It caches the video and writes
// every change through to the port.
type Context struct {
	port Port

	mu    sync.Mutex
	video Video
	ok    bool
}

// NewContext creates a context over port.
func NewContext(port Port) *Context {
	return &Context{port: port}
}

// Resume loads the stored video. ErrNoVideo means redirect to selection.
func (c *Context) Resume() (Video, error) {
	v, err := c.port.Load()
	if err != nil {
		return Video{}, err
	}
	if !v.Valid() {
		return Video{}, ErrNoVideo
	}

	c.mu.Lock()
	c.video, c.ok = v, true
	c.mu.Unlock()
	return v, nil
}

// Video returns the cached current video.
func (c *Context) Video() (Video, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.video, c.ok
}

// Set makes v the current video.
func (c *Context) Set(v Video) error {
	if !v.Valid() {
		return ErrNoVideo
	}
	if err := c.port.Save(v); err != nil {
		return err
	}

	c.mu.Lock()
	c.video, c.ok = v, true
	c.mu.Unlock()
	return nil
}

// UpdateSRT attaches subtitles to the current video.
func (c *Context) UpdateSRT(srt string) error {
	c.mu.Lock()
	if !c.ok {
		c.mu.Unlock()
		return ErrNoVideo
	}
	v := c.video
	c.mu.Unlock()

	v.SRT = srt
	return c.Set(v)
}

// ChooseAnother forgets the current video.
func (c *Context) ChooseAnother() error {
	c.mu.Lock()
	c.video, c.ok = Video{}, false
	c.mu.Unlock()
	return c.port.Clear()
}
