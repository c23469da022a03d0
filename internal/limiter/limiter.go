// Package limiter provides global resource limiters for subtitle generation.
package limiter

import (
	"context"

	"sentix/internal/config"
)

// Slots is a counting semaphore.
type Slots struct {
	ch chan struct{}
}

// NewSlots creates a semaphore with n slots. n below 1 is treated as 1.
func NewSlots(n int) *Slots {
	if n < 1 {
		n = 1
	}
	return &Slots{ch: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is done.
func (s *Slots) Acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (s *Slots) Release() {
	<-s.ch
}

// InUse returns the number of held slots.
func (s *Slots) InUse() int {
	return len(s.ch)
}

// Capacity returns the total number of slots.
func (s *Slots) Capacity() int {
	return cap(s.ch)
}

var (
	// Transcriptions limits concurrent uploads to the speech-to-text provider
	// across every generation request handled by the process.
	Transcriptions = NewSlots(config.MaxConcurrentTranscriptions)

	// Extractions limits concurrent ffmpeg audio extractions.
	Extractions = NewSlots(config.MaxConcurrentExtractions)
)
