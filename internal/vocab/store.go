package vocab

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when an entry does not exist for the owner.
var ErrNotFound = errors.New("vocab entry not found")

// ErrNoWord is returned when an entry or document has no usable word.
var ErrNoWord = errors.New("word is required")

// LocalOwner owns the entries the desktop app and terminal quiz keep in the
// local database when no server account is used.
const LocalOwner = "local"

// Store persists vocabulary entries scoped by owner.
type Store interface {
	Add(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]Entry, error)
	// Subscribe calls fn with the owner's entries now and after every change.
	// The returned function stops the subscription.
	Subscribe(ownerID string, fn func([]Entry)) (unsubscribe func())
}

// Hub fans change notifications out to per-owner subscribers.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func([]Entry)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]func([]Entry))}
}

// Add registers fn for ownerID and returns its removal function.
func (h *Hub) Add(ownerID string, fn func([]Entry)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[int]func([]Entry))
	}
	id := h.nextID
	h.nextID++
	h.subs[ownerID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[ownerID], id)
			if len(h.subs[ownerID]) == 0 {
				delete(h.subs, ownerID)
			}
		})
	}
}

// Has reports whether anyone listens for ownerID.
func (h *Hub) Has(ownerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[ownerID]) > 0
}

// Publish delivers entries to every subscriber of ownerID.
func (h *Hub) Publish(ownerID string, entries []Entry) {
	h.mu.Lock()
	fns := make([]func([]Entry), 0, len(h.subs[ownerID]))
	for _, fn := range h.subs[ownerID] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		snapshot := make([]Entry, len(entries))
		copy(snapshot, entries)
		fn(snapshot)
	}
}
