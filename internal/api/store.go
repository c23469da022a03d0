package api

import (
	"context"
	"slices"
	"sync"
	"time"

	"sentix/internal/config"
	"sentix/internal/vocab"
)

const sessionOwner = ""

// VocabStore is a vocab.Store backed by the server. The server scopes every
// call to the session user, so owner IDs passed in are ignored. Each
// subscription polls the server, so changes made by other clients show up
// too; changes made through the store are pushed right after the server
// confirms them. Subscribers only hear about snapshots that differ from the
// last one they got.
type VocabStore struct {
	client   *Client
	hub      *vocab.Hub
	interval time.Duration
}

// NewVocabStore creates a store for the signed-in user of client.
func NewVocabStore(client *Client) *VocabStore {
	return &VocabStore{client: client, hub: vocab.NewHub(), interval: config.VocabPollInterval}
}

// Add saves entry. The owner is taken from the session, not the entry.
func (s *VocabStore) Add(ctx context.Context, entry vocab.Entry) (vocab.Entry, error) {
	saved, err := s.client.AddVocab(ctx, entry)
	if err != nil {
		return vocab.Entry{}, err
	}
	s.refresh(ctx)
	return saved, nil
}

// Delete removes an entry.
func (s *VocabStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.client.DeleteVocab(ctx, id); err != nil {
		if IsStatus(err, 404) {
			return vocab.ErrNotFound
		}
		return err
	}
	s.refresh(ctx)
	return nil
}

// List returns the signed-in user's entries.
func (s *VocabStore) List(ctx context.Context, ownerID string) ([]vocab.Entry, error) {
	return s.client.Vocab(ctx)
}

// Subscribe delivers the current entries, then polls until unsubscribed.
func (s *VocabStore) Subscribe(ownerID string, fn func([]vocab.Entry)) func() {
	sub := &subscription{fn: fn}
	removeFromHub := s.hub.Add(sessionOwner, sub.deliver)

	entries, err := s.load(context.Background())
	if err != nil {
		s.client.log.Warn("initial vocab load failed: %v", err)
		entries = []vocab.Entry{}
	}
	sub.deliver(entries)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.poll(ctx, sub)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			removeFromHub()
			cancel()
			<-done
		})
	}
}

func (s *VocabStore) poll(ctx context.Context, sub *subscription) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		entries, err := s.load(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.client.log.Debug("vocab poll failed: %v", err)
			}
			continue
		}
		if ctx.Err() != nil {
			return
		}
		sub.deliver(entries)
	}
}

func (s *VocabStore) load(ctx context.Context) ([]vocab.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, config.APIClientTimeout)
	defer cancel()
	return s.client.Vocab(ctx)
}

func (s *VocabStore) refresh(ctx context.Context) {
	if !s.hub.Has(sessionOwner) {
		return
	}
	entries, err := s.load(ctx)
	if err != nil {
		s.client.log.Warn("vocab refresh failed: %v", err)
		return
	}
	s.hub.Publish(sessionOwner, entries)
}

// subscription remembers the last snapshot handed to fn.
type subscription struct {
	mu        sync.Mutex
	fn        func([]vocab.Entry)
	last      []vocab.Entry
	delivered bool
}

func (sub *subscription) deliver(entries []vocab.Entry) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.delivered && sameEntries(sub.last, entries) {
		return
	}
	sub.last = slices.Clone(entries)
	sub.delivered = true
	sub.fn(entries)
}

func sameEntries(a, b []vocab.Entry) bool {
	return slices.EqualFunc(a, b, func(x, y vocab.Entry) bool {
		return x.ID == y.ID && x.Word == y.Word && x.Meaning == y.Meaning &&
			x.Example == y.Example && len(x.Definitions) == len(y.Definitions)
	})
}
