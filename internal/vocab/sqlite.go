package vocab

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sentix/internal/logger"
)

// SQLiteStore keeps entries as JSON documents in the vocab table and
// normalizes them on the way out.
type SQLiteStore struct {
	db  *sql.DB
	hub *Hub
	log *logger.Logger
}

// NewSQLiteStore creates a store over an opened database (see internal/db).
func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:  database,
		hub: NewHub(),
		log: logger.Named("vocab"),
	}
}

// Add inserts entry, assigning an ID and creation time when missing.
func (s *SQLiteStore) Add(ctx context.Context, entry Entry) (Entry, error) {
	if !entry.Usable() {
		return Entry{}, fmt.Errorf("add vocab entry: %w", ErrNoWord)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	doc, err := json.Marshal(entry.Document())
	if err != nil {
		return Entry{}, fmt.Errorf("encode vocab entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO vocab (id, owner_id, doc, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.OwnerID, string(doc), entry.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("insert vocab entry: %w", err)
	}

	s.log.Debug("added %q for owner %s", entry.Word, entry.OwnerID)
	s.publish(entry.OwnerID)
	return entry, nil
}

// AddDocument stores a raw document after normalizing it. Any ID in the
// document is ignored; a fresh one is assigned.
func (s *SQLiteStore) AddDocument(ctx context.Context, ownerID string, doc map[string]any) (Entry, error) {
	entry := Normalize("", doc)
	entry.ID = ""
	entry.OwnerID = ownerID
	return s.Add(ctx, entry)
}

// Delete removes one of the owner's entries.
func (s *SQLiteStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vocab WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete vocab entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	s.publish(ownerID)
	return nil
}

// List returns the owner's entries, newest first.
// Documents that fail to decode are skipped.
func (s *SQLiteStore) List(ctx context.Context, ownerID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM vocab WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list vocab: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		entry, err := DecodeDocument(id, []byte(doc))
		if err != nil {
			s.log.Warn("skipping entry: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Subscribe delivers the owner's entries immediately and after every change.
func (s *SQLiteStore) Subscribe(ownerID string, fn func([]Entry)) func() {
	unsubscribe := s.hub.Add(ownerID, fn)

	entries, err := s.List(context.Background(), ownerID)
	if err != nil {
		s.log.Error("initial vocab snapshot for %s: %v", ownerID, err)
		entries = []Entry{}
	}
	fn(entries)
	return unsubscribe
}

func (s *SQLiteStore) publish(ownerID string) {
	if !s.hub.Has(ownerID) {
		return
	}
	entries, err := s.List(context.Background(), ownerID)
	if err != nil {
		s.log.Error("refresh vocab snapshot for %s: %v", ownerID, err)
		return
	}
	s.hub.Publish(ownerID, entries)
}
