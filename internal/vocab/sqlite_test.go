package vocab

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"sentix/internal/db"
	"sentix/internal/explain"
	"sentix/internal/subtitle"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "vocab.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewSQLiteStore(database)
}

func TestSQLiteStore_AddListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	added, err := store.Add(ctx, Entry{OwnerID: "alice", Word: "cat", Meaning: "feline"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" || added.CreatedAt.IsZero() {
		t.Errorf("Add should assign ID and CreatedAt, got %+v", added)
	}

	if _, err := store.Add(ctx, Entry{OwnerID: "bob", Word: "dog"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Word != "cat" || entries[0].Meaning != "feline" {
		t.Errorf("List(alice) = %+v", entries)
	}

	if err := store.Delete(ctx, "bob", added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by other owner = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "alice", added.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	entries, _ = store.List(ctx, "alice")
	if len(entries) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(entries))
	}
}

func TestSQLiteStore_AddRequiresWord(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add(context.Background(), Entry{OwnerID: "alice", Meaning: "nothing"}); !errors.Is(err, ErrNoWord) {
		t.Errorf("Add without word = %v, want ErrNoWord", err)
	}
	if _, err := store.AddDocument(context.Background(), "alice", nil); !errors.Is(err, ErrNoWord) {
		t.Errorf("AddDocument(nil) = %v, want ErrNoWord", err)
	}
}

func TestSQLiteStore_AddDocumentNormalizes(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saved, err := store.AddDocument(ctx, "alice", map[string]any{"id": "forged", "original": "bird", "def": "has wings"})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if saved.ID == "" || saved.ID == "forged" || saved.OwnerID != "alice" {
		t.Errorf("saved = %+v, want a fresh ID owned by alice", saved)
	}

	entries, _ := store.List(ctx, "alice")
	if len(entries) != 1 || entries[0].Word != "bird" || entries[0].Meaning != "has wings" {
		t.Errorf("List = %+v", entries)
	}
}

func TestSQLiteStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var mu sync.Mutex
	var snapshots [][]Entry
	unsubscribe := store.Subscribe("alice", func(entries []Entry) {
		mu.Lock()
		snapshots = append(snapshots, entries)
		mu.Unlock()
	})

	if len(snapshots) != 1 || len(snapshots[0]) != 0 {
		t.Fatalf("expected an immediate empty snapshot, got %+v", snapshots)
	}

	added, _ := store.Add(ctx, Entry{OwnerID: "alice", Word: "cat"})
	store.Add(ctx, Entry{OwnerID: "bob", Word: "dog"})
	store.Delete(ctx, "alice", added.ID)

	mu.Lock()
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
	}
	if len(snapshots[1]) != 1 || snapshots[1][0].Word != "cat" {
		t.Errorf("snapshot after add = %+v", snapshots[1])
	}
	if len(snapshots[2]) != 0 {
		t.Errorf("snapshot after delete = %+v", snapshots[2])
	}
	mu.Unlock()

	unsubscribe()
	store.Add(ctx, Entry{OwnerID: "alice", Word: "fish"})
	if len(snapshots) != 3 {
		t.Errorf("unsubscribed callback still called")
	}
}

func TestImportFromCues(t *testing.T) {
	cues := subtitle.List{
		{Start: 0, End: 1, Text: "The cat sat."},
		{Start: 1, End: 2, Text: "[music] The dog ran!"},
		{Start: 2, End: 3, Text: ""},
	}

	explainer := explain.ExplainerFunc(func(ctx context.Context, text string) (string, error) {
		if text == "ran" {
			return "", errors.New("provider down")
		}
		return "meaning of " + strings.ToLower(text), nil
	})

	entries, err := ImportFromCues(context.Background(), cues, explainer, ImportOptions{
		OwnerID: "alice",
		Workers: 2,
		Exclude: []Entry{{Word: "CAT"}},
	})
	if err == nil {
		t.Error("expected an error for the failed word")
	}

	words := map[string]Entry{}
	for _, e := range entries {
		words[e.Word] = e
	}
	if _, ok := words["cat"]; ok {
		t.Error("excluded word should be skipped")
	}
	if _, ok := words["music"]; ok {
		t.Error("sound annotations should be stripped")
	}
	for _, w := range []string{"The", "sat", "dog"} {
		e, ok := words[w]
		if !ok {
			t.Errorf("missing entry for %q (got %v)", w, entries)
			continue
		}
		if e.OwnerID != "alice" || e.Meaning == "" {
			t.Errorf("entry %q = %+v", w, e)
		}
	}
	if words["dog"].Example != "The dog ran!" {
		t.Errorf("example = %q", words["dog"].Example)
	}
}

func TestImportFromCues_Empty(t *testing.T) {
	entries, err := ImportFromCues(context.Background(), nil, nil, ImportOptions{})
	if err != nil || entries != nil {
		t.Errorf("ImportFromCues(nil) = %v, %v", entries, err)
	}
}
