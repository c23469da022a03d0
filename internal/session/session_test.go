package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	store := newStore(t)

	if _, err := store.Load(); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Load on empty store = %v, want ErrNoVideo", err)
	}

	v := Video{DownloadURL: "http://example.com/v.mp4", StoragePath: "uploads/v.mp4", Title: "Clip"}
	if err := store.Save(v); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != v {
		t.Errorf("Load = %+v, want %+v", got, v)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Load after Clear = %v, want ErrNoVideo", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	store := newStore(t)
	if err := os.WriteFile(store.path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Load of corrupt file = %v, want ErrNoVideo", err)
	}

	if err := os.WriteFile(store.path, []byte(`{"sentix:currentVideo": 42}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Load of corrupt entry = %v, want ErrNoVideo", err)
	}

	if err := store.Save(Video{DownloadURL: "u"}); err != nil {
		t.Fatalf("Save over corrupt file: %v", err)
	}
}

func TestContext_Lifecycle(t *testing.T) {
	store := newStore(t)
	ctx := NewContext(store)

	if _, err := ctx.Resume(); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Resume without video = %v, want ErrNoVideo", err)
	}
	if err := ctx.UpdateSRT("x"); !errors.Is(err, ErrNoVideo) {
		t.Errorf("UpdateSRT without video = %v, want ErrNoVideo", err)
	}
	if err := ctx.Set(Video{Title: "no url"}); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Set without URL = %v, want ErrNoVideo", err)
	}

	if err := ctx.Set(Video{DownloadURL: "file:///tmp/a.mp4", Title: "A"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := ctx.UpdateSRT("1\n00:00:01,000 --> 00:00:02,000\nHi\n"); err != nil {
		t.Fatalf("UpdateSRT: %v", err)
	}

	// A fresh context sees what the first one persisted.
	resumed, err := NewContext(store).Resume()
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.Title != "A" || resumed.SRT == "" {
		t.Errorf("Resume = %+v", resumed)
	}

	if err := ctx.ChooseAnother(); err != nil {
		t.Fatalf("ChooseAnother: %v", err)
	}
	if _, ok := ctx.Video(); ok {
		t.Error("ChooseAnother should clear the cached video")
	}
	if _, err := NewContext(store).Resume(); !errors.Is(err, ErrNoVideo) {
		t.Errorf("Resume after ChooseAnother = %v, want ErrNoVideo", err)
	}
}
