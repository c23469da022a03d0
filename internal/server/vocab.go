package server

import (
	"errors"
	"net/http"

	"sentix/internal/logger"
	"sentix/internal/vocab"
)

type VocabHandler struct {
	store *vocab.SQLiteStore
	log   *logger.Logger
}

func NewVocabHandler(store *vocab.SQLiteStore) *VocabHandler {
	return &VocabHandler{store: store, log: logger.Named("vocab")}
}

// List returns the user's entries as canonical documents.
func (h *VocabHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context(), ownerID(r.Context()))
	if err != nil {
		h.log.Error("list: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load vocabulary")
		return
	}
	docs := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, document(e))
	}
	writeJSON(w, http.StatusOK, docs)
}

// Add accepts any document shape Normalize understands. The owner is always
// the session user.
func (h *VocabHandler) Add(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if !decodeJSON(w, r, &doc) {
		return
	}
	saved, err := h.store.AddDocument(r.Context(), ownerID(r.Context()), doc)
	if errors.Is(err, vocab.ErrNoWord) {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	if err != nil {
		h.log.Error("add: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save word")
		return
	}
	writeJSON(w, http.StatusCreated, document(saved))
}

func (h *VocabHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), ownerID(r.Context()), r.PathValue("id"))
	if errors.Is(err, vocab.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Word not found")
		return
	}
	if err != nil {
		h.log.Error("delete: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete word")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func document(e vocab.Entry) map[string]any {
	doc := e.Document()
	doc["id"] = e.ID
	return doc
}
