package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sentix/internal/config"
	"sentix/internal/logger"
)

// FileStore is a small JSON key/value file. The current video lives under
// config.CurrentVideoKey so other keys can share the file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStatePath returns ~/.config/sentix/state.json.
func DefaultStatePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "sentix", "state.json")
}

// Save stores v as the current video.
func (s *FileStore) Save(v Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	values := s.read()
	values[config.CurrentVideoKey] = data
	return s.write(values)
}

// Load returns the stored video. A missing or unreadable entry is ErrNoVideo.
func (s *FileStore) Load() (Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.read()[config.CurrentVideoKey]
	if !ok {
		return Video{}, ErrNoVideo
	}
	var v Video
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("Discarding corrupt current video: %v", err)
		return Video{}, ErrNoVideo
	}
	if !v.Valid() {
		return Video{}, ErrNoVideo
	}
	return v, nil
}

// Clear removes the current video.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	if _, ok := values[config.CurrentVideoKey]; !ok {
		return nil
	}
	delete(values, config.CurrentVideoKey)
	return s.write(values)
}

func (s *FileStore) read() map[string]json.RawMessage {
	values := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil {
		logger.Warn("State file %s is corrupt, starting fresh: %v", s.path, err)
		return make(map[string]json.RawMessage)
	}
	return values
}

func (s *FileStore) write(values map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
