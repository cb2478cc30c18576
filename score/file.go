package score

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

type fileData struct {
	Scores []Entry `yaml:"scores"`
}

// FileStore keeps entries in a YAML file that is rewritten on every submit.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// OpenFile loads path. A missing file is an empty store.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("score file path is empty")
	}
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading scores: %w", err)
	}

	var fd fileData
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	s.entries = fd.Scores
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Best(_ context.Context, level string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return best(s.entries, level), nil
}

func (s *FileStore) Submit(_ context.Context, e Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newBest := e.Score > best(s.entries, e.Level)
	entries := append(s.entries[:len(s.entries):len(s.entries)], stamp(e))
	if err := s.write(entries); err != nil {
		return false, err
	}
	s.entries = entries
	return newBest, nil
}

func (s *FileStore) Top(_ context.Context, level string, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return top(s.entries, level, n), nil
}

func (s *FileStore) Close() error {
	return nil
}

// write replaces the file atomically.
func (s *FileStore) write(entries []Entry) error {
	data, err := yaml.Marshal(fileData{Scores: entries})
	if err != nil {
		return errors.Errorf("encoding scores: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".scores-*.yaml")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Errorf("writing scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("writing scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
