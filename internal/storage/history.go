// Package storage persists popline state as local JSON files.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// HistoryLine is one stored command line.
type HistoryLine struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore implements command history storage using a local JSON file.
type HistoryStore struct {
	mu  sync.Mutex
	dir string
}

// NewHistoryStore creates a history store at the given directory.
func NewHistoryStore(dir string) *HistoryStore {
	return &HistoryStore{dir: dir}
}

func (s *HistoryStore) filePath() string {
	return filepath.Join(s.dir, "history.json")
}

// Append adds a line to the history. Consecutive duplicates are skipped.
func (s *HistoryStore) Append(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readUnsafe()
	if err != nil {
		lines = nil // Start fresh if the file is corrupted
	}

	if n := len(lines); n > 0 && lines[n-1].Text == text {
		return nil
	}

	lines = append(lines, HistoryLine{Text: text, CreatedAt: time.Now()})
	return s.writeUnsafe(lines)
}

// List returns all lines in the history, oldest first.
func (s *HistoryStore) List() ([]HistoryLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readUnsafe()
}

// Clear removes all lines.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeUnsafe(nil)
}

func (s *HistoryStore) readUnsafe() ([]HistoryLine, error) {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var lines []HistoryLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return lines, nil
}

func (s *HistoryStore) writeUnsafe(lines []HistoryLine) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	return os.WriteFile(s.filePath(), data, 0o644)
}
