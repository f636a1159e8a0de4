package automation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	consentFileName = "consent"
	historyFileName = "history.json"
)

// Storage persists the consent flag and execution history to a per-user
// state directory. Files are read once at store initialization and written
// through on every relevant mutation. Unreadable or corrupt files degrade
// to empty state rather than failing; no cross-process synchronization is
// attempted.
type Storage struct {
	dir string
}

// NewStorage creates a storage rooted at dir, creating it if necessary.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the state directory path.
func (s *Storage) Dir() string {
	return s.dir
}

// LoadConsent reads the persisted consent flag. Missing or malformed
// content reads as false.
func (s *Storage) LoadConsent() bool {
	data, err := os.ReadFile(filepath.Join(s.dir, consentFileName))
	if err != nil {
		return false
	}
	return string(data) == "true"
}

// SaveConsent persists the consent flag as a "true"/"false" string.
func (s *Storage) SaveConsent(consent bool) error {
	value := "false"
	if consent {
		value = "true"
	}
	return s.writeAtomic(consentFileName, []byte(value))
}

// LoadHistory reads the persisted execution history, newest-first. Missing
// or corrupt files read as empty. Entries beyond the history limit are
// dropped.
func (s *Storage) LoadHistory() []ExecutionLog {
	data, err := os.ReadFile(filepath.Join(s.dir, historyFileName))
	if err != nil {
		return nil
	}

	var history []ExecutionLog
	if err := json.Unmarshal(data, &history); err != nil {
		return nil
	}
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	return history
}

// SaveHistory persists the execution history.
func (s *Storage) SaveHistory(history []ExecutionLog) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return s.writeAtomic(historyFileName, data)
}

// ClearHistory removes the persisted history file. Returns nil if the file
// doesn't exist (idempotent).
func (s *Storage) ClearHistory() error {
	err := os.Remove(filepath.Join(s.dir, historyFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove history file: %w", err)
	}
	return nil
}

// writeAtomic writes a state file using a temp file + rename so readers
// never observe a partial write.
func (s *Storage) writeAtomic(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
