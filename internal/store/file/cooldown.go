// Package file implements the cooldown store as a single flat file holding
// an RFC3339 timestamp, the successor of the original .last_call_time file.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CooldownStore persists the last-action timestamp in one small file.
type CooldownStore struct {
	path string
}

// NewCooldownStore creates a file-backed store. The parent directory is
// created on first Save, not here, so a read-only doctor run never writes.
func NewCooldownStore(path string) *CooldownStore {
	return &CooldownStore{path: path}
}

// Load reads the persisted timestamp. Missing or unparseable files are
// "no prior action", never an error.
func (s *CooldownStore) Load() (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read cooldown state: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		// Corrupt state degrades to "no prior action".
		return time.Time{}, false, nil
	}
	return ts, true, nil
}

// Save writes the timestamp atomically via a temp file rename.
func (s *CooldownStore) Save(last time.Time) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cooldown-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(last.UTC().Format(time.RFC3339Nano) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cooldown state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cooldown state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cooldown state: %w", err)
	}
	return nil
}
