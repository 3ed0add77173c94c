package trace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// NewRunID returns a fresh run identifier, used both as the trace's RunID
// field and, by convention, as the default trace file's base name.
func NewRunID() string {
	return uuid.NewString()
}

// Save writes t to path as a single JSON record, holding an exclusive
// file lock for the duration of the write so a concurrent replay never
// observes a torn write (grounded on the teacher's append-only JSONL
// store, here guarding a single-record file instead of an append).
func Save(path string, t *Trace) error {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("trace: acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("trace: %s is locked by another writer", path)
	}
	defer lock.Unlock()

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("trace: marshal: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("trace: write %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes a Trace previously written by Save, holding a
// shared lock on the same lock file while it reads.
func Load(path string) (*Trace, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("trace: acquire lock: %w", err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: read %s: %w", path, err)
	}
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("trace: parse %s: %w", path, err)
	}
	return &t, nil
}
