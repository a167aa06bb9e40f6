// Package persistence implements durable snapshotting of submission
// logbooks (spec.md section 4.11, C12): a single versioned file written
// atomically via write-temp-then-rename, so concurrent readers always see
// either the old or the fully-written new snapshot, never a partial one.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/axisproperty/dealengine/internal/logbook"
	"gopkg.in/yaml.v3"
)

// SnapshotSchemaVersion is stamped into every snapshot file so future
// readers can detect and migrate older formats.
const SnapshotSchemaVersion = 1

// Snapshot is the portable, self-describing record every logbook is
// serialised into (spec.md section 6.3).
type Snapshot struct {
	SchemaVersion int                          `yaml:"schema_version"`
	Logbooks      map[string]*logbook.Logbook   `yaml:"logbooks"`
}

// Store persists Snapshots to a single file on disk.
type Store struct {
	path string
}

// NewStore builds a Store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes logbooks to disk atomically: the new content is written to
// a temp file in the same directory, then renamed over the destination —
// a rename is atomic on POSIX filesystems, so a crash mid-write never
// leaves a corrupt snapshot behind.
func (s *Store) Save(logbooks map[string]*logbook.Logbook) error {
	snapshot := Snapshot{SchemaVersion: SnapshotSchemaVersion, Logbooks: logbooks}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("persistence: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persistence: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("persistence: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("persistence: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("persistence: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("persistence: rename temp file: %w", err)
	}

	return nil
}

// Load reconstructs the last saved snapshot. A missing file is not an
// error — it means no snapshot has been saved yet, and Load returns an
// empty Snapshot.
func (s *Store) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Snapshot{SchemaVersion: SnapshotSchemaVersion, Logbooks: map[string]*logbook.Logbook{}}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("persistence: read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("persistence: unmarshal snapshot: %w", err)
	}
	if snapshot.Logbooks == nil {
		snapshot.Logbooks = map[string]*logbook.Logbook{}
	}
	return snapshot, nil
}
