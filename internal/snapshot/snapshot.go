// Package snapshot persists the last computed critical path so later
// runs can report whether anything changed.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/khartley/linchpin/internal/critpath"
)

const snapshotFile = "snapshot.json"

// saveMu serializes snapshot writes within a process.
var saveMu sync.Mutex

// Snapshot is the persisted shape of one critical-path result.
type Snapshot struct {
	SavedAt  time.Time `json:"saved_at"`
	HasPath  bool      `json:"has_path"`
	Length   int       `json:"length"`
	NodeIDs  []string  `json:"node_ids"`  // path order
	EdgeKeys []string  `json:"edge_keys"` // sorted
}

// Capture flattens a result into its persistable form.
func Capture(r *critpath.Result) *Snapshot {
	s := &Snapshot{
		SavedAt: time.Now(),
		HasPath: r.HasPath,
		Length:  r.Length,
	}
	for _, n := range r.Nodes {
		s.NodeIDs = append(s.NodeIDs, n.ID)
	}
	for key := range r.EdgeKeys {
		s.EdgeKeys = append(s.EdgeKeys, key)
	}
	sort.Strings(s.EdgeKeys)
	return s
}

// Save writes the snapshot under dir, creating it if needed.
func Save(dir string, s *Snapshot) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, snapshotFile), data, 0644)
}

// Load reads a previously saved snapshot from dir.
func Load(dir string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(dir, snapshotFile))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &s, nil
}

// Exists checks whether a snapshot file is present under dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, snapshotFile))
	return err == nil
}

// Clean removes the snapshot file. Missing files are not an error.
func Clean(dir string) error {
	err := os.Remove(filepath.Join(dir, snapshotFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Diff describes how the current path differs from the saved one.
type Diff struct {
	LengthDelta int      `json:"length_delta"`
	Added       []string `json:"added,omitempty"`   // on path now, not before
	Removed     []string `json:"removed,omitempty"` // on path before, not now
}

// Unchanged reports whether the path membership and length match.
func (d Diff) Unchanged() bool {
	return d.LengthDelta == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff compares the saved snapshot against a current one.
func (s *Snapshot) Diff(cur *Snapshot) Diff {
	was := make(map[string]bool, len(s.NodeIDs))
	for _, id := range s.NodeIDs {
		was[id] = true
	}
	now := make(map[string]bool, len(cur.NodeIDs))
	for _, id := range cur.NodeIDs {
		now[id] = true
	}

	d := Diff{LengthDelta: cur.Length - s.Length}
	for id := range now {
		if !was[id] {
			d.Added = append(d.Added, id)
		}
	}
	for id := range was {
		if !now[id] {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}
