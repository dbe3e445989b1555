package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const snapshotVersion = "1"

// SessionSnapshot is the on-disk copy of the last successfully fetched list
type SessionSnapshot struct {
	Version   string    `yaml:"version"`
	APIURL    string    `yaml:"api_url"`
	FetchedAt time.Time `yaml:"fetched_at"`
	Sessions  []Session `yaml:"sessions"`
}

// SnapshotManager persists the session list between runs so the sidebar has
// something to show before the first poll completes.
type SnapshotManager struct {
	path   string
	apiURL string
}

// NewSnapshotManager creates a manager writing to path for the given backend
func NewSnapshotManager(path, apiURL string) *SnapshotManager {
	return &SnapshotManager{path: path, apiURL: apiURL}
}

// Path returns the snapshot file location
func (sm *SnapshotManager) Path() string {
	return sm.path
}

// Load reads the snapshot. A missing file, a version mismatch or a snapshot
// taken against another backend all yield an empty result without error.
func (sm *SnapshotManager) Load() (*SessionSnapshot, error) {
	data, err := os.ReadFile(sm.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap SessionSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snap.Version != snapshotVersion || snap.APIURL != sm.apiURL {
		LogDebug("Ignoring session snapshot for %s (version %s)", snap.APIURL, snap.Version)
		return nil, nil
	}
	return &snap, nil
}

// Save writes sessions as the latest snapshot
func (sm *SnapshotManager) Save(sessions []Session) error {
	if err := os.MkdirAll(filepath.Dir(sm.path), 0755); err != nil {
		return err
	}

	snap := SessionSnapshot{
		Version:   snapshotVersion,
		APIURL:    sm.apiURL,
		FetchedAt: time.Now().UTC(),
		Sessions:  sessions,
	}
	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := sm.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, sm.path)
}

// Clear removes the snapshot
func (sm *SnapshotManager) Clear() error {
	if err := os.Remove(sm.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
