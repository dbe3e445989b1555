package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

const stateDirName = "ktienda-chat"

// StatePaths holds the locations of the client's local files
type StatePaths struct {
	BaseDir string // root of all client state
}

// DetectStatePaths resolves the state directory. A non-empty custom path wins,
// then $XDG_STATE_HOME/ktienda-chat, then ~/.ktienda-chat.
func DetectStatePaths(custom string) (StatePaths, error) {
	if custom != "" {
		abs, err := filepath.Abs(custom)
		if err != nil {
			return StatePaths{}, fmt.Errorf("failed to resolve state dir %s: %w", custom, err)
		}
		return StatePaths{BaseDir: abs}, nil
	}

	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return StatePaths{BaseDir: filepath.Join(xdg, stateDirName)}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return StatePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}
	return StatePaths{BaseDir: filepath.Join(home, "."+stateDirName)}, nil
}

// Ensure creates the state directory if needed
func (sp StatePaths) Ensure() error {
	return os.MkdirAll(sp.BaseDir, 0755)
}

// DatabasePath returns the sqlite file holding the active session id
func (sp StatePaths) DatabasePath() string {
	return filepath.Join(sp.BaseDir, "state.db")
}

// SnapshotPath returns the YAML file with the last good session list
func (sp StatePaths) SnapshotPath() string {
	return filepath.Join(sp.BaseDir, "sessions.yaml")
}

// HistoryDir returns the directory of cached transcripts
func (sp StatePaths) HistoryDir() string {
	return filepath.Join(sp.BaseDir, "history")
}

// LogPath returns the rotated log file
func (sp StatePaths) LogPath() string {
	return filepath.Join(sp.BaseDir, "logs", "ktienda-chat.log")
}

// DatabaseExists checks if the state database has been created
func (sp StatePaths) DatabaseExists() bool {
	_, err := os.Stat(sp.DatabasePath())
	return err == nil
}
