package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/ktienda-chat/testutil"
)

func TestDetectStatePaths(t *testing.T) {
	tmpDir := testutil.CreateTempDir(t)

	tests := []struct {
		name   string
		custom string
		xdg    string
		want   string
	}{
		{
			name:   "custom dir wins",
			custom: filepath.Join(tmpDir, "custom"),
			xdg:    filepath.Join(tmpDir, "xdg"),
			want:   filepath.Join(tmpDir, "custom"),
		},
		{
			name: "xdg state home",
			xdg:  filepath.Join(tmpDir, "xdg"),
			want: filepath.Join(tmpDir, "xdg", "ktienda-chat"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_STATE_HOME", tt.xdg)
			paths, err := DetectStatePaths(tt.custom)
			if err != nil {
				t.Fatalf("DetectStatePaths() error = %v", err)
			}
			if paths.BaseDir != tt.want {
				t.Errorf("BaseDir = %v, want %v", paths.BaseDir, tt.want)
			}
		})
	}
}

func TestDetectStatePaths_HomeFallback(t *testing.T) {
	home := testutil.CreateTempDir(t)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)

	paths, err := DetectStatePaths("")
	if err != nil {
		t.Fatalf("DetectStatePaths() error = %v", err)
	}
	if want := filepath.Join(home, ".ktienda-chat"); paths.BaseDir != want {
		t.Errorf("BaseDir = %v, want %v", paths.BaseDir, want)
	}
}

func TestStatePaths_Files(t *testing.T) {
	paths := StatePaths{BaseDir: testutil.CreateTempDir(t)}

	if got := paths.DatabasePath(); got != filepath.Join(paths.BaseDir, "state.db") {
		t.Errorf("DatabasePath() = %v", got)
	}
	if got := paths.SnapshotPath(); got != filepath.Join(paths.BaseDir, "sessions.yaml") {
		t.Errorf("SnapshotPath() = %v", got)
	}
	if got := paths.LogPath(); got != filepath.Join(paths.BaseDir, "logs", "ktienda-chat.log") {
		t.Errorf("LogPath() = %v", got)
	}

	if paths.DatabaseExists() {
		t.Error("DatabaseExists() should be false before the first run")
	}
	if err := os.WriteFile(paths.DatabasePath(), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !paths.DatabaseExists() {
		t.Error("DatabaseExists() should be true once the file exists")
	}
}

func TestStatePaths_Ensure(t *testing.T) {
	paths := StatePaths{BaseDir: filepath.Join(testutil.CreateTempDir(t), "a", "b")}
	if err := paths.Ensure(); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if info, err := os.Stat(paths.BaseDir); err != nil || !info.IsDir() {
		t.Errorf("Ensure() did not create %s", paths.BaseDir)
	}
}
