package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/exdoc/internal/logfields"
)

// Manager owns one workspace directory holding the checkouts of remote
// sources for a run (or a sequence of daemon runs).
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a manager producing an ephemeral timestamped workspace
// under baseDir. An empty baseDir falls back to the system temp directory.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a manager using the fixed directory
// baseDir/name. The directory survives Cleanup, so checkouts inside it are
// updated incrementally by later runs.
func NewPersistentManager(baseDir, name string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if name == "" {
		name = "working"
	}
	return &Manager{
		baseDir:    baseDir,
		dir:        filepath.Join(baseDir, name),
		persistent: true,
	}
}

// Create makes the workspace directory: the fixed path in persistent mode, a
// fresh timestamped one otherwise.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("creating persistent workspace: %w", err)
		}
		slog.Info("using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	timestamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(m.baseDir, "exdoc-"+timestamp)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}

	m.dir = dir
	slog.Info("created workspace", logfields.Path(dir))
	return nil
}

// GetPath returns the workspace directory, empty before Create.
func (m *Manager) GetPath() string {
	return m.dir
}

// Cleanup removes an ephemeral workspace. Persistent workspaces are left in
// place for the next run.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if m.persistent {
		slog.Debug("keeping persistent workspace", logfields.Path(m.dir))
		return nil
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("cleaning up workspace: %w", err)
	}
	slog.Info("cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
