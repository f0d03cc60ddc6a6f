package shutdown

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileConfig configures a file-backed shutdown signal.
type FileConfig struct {
	// Name identifies the signal. Empty disables shutdown detection:
	// waits become plain bounded sleeps that return false.
	Name string

	// Dir is the directory holding the sentinel file.
	// Default: os.TempDir()
	Dir string

	// PollInterval between existence checks while waiting.
	// Default: 100 milliseconds
	PollInterval time.Duration
}

// DefaultFileConfig returns configuration with sensible defaults.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		PollInterval: 100 * time.Millisecond,
	}
}

// FileSignal realizes the named cross-process signal as a sentinel file:
// the file existing means shutdown is requested. Any process that knows
// the name can assert it (create the file) or reset it (remove the
// file), and its state survives either party crashing — the portable
// equivalent of a named manual-reset event.
type FileSignal struct {
	path         string
	pollInterval time.Duration
}

// NewFileSignal creates a signal keyed by cfg.Name. An empty name yields
// a disabled signal rather than an error, so hosts without a supervisor
// work unchanged.
func NewFileSignal(cfg FileConfig) *FileSignal {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultFileConfig().PollInterval
	}

	var path string
	if cfg.Name != "" {
		dir := cfg.Dir
		if dir == "" {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, sanitizeName(cfg.Name)+".shutdown")
	}

	return &FileSignal{
		path:         path,
		pollInterval: poll,
	}
}

// Path returns the sentinel file path, or "" when disabled.
func (s *FileSignal) Path() string {
	return s.path
}

// WaitForShutdownEvent polls for the sentinel file up to timeout.
// It never removes the file: the request is level-triggered and remains
// visible to every later check.
func (s *FileSignal) WaitForShutdownEvent(timeout time.Duration) bool {
	if s.path == "" {
		time.Sleep(timeout)
		return false
	}

	deadline := time.Now().Add(timeout)
	for {
		if s.IsSignaled() {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if remaining > s.pollInterval {
			remaining = s.pollInterval
		}
		time.Sleep(remaining)
	}
}

// Assert creates the sentinel file. Idempotent.
func (s *FileSignal) Assert() error {
	if s.path == "" {
		return ErrDisabled
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Reset removes the sentinel file. Removing an absent file is a no-op.
func (s *FileSignal) Reset() error {
	if s.path == "" {
		return ErrDisabled
	}

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsSignaled reports whether the sentinel file exists.
func (s *FileSignal) IsSignaled() bool {
	if s.path == "" {
		return false
	}
	_, err := os.Stat(s.path)
	return err == nil
}

// sanitizeName strips path separators so the identifier cannot escape
// the signal directory.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	return strings.ReplaceAll(name, "..", "_")
}
