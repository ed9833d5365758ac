// Package testutil provides utilities for testing gonpm in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// System is an isolated process environment for tests. It satisfies
// binary.System without touching the real working directory or
// environment, so tests using it can run in parallel.
type System struct {
	WorkDir string
	Temp    string
	Env     map[string]string
}

// NewSystem creates temp directories for the working directory, the
// staging parent and the npm node_modules root.
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func NewSystem(t *testing.T) *System {
	t.Helper()

	tmpDir := t.TempDir()

	s := &System{
		WorkDir: filepath.Join(tmpDir, "pkg"),
		Temp:    filepath.Join(tmpDir, "tmp"),
		Env:     map[string]string{},
	}

	dirs := []string{
		s.WorkDir,
		s.Temp,
		s.NodeModules(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return s
}

// NodeModules returns the directory a fake `npm root` should print.
func (s *System) NodeModules() string {
	return filepath.Join(s.WorkDir, "node_modules")
}

// LocalBinDir is where a local install places the binary.
func (s *System) LocalBinDir() string {
	return filepath.Join(s.WorkDir, "bin")
}

// Getwd returns WorkDir.
func (s *System) Getwd() (string, error) {
	return s.WorkDir, nil
}

// LookupEnv reads from Env.
func (s *System) LookupEnv(key string) (string, bool) {
	v, ok := s.Env[key]
	return v, ok
}

// TempDir returns Temp.
func (s *System) TempDir() string {
	return s.Temp
}

// WriteFile writes content to name under WorkDir.
func (s *System) WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(s.WorkDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
