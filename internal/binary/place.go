package binary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	osRename     = os.Rename
	osCreateTemp = os.CreateTemp
)

// Placer moves staged binaries into the bin directory and removes them.
type Placer struct{}

// NewPlacer creates a new placer
func NewPlacer() *Placer {
	return &Placer{}
}

// Staged returns the path of binaryName in stagingDir, or a
// *MissingBinaryError if extraction did not produce it.
func (p *Placer) Staged(stagingDir, binaryName string) (string, error) {
	src := filepath.Join(stagingDir, binaryName)

	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return "", &MissingBinaryError{Path: src}
	}
	return src, nil
}

// Place moves binaryName from stagingDir into targetDir and returns the
// final path. A plain rename is tried first; if that fails (for example
// across filesystems) the file is copied to a temporary file in targetDir
// which is then renamed into place.
func (p *Placer) Place(stagingDir, binaryName, targetDir string) (string, error) {
	src, err := p.Staged(stagingDir, binaryName)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(targetDir, binaryName)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", &PlaceError{Target: dest, Err: fmt.Errorf("create bin dir: %w", err)}
	}

	if err := osRename(src, dest); err != nil {
		if copyErr := copyInto(src, dest); copyErr != nil {
			return "", &PlaceError{Target: dest, Err: errors.Join(err, copyErr)}
		}
	}

	if err := SetExecutable(dest); err != nil {
		return "", &PlaceError{Target: dest, Err: err}
	}

	return dest, nil
}

// Remove deletes binaryName from targetDir. A missing file is not an error.
func (p *Placer) Remove(targetDir, binaryName string) error {
	path := filepath.Join(targetDir, binaryName)

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &PlaceError{Target: path, Err: err}
	}
	return nil
}

// copyInto copies src to dest through a temporary file in dest's directory
// so dest never holds a partial binary.
func copyInto(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open staged binary: %w", err)
	}
	defer in.Close()

	tmp, err := osCreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("copy binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := osRename(tmpName, dest); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	// Set permissions to 0755 (rwxr-xr-x)
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
