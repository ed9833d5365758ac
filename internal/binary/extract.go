package binary

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// Extractor handles archive extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks the archive read from r into destDir.
//
// For tar.gz the stream is decoded directly and only members named in
// members are written; an empty list extracts everything. Zip archives
// cannot be decoded from a stream, so the body is saved to a temporary
// file in destDir, fully extracted, and the temporary file removed
// whether or not extraction succeeded.
func (e *Extractor) Extract(r io.Reader, destDir string, format Format, members []string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return &ExtractError{Format: format, Err: fmt.Errorf("create dest dir: %w", err)}
	}

	var err error
	switch format {
	case FormatTarGz:
		err = e.extractTarGz(r, destDir, members)
	case FormatZip:
		err = e.extractZip(r, destDir)
	default:
		err = fmt.Errorf("unsupported archive format %q", format)
	}

	if err != nil {
		return &ExtractError{Format: format, Err: err}
	}
	return nil
}

// extractTarGz streams a .tar.gz archive into destDir.
func (e *Extractor) extractTarGz(r io.Reader, destDir string, members []string) error {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	allowed := make(map[string]bool, len(members))
	for _, m := range members {
		allowed[memberName(m)] = true
	}

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		name := memberName(header.Name)
		if name == "." || (len(allowed) > 0 && !allowed[name]) {
			continue
		}

		target, err := safeJoin(destDir, name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}

		default:
			// Skip other types (symlinks, devices, etc.)
			continue
		}
	}

	return nil
}

// extractZip saves r to a temporary file and unzips it into destDir.
func (e *Extractor) extractZip(r io.Reader, destDir string) error {
	tmpFile, err := os.CreateTemp(destDir, "gonpm-*.zip")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return e.unzip(tmpPath, destDir)
}

// unzip extracts every member of the zip file at archivePath.
func (e *Extractor) unzip(archivePath, destDir string) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zipReader.Close()

	for _, f := range zipReader.File {
		name := memberName(f.Name)
		if name == "." {
			continue
		}

		target, err := safeJoin(destDir, name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if !f.Mode().IsRegular() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		err = writeFile(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// writeFile copies r into a new file at target, creating parents.
func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if mode == 0 {
		mode = 0644
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}

// memberName normalizes an archive member name to a cleaned
// slash-separated path, so "./tigris" and "tigris" compare equal.
func memberName(name string) string {
	return path.Clean(strings.ReplaceAll(name, "\\", "/"))
}

// safeJoin joins name onto destDir, rejecting paths that escape it.
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))

	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}
