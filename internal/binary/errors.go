package binary

import (
	"fmt"
)

// FetchError is returned when the download request fails or the server
// answers with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractError is returned when the archive cannot be decoded or written.
type ExtractError struct {
	Format Format
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s archive: %v", e.Format, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// ChecksumError is returned when the digest of the download does not match
// the manifest, or the manifest has no digest for the platform.
type ChecksumError struct {
	Key      string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("cannot validate checksum of the downloaded package: no checksum for %s (got %s)", e.Key, e.Actual)
	}
	return fmt.Sprintf("cannot validate checksum of the downloaded package. got %s, expected %s", e.Actual, e.Expected)
}

// MissingBinaryError is returned when the archive did not contain the
// binary named in the manifest.
type MissingBinaryError struct {
	Path string
}

func (e *MissingBinaryError) Error() string {
	return "downloaded archive does not contain the binary specified in configuration - " + e.Path
}

// PlaceError is returned when the binary cannot be moved into the target
// directory.
type PlaceError struct {
	Target string
	Err    error
}

func (e *PlaceError) Error() string {
	return fmt.Sprintf("place binary at %s: %v", e.Target, e.Err)
}

func (e *PlaceError) Unwrap() error {
	return e.Err
}
