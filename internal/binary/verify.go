package binary

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"strings"
)

// DigestReader feeds every byte read through it into a SHA-256 hash.
// It sits between the download body and the archive decoder.
type DigestReader struct {
	r      io.Reader
	hasher hash.Hash
	n      int64
}

// NewDigestReader wraps r.
func NewDigestReader(r io.Reader) *DigestReader {
	return &DigestReader{
		r:      r,
		hasher: sha256.New(),
	}
}

// Read implements io.Reader.
func (d *DigestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		// hash.Hash.Write never returns an error
		d.hasher.Write(p[:n])
		d.n += int64(n)
	}
	return n, err
}

// Drain reads r to EOF. Archive readers stop at the end-of-archive marker,
// which may precede trailing padding.
func (d *DigestReader) Drain() error {
	_, err := io.Copy(io.Discard, d)
	return err
}

// Sum returns the hex-encoded digest of the bytes read so far.
func (d *DigestReader) Sum() string {
	return hex.EncodeToString(d.hasher.Sum(nil))
}

// BytesRead returns the number of bytes hashed so far.
func (d *DigestReader) BytesRead() int64 {
	return d.n
}

// Verify compares digest with checksums[key]. Hex digits compare
// case-insensitively. When skip is set a failed comparison is reported in
// the result instead of as an error.
func Verify(digest string, checksums map[string]string, key string, skip bool) (*VerificationResult, error) {
	expected := strings.TrimSpace(checksums[key])

	result := &VerificationResult{
		Key:      key,
		Expected: expected,
		Actual:   digest,
		Match:    expected != "" && strings.EqualFold(expected, digest),
	}

	if result.Match {
		return result, nil
	}

	if skip {
		result.Skipped = true
		return result, nil
	}

	return result, &ChecksumError{Key: key, Expected: expected, Actual: digest}
}
