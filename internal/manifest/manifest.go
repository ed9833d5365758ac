// Package manifest loads and validates the package.json block that
// describes which prebuilt binary to install.
//
// The manifest is read once per invocation. Validation stops at the first
// violation, checked in a fixed order: version, goBinary (object),
// goBinary.name, goBinary.url, bin (object).
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the manifest file looked up in the package directory.
const FileName = "package.json"

// keyDelim separates nested koanf keys. npm command names and checksum
// keys never contain it, unlike ".".
const keyDelim = "/"

// Manifest describes the binary to download and where it comes from.
type Manifest struct {
	// PackageName is the npm package name, used for the global bin layout.
	PackageName string
	// Version is the release version with any leading "v" removed.
	Version string
	// BinaryName is the executable name inside the archive, without ".exe".
	BinaryName string
	// URLTemplate may contain {{arch}}, {{platform}}, {{version}},
	// {{bin_name}} and {{ext}} placeholders.
	URLTemplate string
	// Checksums maps "<platform>_<arch>" to a hex SHA-256 digest.
	Checksums map[string]string
	// Bin mirrors the npm "bin" object. Only its presence is checked.
	Bin map[string]string
}

// LoadFromDir loads FileName from dir.
func LoadFromDir(dir string) (*Manifest, error) {
	return Load(filepath.Join(dir, FileName))
}

// Load reads the manifest at path and validates it.
func Load(path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ParseError{
				Path:    path,
				Message: "unable to find " + filepath.Base(path) + "; run this at the root of the package you want installed",
				Cause:   err,
			}
		}
		return nil, &ParseError{Path: path, Message: "stat manifest", Cause: err}
	}

	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, &ParseError{Path: path, Message: "invalid JSON", Cause: err}
	}

	if err := validate(k); err != nil {
		return nil, err
	}

	m := &Manifest{
		PackageName: k.String("name"),
		Version:     NormalizeVersion(k.String("version")),
		BinaryName:  k.String(joinKey("goBinary", "name")),
		URLTemplate: k.String(joinKey("goBinary", "url")),
		Checksums:   k.StringMap(joinKey("goBinary", "checksums")),
		Bin:         k.StringMap("bin"),
	}

	return m, nil
}

// validate checks required fields in order and returns the first failure.
func validate(k *koanf.Koanf) error {
	if strings.TrimSpace(k.String("version")) == "" {
		return &ValidationError{Field: "version", Message: "version property must be specified"}
	}

	if !isObject(k.Get("goBinary")) {
		return &ValidationError{Field: "goBinary", Message: "goBinary property must be defined and be an object"}
	}

	if k.String(joinKey("goBinary", "name")) == "" {
		return &ValidationError{Field: "goBinary.name", Message: "name property is necessary"}
	}

	if k.String(joinKey("goBinary", "url")) == "" {
		return &ValidationError{Field: "goBinary.url", Message: "url property is required"}
	}

	if !isObject(k.Get("bin")) {
		return &ValidationError{Field: "bin", Message: "bin property of package.json must be defined and be an object"}
	}

	return nil
}

// isObject reports whether v decoded from a non-empty JSON object.
func isObject(v interface{}) bool {
	obj, ok := v.(map[string]interface{})
	return ok && len(obj) > 0
}

func joinKey(parts ...string) string {
	return strings.Join(parts, keyDelim)
}

// NormalizeVersion strips a single leading "v", so "v1.2.3" becomes "1.2.3".
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}

// ParseError is returned when the manifest cannot be read or decoded.
type ParseError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s: %s: %v", filepath.Base(e.Path), e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid %s: %s", filepath.Base(e.Path), e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError reports the first missing or invalid manifest field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid package.json: " + e.Field + ": " + e.Message
}

// IsConfigError reports whether err is a manifest parse or validation error.
func IsConfigError(err error) bool {
	var parseErr *ParseError
	var validationErr *ValidationError
	return errors.As(err, &parseErr) || errors.As(err, &validationErr)
}
