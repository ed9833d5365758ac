package binary

import (
	"time"

	"github.com/ZebulonRouseFrantzich/gonpm/internal/platform"
)

// Format is the archive format of a release asset.
type Format string

const (
	// FormatTarGz is a gzip-compressed tarball, used everywhere but Windows.
	FormatTarGz Format = "tar.gz"
	// FormatZip is a zip archive, used on Windows.
	FormatZip Format = "zip"
)

// String returns the file extension for the format.
func (f Format) String() string {
	return string(f)
}

// State is a step of the install or uninstall flow.
type State string

const (
	StateConfigLoaded     State = "config_loaded"
	StatePlatformResolved State = "platform_resolved"
	StateFetching         State = "fetching"
	StateExtracting       State = "extracting"
	StateVerified         State = "verified"
	StatePlaced           State = "placed"
	StatePathResolved     State = "path_resolved"
	StateRemoved          State = "removed"
)

// Options is derived once per invocation from the manifest and the
// resolved platform. It is never modified after ResolveOptions returns.
type Options struct {
	// BinaryName is the executable name, with ".exe" on Windows.
	BinaryName string
	// StagingDir receives the extracted archive members.
	StagingDir string
	// URL is the download URL with all placeholders substituted.
	URL string
	// Format is the archive format of the download.
	Format Format
	// ChecksumKey is "<platform>_<arch>".
	ChecksumKey string
	// ExpectedChecksum is the manifest digest for ChecksumKey, or "".
	ExpectedChecksum string
	// Target is the resolved platform.
	Target platform.Target
}

// VerificationResult contains the outcome of a checksum comparison.
type VerificationResult struct {
	Key      string
	Expected string
	Actual   string
	// Match is true when Expected is present and equal to Actual.
	Match bool
	// Skipped is true when a failed comparison was ignored.
	Skipped bool
}

// InstallResult describes a completed install.
type InstallResult struct {
	Path         string
	URL          string
	Bytes        int64
	Verification VerificationResult
	Duration     time.Duration
}
