// Package platform detects the host operating system and architecture and
// maps them onto the naming convention used by release archive URLs.
//
// Detection uses runtime.GOOS and runtime.GOARCH, with gopsutil supplying
// Linux distribution details for diagnostics. Resolution is a pure lookup
// against two static tables and never touches the network or filesystem.
package platform

import (
	"context"
	"fmt"
)

// Linux distribution family constants.
// These represent canonical family names for grouping related distributions.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // runtime OS identifier, e.g. "linux", "darwin", "windows"
	Arch     string // runtime architecture identifier, e.g. "amd64", "arm64"
	Platform string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family   string // canonical family (e.g., "debian", "rhel", "arch")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
// This is nil on non-Linux platforms.
type Distro struct {
	ID      string // distro ID (e.g., "ubuntu")
	Family  string // canonical family (e.g., "debian")
	Version string // version (e.g., "22.04")
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// Target is a resolved (platform, arch) token pair in the vendor's naming.
type Target struct {
	Platform string
	Arch     string
}

// Key returns the checksum lookup key, "<platform>_<arch>".
func (t Target) Key() string {
	return t.Platform + "_" + t.Arch
}

// IsWindows reports whether the target is Windows.
func (t Target) IsWindows() bool {
	return t.Platform == "windows"
}

// String returns the target as "platform/arch".
func (t Target) String() string {
	return t.Platform + "/" + t.Arch
}

// UnsupportedPlatformError is returned when the OS or architecture has no
// entry in the vendor token tables.
type UnsupportedPlatformError struct {
	Kind  string // "platform" or "architecture"
	Value string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("installation is not supported for this %s: %s", e.Kind, e.Value)
}
