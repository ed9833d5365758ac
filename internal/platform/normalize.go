package platform

import (
	"strings"
)

// archTokens maps runtime architecture identifiers (Go and Node spellings)
// to the architecture token used in release archive names.
var archTokens = map[string]string{
	"amd64":   "amd64",
	"x64":     "amd64",
	"x86_64":  "amd64",
	"arm64":   "arm64",
	"aarch64": "arm64",
}

// platformTokens maps runtime OS identifiers to the platform token used in
// release archive names.
var platformTokens = map[string]string{
	"darwin":  "darwin",
	"linux":   "linux",
	"windows": "windows",
	"win32":   "windows",
	"freebsd": "freebsd",
}

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// Resolve maps an OS and architecture identifier to vendor tokens.
// The architecture is checked first.
func Resolve(osID, archID string) (Target, error) {
	arch, ok := archTokens[archID]
	if !ok {
		return Target{}, &UnsupportedPlatformError{Kind: "architecture", Value: archID}
	}

	platform, ok := platformTokens[osID]
	if !ok {
		return Target{}, &UnsupportedPlatformError{Kind: "platform", Value: osID}
	}

	return Target{Platform: platform, Arch: arch}, nil
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
// Uses a package-level lookup table for explicit mapping.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}

	// Return "unknown" for unrecognized families
	return FamilyUnknown
}
