// Package binary downloads, verifies, extracts and places the prebuilt
// binary described by a package manifest.
//
// # Pipeline
//
// An install runs through a fixed sequence of states:
//
//	ConfigLoaded -> PlatformResolved -> Fetching -> (Extracting || Hashing) -> Verified -> Placed
//
// The response body is read exactly once. A DigestReader sits between the
// HTTP body and the archive decoder so the SHA-256 digest is accumulated as
// the extractor consumes bytes; the remainder is drained after extraction so
// the digest always covers the whole payload. Verification happens only once
// both consumers have finished.
//
// Unsupported platforms are rejected before any network activity.
//
// # Verification
//
// The expected digest is looked up in the manifest's checksums map under
// "<platform>_<arch>". A missing entry or a mismatch fails the install
// unless the environment asks to skip verification, in which case the
// mismatch is logged as a warning and the install continues.
//
// # Usage
//
//	installer, err := binary.NewInstaller(binary.Config{
//	    Env:     env,
//	    Fetcher: binary.NewHTTPFetcher(),
//	    Paths:   npm.NewResolver(env.Global, m.PackageName),
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := installer.Install(ctx, m)
//
// # Architecture
//
//   - Installer: orchestration of the install and uninstall flows
//   - Fetcher: single HTTP GET, no retries
//   - DigestReader / Verify: streaming SHA-256 and checksum comparison
//   - Extractor: tar.gz streaming extraction, zip via a temporary file
//   - Placer: move into the bin directory and idempotent removal
//   - Lock: per-binary lock file in the bin directory serializing
//     concurrent installs and removals
package binary
