package binary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/gonpm/internal/manifest"
	"github.com/ZebulonRouseFrantzich/gonpm/internal/platform"
)

// PathResolver locates the directory npm searches for package executables.
type PathResolver interface {
	BinDir(ctx context.Context) (string, error)
}

// Installer orchestrates download, verification, extraction and placement
type Installer struct {
	env       Environment
	fetcher   Fetcher
	paths     PathResolver
	extractor *Extractor
	placer    *Placer
	logger    Logger
	clock     Clock
	newRunID  func() string
}

// Config holds the collaborators for an Installer
type Config struct {
	// Env is the captured process environment.
	Env Environment
	// Fetcher opens download URLs. Defaults to an HTTPFetcher.
	Fetcher Fetcher
	// Paths resolves the install directory. Required.
	Paths PathResolver
	// Logger receives progress messages. Defaults to a no-op logger.
	Logger Logger
	// Clock defaults to RealClock.
	Clock Clock
}

// NewInstaller creates a new installer
func NewInstaller(config Config) (*Installer, error) {
	if config.Paths == nil {
		return nil, fmt.Errorf("path resolver is required")
	}

	if config.Env.TempDir == "" {
		return nil, fmt.Errorf("temp directory is required")
	}

	installer := &Installer{
		env:       config.Env,
		fetcher:   config.Fetcher,
		paths:     config.Paths,
		extractor: NewExtractor(),
		placer:    NewPlacer(),
		logger:    config.Logger,
		clock:     config.Clock,
		newRunID:  func() string { return uuid.NewString() },
	}

	if installer.fetcher == nil {
		installer.fetcher = NewHTTPFetcher()
	}
	if installer.logger == nil {
		installer.logger = defaultLogger()
	}
	if installer.clock == nil {
		installer.clock = RealClock{}
	}

	return installer, nil
}

// Install downloads the archive for the current platform, verifies it while
// extracting, and moves the binary into the npm bin directory.
func (i *Installer) Install(ctx context.Context, m *manifest.Manifest) (*InstallResult, error) {
	startTime := i.clock.Now()
	runID := i.newRunID()
	i.transition(runID, StateConfigLoaded)

	if m == nil {
		return nil, fmt.Errorf("manifest is required")
	}

	// Resolve before touching the network
	target, err := platform.Resolve(i.env.OS, i.env.Arch)
	if err != nil {
		return nil, err
	}
	i.transition(runID, StatePlatformResolved, "target", target.String())

	stagingDir := filepath.Join(i.env.TempDir, "gonpm-"+runID)
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(stagingDir); err != nil {
			i.logger.Debug("failed to remove staging dir", "path", stagingDir, "error", err)
		}
	}()

	opts, err := ResolveOptions(m, target, stagingDir)
	if err != nil {
		return nil, err
	}

	i.logger.Info("Downloading from URL", "url", opts.URL)
	i.transition(runID, StateFetching)

	body, err := i.fetcher.Fetch(ctx, opts.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	// Extraction and hashing consume the same stream; both finish before
	// the digest is checked.
	i.transition(runID, StateExtracting, "format", opts.Format)
	digest := NewDigestReader(body)
	if err := i.extractor.Extract(digest, opts.StagingDir, opts.Format, []string{opts.BinaryName}); err != nil {
		return nil, err
	}
	if err := digest.Drain(); err != nil {
		return nil, &FetchError{URL: opts.URL, Err: fmt.Errorf("read response body: %w", err)}
	}

	if _, err := i.placer.Staged(opts.StagingDir, opts.BinaryName); err != nil {
		return nil, err
	}

	verification, err := Verify(digest.Sum(), m.Checksums, opts.ChecksumKey, i.env.SkipVerify)
	if err != nil {
		return nil, err
	}
	if verification.Skipped {
		i.logger.Warn("checksum verification skipped",
			"key", verification.Key,
			"expected", verification.Expected,
			"actual", verification.Actual)
	}
	i.transition(runID, StateVerified, "sha256", verification.Actual)

	binDir, err := i.paths.BinDir(ctx)
	if err != nil {
		return nil, err
	}

	lock, err := AcquireLock(ctx, binDir, opts.BinaryName, i.clock)
	if err != nil {
		return nil, &PlaceError{Target: binDir, Err: err}
	}
	defer i.release(lock)

	i.logger.Info("Installing binary to", "dir", binDir)

	dest, err := i.placer.Place(opts.StagingDir, opts.BinaryName, binDir)
	if err != nil {
		return nil, err
	}
	i.transition(runID, StatePlaced, "path", dest)

	return &InstallResult{
		Path:         dest,
		URL:          opts.URL,
		Bytes:        digest.BytesRead(),
		Verification: *verification,
		Duration:     i.clock.Now().Sub(startTime),
	}, nil
}

// Uninstall removes the installed binary. Only failing to locate the bin
// directory is an error; a failed delete is logged and ignored.
func (i *Installer) Uninstall(ctx context.Context, m *manifest.Manifest) error {
	runID := i.newRunID()
	i.transition(runID, StateConfigLoaded)

	if m == nil {
		return fmt.Errorf("manifest is required")
	}

	target, err := platform.Resolve(i.env.OS, i.env.Arch)
	if err != nil {
		return err
	}
	binName := BinaryFileName(m.BinaryName, target)

	binDir, err := i.paths.BinDir(ctx)
	if err != nil {
		return err
	}
	i.transition(runID, StatePathResolved, "dir", binDir)

	if _, err := os.Stat(binDir); os.IsNotExist(err) {
		i.transition(runID, StateRemoved, "binary", binName)
		return nil
	}

	lock, err := AcquireLock(ctx, binDir, binName, i.clock)
	if err != nil {
		i.logger.Warn("failed to acquire install lock", "error", err)
	} else {
		defer i.release(lock)
	}

	if err := i.placer.Remove(binDir, binName); err != nil {
		i.logger.Warn("failed to remove binary", "error", err)
	}
	i.transition(runID, StateRemoved, "binary", binName)

	return nil
}

func (i *Installer) release(lock *Lock) {
	if err := lock.Release(); err != nil {
		i.logger.Debug("failed to release install lock", "error", err)
	}
}

func (i *Installer) transition(runID string, state State, keysAndValues ...interface{}) {
	kv := append([]interface{}{"run", runID, "state", state}, keysAndValues...)
	i.logger.Debug("pipeline state", kv...)
}
