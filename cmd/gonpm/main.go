package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/gonpm/internal/binary"
	"github.com/ZebulonRouseFrantzich/gonpm/internal/logging"
	"github.com/ZebulonRouseFrantzich/gonpm/internal/manifest"
	"github.com/ZebulonRouseFrantzich/gonpm/internal/npm"
	"github.com/ZebulonRouseFrantzich/gonpm/internal/platform"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1-alpha"

const (
	actionInstall   = "install"
	actionUninstall = "uninstall"
)

const invalidCommandMsg = "Invalid command to gonpm. `install` and `uninstall` are the only supported commands"

// deps are the process-level collaborators, swapped out in tests.
type deps struct {
	sys      binary.System
	detector platform.Detector
	fetcher  binary.Fetcher
	npmRun   npm.Runner
}

func defaultDeps() deps {
	return deps{
		sys:      binary.RealSystem{},
		detector: platform.NewDetector(),
		fetcher:  binary.NewHTTPFetcher(),
		npmRun:   npm.ExecRunner,
	}
}

// rootOptions holds command-line flags
type rootOptions struct {
	dir     string
	verbose bool
}

// usageError is returned for an unknown positional argument.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, defaultDeps()))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, d deps) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}

	cmd := newRootCmd(d)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var uErr *usageError
	if errors.As(err, &uErr) {
		_, _ = fmt.Fprintln(stderr, uErr.msg)
		_, _ = fmt.Fprint(stderr, cmd.UsageString())
		return 1
	}

	printError(stderr, err)
	return 1
}

func newRootCmd(d deps) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gonpm [install|uninstall]",
		Short: "Install or remove a prebuilt Go binary from an npm lifecycle script",
		Long: `gonpm reads the goBinary block of package.json, downloads the release
archive for this platform, verifies its SHA-256 checksum and places the
binary where npm looks for package executables.

Set GONPM_SKIP_VERIFY (or TIGRIS_SKIP_VERIFY) to skip checksum enforcement.`,
		Args:          validateAction,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			action := actionInstall
			if len(args) == 1 {
				action = args[0]
			}
			return runAction(cmd.Context(), action, opts, d, cmd.ErrOrStderr())
		},
	}

	bindFlags(cmd.Flags(), opts)
	return cmd
}

func bindFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.StringVar(&opts.dir, "dir", "", "directory containing package.json (default: current directory)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
}

// validateAction accepts no argument or exactly one of install/uninstall.
func validateAction(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) > 1 {
		return &usageError{msg: invalidCommandMsg}
	}
	switch args[0] {
	case actionInstall, actionUninstall:
		return nil
	default:
		return &usageError{msg: invalidCommandMsg}
	}
}

// runAction builds the environment once and dispatches to the installer.
func runAction(ctx context.Context, action string, opts *rootOptions, d deps, stderr io.Writer) error {
	logger := logging.New(stderr, opts.verbose)

	info, err := d.detector.Detect(ctx)
	if err != nil {
		return err
	}
	if distro := info.GetDistro(); distro != nil {
		logger.Debug("detected distribution", "id", distro.ID, "family", distro.Family, "version", distro.Version)
	}

	env, err := binary.NewEnvironment(d.sys, info)
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	if opts.dir != "" {
		env.WorkDir = opts.dir
	}

	m, err := manifest.LoadFromDir(env.WorkDir)
	if err != nil {
		return err
	}

	installer, err := binary.NewInstaller(binary.Config{
		Env:     env,
		Fetcher: d.fetcher,
		Paths:   npm.NewResolverWithRunner(d.npmRun, env.Global, m.PackageName),
		Logger:  logger.With("binary", m.BinaryName, "version", m.Version),
	})
	if err != nil {
		return err
	}

	switch action {
	case actionUninstall:
		return installer.Uninstall(ctx, m)
	default:
		result, err := installer.Install(ctx, m)
		if err != nil {
			return err
		}
		logger.Debug("install complete",
			"path", result.Path,
			"bytes", result.Bytes,
			"duration", result.Duration)
		return nil
	}
}

// printError writes err to w, in red when w is a terminal.
func printError(w io.Writer, err error) {
	prefix := "Error:"
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		c := color.New(color.FgRed, color.Bold)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	_, _ = fmt.Fprintf(w, "%s %v\n", prefix, err)
}
