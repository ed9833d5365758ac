// Package npm locates the directories npm uses for package executables.
package npm

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Resolver derives the bin directory from `npm root`.
//
// For a local install npm links executables from <root>/../bin, so the
// binary goes there. For a global install the package's own bin directory
// under the global root is used.
type Resolver struct {
	run         Runner
	global      bool
	packageName string
}

// NewResolver creates a resolver that shells out to npm.
func NewResolver(global bool, packageName string) *Resolver {
	return NewResolverWithRunner(ExecRunner, global, packageName)
}

// NewResolverWithRunner creates a resolver with a custom command runner.
func NewResolverWithRunner(run Runner, global bool, packageName string) *Resolver {
	return &Resolver{
		run:         run,
		global:      global,
		packageName: packageName,
	}
}

// Root returns the trimmed output of `npm root`.
func (r *Resolver) Root(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "npm", "root")
	if err != nil {
		return "", &PathResolutionError{Message: "run npm root", Cause: err}
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", &PathResolutionError{Message: "couldn't determine executable path: npm root printed nothing"}
	}
	return root, nil
}

// BinDir implements binary.PathResolver.
func (r *Resolver) BinDir(ctx context.Context) (string, error) {
	root, err := r.Root(ctx)
	if err != nil {
		return "", err
	}

	if !r.global {
		return filepath.Clean(filepath.Join(root, "..", "bin")), nil
	}

	if r.packageName == "" {
		return "", &PathResolutionError{Message: "global install requires the package name in package.json"}
	}
	return filepath.Join(root, filepath.FromSlash(r.packageName), "bin"), nil
}

// PathResolutionError is returned when the install directory cannot be
// determined.
type PathResolutionError struct {
	Message string
	Cause   error
}

func (e *PathResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resolve install directory: %s: %v", e.Message, e.Cause)
	}
	return "resolve install directory: " + e.Message
}

func (e *PathResolutionError) Unwrap() error {
	return e.Cause
}
