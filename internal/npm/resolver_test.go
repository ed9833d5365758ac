package npm

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeRunner struct {
	out   string
	err   error
	calls [][]string
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return []byte(f.out), f.err
}

func TestResolverBinDir(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work", "pkg", "node_modules")

	tests := []struct {
		name        string
		out         string
		global      bool
		packageName string
		want        string
	}{
		{
			name: "local",
			out:  root + "\n",
			want: filepath.Join(string(filepath.Separator), "work", "pkg", "bin"),
		},
		{
			name:        "global",
			out:         root + "\n",
			global:      true,
			packageName: "tool-cli",
			want:        filepath.Join(root, "tool-cli", "bin"),
		},
		{
			name:        "global_scoped_package",
			out:         "  " + root + "  \r\n",
			global:      true,
			packageName: "@acme/tool",
			want:        filepath.Join(root, "@acme", "tool", "bin"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{out: tt.out}
			r := NewResolverWithRunner(runner.run, tt.global, tt.packageName)

			got, err := r.BinDir(context.Background())
			if err != nil {
				t.Fatalf("BinDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BinDir() = %q, want %q", got, tt.want)
			}

			wantCalls := [][]string{{"npm", "root"}}
			if !reflect.DeepEqual(runner.calls, wantCalls) {
				t.Errorf("calls = %v, want %v", runner.calls, wantCalls)
			}
		})
	}
}

func TestResolverErrors(t *testing.T) {
	runErr := errors.New("exec: \"npm\": executable file not found in $PATH")

	tests := []struct {
		name        string
		runner      *fakeRunner
		global      bool
		packageName string
		wantCause   error
	}{
		{
			name:      "npm_fails",
			runner:    &fakeRunner{err: runErr},
			wantCause: runErr,
		},
		{
			name:   "empty_output",
			runner: &fakeRunner{out: "  \n"},
		},
		{
			name:   "global_without_package_name",
			runner: &fakeRunner{out: "/usr/lib/node_modules\n"},
			global: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolverWithRunner(tt.runner.run, tt.global, tt.packageName)

			_, err := r.BinDir(context.Background())

			var pathErr *PathResolutionError
			if !errors.As(err, &pathErr) {
				t.Fatalf("expected *PathResolutionError, got %v", err)
			}
			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("error %v does not wrap %v", err, tt.wantCause)
			}
		})
	}
}

func TestResolverRoot(t *testing.T) {
	runner := &fakeRunner{out: "/usr/lib/node_modules\n"}
	r := NewResolverWithRunner(runner.run, false, "")

	root, err := r.Root(context.Background())
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if root != "/usr/lib/node_modules" {
		t.Errorf("Root() = %q", root)
	}
}

func TestPathResolutionErrorMessage(t *testing.T) {
	err := &PathResolutionError{Message: "run npm root", Cause: errors.New("boom")}
	if got := err.Error(); got != "resolve install directory: run npm root: boom" {
		t.Errorf("Error() = %q", got)
	}

	err = &PathResolutionError{Message: "empty"}
	if got := err.Error(); got != "resolve install directory: empty" {
		t.Errorf("Error() = %q", got)
	}
}
