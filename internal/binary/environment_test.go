package binary

import (
	"errors"
	"testing"

	"github.com/ZebulonRouseFrantzich/gonpm/internal/platform"
	"github.com/ZebulonRouseFrantzich/gonpm/internal/testutil"
)

func TestNewEnvironment(t *testing.T) {
	tests := []struct {
		name           string
		env            map[string]string
		wantSkipVerify bool
		wantGlobal     bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
		},
		{
			name:           "skip_verify_present_empty",
			env:            map[string]string{"GONPM_SKIP_VERIFY": ""},
			wantSkipVerify: true,
		},
		{
			name:           "skip_verify_value_ignored",
			env:            map[string]string{"GONPM_SKIP_VERIFY": "false"},
			wantSkipVerify: true,
		},
		{
			name:           "legacy_skip_verify",
			env:            map[string]string{"TIGRIS_SKIP_VERIFY": "1"},
			wantSkipVerify: true,
		},
		{
			name:       "global_true",
			env:        map[string]string{"npm_config_global": "true"},
			wantGlobal: true,
		},
		{
			name: "global_false",
			env:  map[string]string{"npm_config_global": "false"},
		},
		{
			name: "global_empty",
			env:  map[string]string{"npm_config_global": "  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := testutil.NewSystem(t)
			sys.Env = tt.env

			env, err := NewEnvironment(sys, &platform.Info{OS: "linux", Arch: "x64"})
			if err != nil {
				t.Fatalf("NewEnvironment() error = %v", err)
			}

			if env.WorkDir != sys.WorkDir {
				t.Errorf("WorkDir = %q, want %q", env.WorkDir, sys.WorkDir)
			}
			if env.TempDir != sys.Temp {
				t.Errorf("TempDir = %q, want %q", env.TempDir, sys.Temp)
			}
			if env.OS != "linux" || env.Arch != "x64" {
				t.Errorf("OS/Arch = %s/%s", env.OS, env.Arch)
			}
			if env.SkipVerify != tt.wantSkipVerify {
				t.Errorf("SkipVerify = %v, want %v", env.SkipVerify, tt.wantSkipVerify)
			}
			if env.Global != tt.wantGlobal {
				t.Errorf("Global = %v, want %v", env.Global, tt.wantGlobal)
			}
		})
	}
}

type failingSystem struct {
	*testutil.System
}

func (failingSystem) Getwd() (string, error) {
	return "", errors.New("getwd failed")
}

func TestNewEnvironmentGetwdError(t *testing.T) {
	sys := failingSystem{testutil.NewSystem(t)}

	if _, err := NewEnvironment(sys, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewEnvironmentNilInfo(t *testing.T) {
	env, err := NewEnvironment(testutil.NewSystem(t), nil)
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	if env.OS != "" || env.Arch != "" {
		t.Errorf("OS/Arch = %q/%q, want empty", env.OS, env.Arch)
	}
}
