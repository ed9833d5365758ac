package binary

import (
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/gonpm/internal/platform"
)

// GlobalInstallEnv is set to a non-empty value by npm when running
// lifecycle scripts for `npm install -g`.
const GlobalInstallEnv = "npm_config_global"

// SkipVerifyEnvs disable checksum enforcement when any of them is present.
// Only presence is checked; the value is ignored.
var SkipVerifyEnvs = []string{"GONPM_SKIP_VERIFY", "TIGRIS_SKIP_VERIFY"}

// System abstracts the process state read once at startup.
type System interface {
	Getwd() (string, error)
	LookupEnv(key string) (string, bool)
	TempDir() string
}

// RealSystem implements System using the os package.
type RealSystem struct{}

// Getwd returns the current working directory.
func (RealSystem) Getwd() (string, error) {
	return os.Getwd()
}

// LookupEnv retrieves the value of the environment variable named by key.
func (RealSystem) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// TempDir returns the default directory for temporary files.
func (RealSystem) TempDir() string {
	return os.TempDir()
}

// Environment is the process state the pipeline depends on, captured once
// at entry and passed down explicitly.
type Environment struct {
	// WorkDir is where the manifest is read from.
	WorkDir string
	// OS and Arch are the runtime identifiers handed to platform.Resolve.
	OS   string
	Arch string
	// TempDir is the parent of per-run staging directories.
	TempDir string
	// SkipVerify disables checksum enforcement.
	SkipVerify bool
	// Global selects the global npm bin layout.
	Global bool
}

// NewEnvironment captures sys and the detected platform.
func NewEnvironment(sys System, info *platform.Info) (Environment, error) {
	wd, err := sys.Getwd()
	if err != nil {
		return Environment{}, err
	}

	env := Environment{
		WorkDir: wd,
		TempDir: sys.TempDir(),
	}
	if info != nil {
		env.OS = info.OS
		env.Arch = info.Arch
	}

	for _, key := range SkipVerifyEnvs {
		if _, ok := sys.LookupEnv(key); ok {
			env.SkipVerify = true
			break
		}
	}

	if v, ok := sys.LookupEnv(GlobalInstallEnv); ok {
		v = strings.TrimSpace(v)
		env.Global = v != "" && v != "false"
	}

	return env, nil
}
