package binary

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/gonpm/internal/manifest"
	"github.com/ZebulonRouseFrantzich/gonpm/internal/platform"
)

// URLVars holds the values substituted into a manifest URL template.
type URLVars struct {
	Arch     string
	Platform string
	Version  string
	BinName  string
	Ext      string
}

// ExpandURL replaces every {{arch}}, {{platform}}, {{version}},
// {{bin_name}} and {{ext}} placeholder in template. Unknown placeholders
// are left alone.
func ExpandURL(template string, vars URLVars) string {
	r := strings.NewReplacer(
		"{{arch}}", vars.Arch,
		"{{platform}}", vars.Platform,
		"{{version}}", vars.Version,
		"{{bin_name}}", vars.BinName,
		"{{ext}}", vars.Ext,
	)
	return r.Replace(template)
}

// BinaryFileName returns the executable file name for target.
// Windows executables carry an ".exe" suffix.
func BinaryFileName(name string, target platform.Target) string {
	if target.IsWindows() {
		return name + ".exe"
	}
	return name
}

// FormatFor returns the archive format published for target.
func FormatFor(target platform.Target) Format {
	if target.IsWindows() {
		return FormatZip
	}
	return FormatTarGz
}

// ResolveOptions derives the per-invocation install options.
// The {{bin_name}} placeholder receives the platform-suffixed name, so
// Windows URLs see "name.exe".
func ResolveOptions(m *manifest.Manifest, target platform.Target, stagingDir string) (*Options, error) {
	if m == nil {
		return nil, fmt.Errorf("manifest is required")
	}
	if stagingDir == "" {
		return nil, fmt.Errorf("staging directory is required")
	}

	binName := BinaryFileName(m.BinaryName, target)
	format := FormatFor(target)
	key := target.Key()

	opts := &Options{
		BinaryName: binName,
		StagingDir: stagingDir,
		URL: ExpandURL(m.URLTemplate, URLVars{
			Arch:     target.Arch,
			Platform: target.Platform,
			Version:  m.Version,
			BinName:  binName,
			Ext:      format.String(),
		}),
		Format:           format,
		ChecksumKey:      key,
		ExpectedChecksum: m.Checksums[key],
		Target:           target,
	}

	return opts, nil
}
