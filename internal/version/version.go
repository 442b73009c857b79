// Package version provides version information for the tblx-ui CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// cueModulePath is the module whose version is reported as the schema engine.
const cueModulePath = "cuelang.org/go"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// CUESDKVersion is the CUE SDK version used to validate manifests.
	CUESDKVersion string `json:"cueSDKVersion"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: dependencyVersion(cueModulePath),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("tblx-ui:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nManifest schema:\n  CUE SDK:  %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.CUESDKVersion)
}

// dependencyVersion reads a dependency's version from the embedded build
// info. Test binaries and builds without module info report "unknown".
func dependencyVersion(modulePath string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path != modulePath {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}
