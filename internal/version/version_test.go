package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.GitCommit)
	assert.Equal(t, BuildDate, info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.CUESDKVersion)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:       "v1.2.3",
		GitCommit:     "abc123",
		BuildDate:     "2026-01-01",
		GoVersion:     "go1.25.0",
		CUESDKVersion: "v0.15.4",
	}

	out := info.String()
	assert.True(t, strings.HasPrefix(out, "tblx-ui:"))
	assert.Contains(t, out, "Version:  v1.2.3")
	assert.Contains(t, out, "Build ID: 2026-01-01/abc123")
	assert.Contains(t, out, "Go:       go1.25.0")
	assert.Contains(t, out, "CUE SDK:  v0.15.4")
}

func TestDependencyVersion_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", dependencyVersion("example.invalid/not-a-dependency"))
}
