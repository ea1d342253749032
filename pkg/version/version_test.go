package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		readBuildInfo = orig
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version, GitCommit, BuildDate = "", "", ""
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		bi      *debug.BuildInfo
		stamp   func()
		want    string
		wantDev bool
	}{
		{
			name: "no build info",
			want: "dev",
		},
		{
			name: "go install",
			bi: &debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
				},
			},
			want: "v0.3.0 (0123456)",
		},
		{
			name: "local checkout",
			bi: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "fedcba9876543210"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: "dev (fedcba9-dirty)",
		},
		{
			name:  "ldflags win",
			bi:    &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}},
			stamp: func() { Version, GitCommit = "v1.0.0", "aaaaaaabbbbbbb" },
			want:  "v1.0.0 (aaaaaaa)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.bi)
			if tt.stamp != nil {
				tt.stamp()
			}
			assert.Equal(t, tt.want, Get().Short())
		})
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "0123456789",
		BuildDate: "2026-10-01T10:00:00Z",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
	}

	out := info.String()
	assert.True(t, strings.HasPrefix(out, "makelab version v1.0.0 (0123456)\n"))
	assert.Contains(t, out, "Built: 2026-10-01T10:00:00Z\n")
	assert.Contains(t, out, "Platform: linux/amd64\n")

	info.BuildDate = ""
	assert.NotContains(t, info.String(), "Built:")
}
