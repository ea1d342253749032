// Package version reports the makelab build. Release builds stamp the
// variables below with -ldflags; binaries built with "go install" fall back
// to the module and VCS information embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time, e.g.
//
//	-ldflags "-X github.com/ehsaniara/makelab/pkg/version.Version=v1.0.0"
var (
	Version   = ""
	GitCommit = ""
	BuildDate = ""
)

// Info is the resolved build description.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

// Get resolves the build description. Values stamped with -ldflags win over
// the embedded build information.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

// Short returns the version with an abbreviated commit, e.g. "v1.0.0 (0123456)".
func (i Info) Short() string {
	if len(i.GitCommit) < 7 {
		return i.Version
	}
	commit := i.GitCommit[:7]
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}

// String renders the multi-line output of "makelab version".
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "makelab version %s\n", i.Short())
	if i.BuildDate != "" {
		fmt.Fprintf(&b, "Built: %s\n", i.BuildDate)
	}
	fmt.Fprintf(&b, "Go: %s\n", i.GoVersion)
	fmt.Fprintf(&b, "Platform: %s\n", i.Platform)
	return b.String()
}
