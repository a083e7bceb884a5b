package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Set at build time with -ldflags "-X github.com/kbukum/shellkit/version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty,omitempty"`
}

var (
	buildInfoOnce sync.Once
	buildInfo     *debug.BuildInfo
)

func readBuildInfo() *debug.BuildInfo {
	buildInfoOnce.Do(func() {
		if bi, ok := debug.ReadBuildInfo(); ok {
			buildInfo = bi
		}
	})
	return buildInfo
}

// Get returns the version information, filling gaps in the -ldflags values
// from the VCS stamp the Go toolchain embeds.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	bi := readBuildInfo()
	if bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns "version[-commit][-dirty]".
func (i Info) Short() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// String returns the short version followed by build details.
func (i Info) String() string {
	if i.BuildTime == "" {
		return fmt.Sprintf("%s (%s)", i.Short(), i.GoVersion)
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Short(), i.GoVersion, i.BuildTime)
}
