// Package version exposes build information for the /version endpoint and
// the startup log line.
package version

import (
	"runtime/debug"
	"strings"
)

// Set at build time via -ldflags, e.g.
// -X github.com/skillsenselab/identity-service/version.Version=v1.2.0
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the build information reported by the service.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information, falling back to the binary's embedded
// VCS metadata when ldflags were not set.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" && len(setting.Value) >= 7 {
					info.GitCommit = setting.Value[:7]
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = setting.Value
				}
			}
		}
	}

	return info
}

// Short returns a compact version string for logs.
func Short() string {
	info := Get()
	if info.GitCommit == "" {
		return info.Version
	}
	return strings.Join([]string{info.Version, info.GitCommit}, "-")
}
