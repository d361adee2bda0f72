// Package version reports which mp2vue build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version, Commit and Date are set through -ldflags at release time.
//
//nolint:gochecknoglobals // Linker-set values.
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"    yaml:"version"    toml:"version"`
	Commit    string `json:"commit"     yaml:"commit"     toml:"commit"`
	Date      string `json:"date"       yaml:"date"       toml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version" toml:"go_version"`
}

// Get returns the build information, falling back to the module and VCS
// metadata embedded by the Go toolchain for untagged builds.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}

	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "<unknown>" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = setting.Value
			}
		}
	}

	return info
}

func (info Info) String() string {
	commit := info.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}

	return fmt.Sprintf("mp2vue %s (%s) %s", info.Version, commit, info.GoVersion)
}
