// Package version reports build metadata for the kpidash binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// Set with -ldflags "-X .../version.Version=..." at release time.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once           sync.Once
	readBuildInfo  = debug.ReadBuildInfo
	shortCommitLen = 12
)

// resolve fills the values ldflags left empty from the module build info
// embedded by the go command.
func resolve() {
	once.Do(func() {
		var settings map[string]string
		mainVersion := ""
		if info, ok := readBuildInfo(); ok {
			mainVersion = info.Main.Version
			settings = make(map[string]string, len(info.Settings))
			for _, s := range info.Settings {
				settings[s.Key] = s.Value
			}
		}

		if Version == "" {
			Version = strings.TrimPrefix(mainVersion, "v")
			if Version == "" || Version == "(devel)" {
				Version = "dev"
			}
		}
		if Commit == "" {
			Commit = settings["vcs.revision"]
			if len(Commit) > shortCommitLen {
				Commit = Commit[:shortCommitLen]
			}
			if Commit != "" && settings["vcs.modified"] == "true" {
				Commit += "-dirty"
			}
			if Commit == "" {
				Commit = "unknown"
			}
		}
		if Date == "" {
			Date = settings["vcs.time"]
			if len(Date) >= len("2006-01-02") {
				Date = Date[:len("2006-01-02")]
			}
			if Date == "" {
				Date = "unknown"
			}
		}
	})
}

// Reset forgets resolved values so they are computed again on next use.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// GetVersion returns the release version, or "dev".
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the short VCS revision, or "unknown".
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the commit date as YYYY-MM-DD, or "unknown".
func GetDate() string {
	resolve()
	return Date
}

// Info is the banner printed by kpidash -v.
func Info() string {
	resolve()
	return fmt.Sprintf("kpidash %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
