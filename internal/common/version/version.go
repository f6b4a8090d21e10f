package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped at release time via -ldflags. A plain `go build` keeps the
// defaults, so Info falls back to module build info for the commit.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Info renders the multi-line report behind the version command.
func Info() string {
	commit := Commit
	if commit == "unknown" {
		if rev := vcsRevision(); rev != "" {
			commit = rev
		}
	}
	return fmt.Sprintf("feedstocks version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		Version, commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
