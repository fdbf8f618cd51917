// Package version reports which build of skillmatrix is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/example/skillmatrix/internal/version.Commit=..."
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// String renders the version line shown by --version.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		c, b := fromBuildInfo()
		if commit == "" {
			commit = c
		}
		if built == "" {
			built = b
		}
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("skillmatrix %s (commit: %s, built: %s)", Version, orUnknown(commit), orUnknown(built))
}

func fromBuildInfo() (commit, built string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			built = s.Value
		}
	}
	return commit, built
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
