// Package version reports the build version of the ogy binary.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Set with -ldflags "-X github.com/utkarsh5026/ogy/internal/version.Version=..."
	Version = "dev"
	Commit  = "unknown"
)

// Get returns the version, preferring the linker-set value over build info.
func Get() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "development"
}

// GetCommit returns the VCS revision the binary was built from.
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

// Full returns the version with a short commit hash when one is known.
func Full() string {
	v, commit := Get(), GetCommit()
	if len(commit) > 7 {
		return fmt.Sprintf("%s (%s)", v, commit[:7])
	}
	return v
}
