// Package version provides build version information.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/asteroid-belt/semverql/internal/semver"
)

// These are set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Short returns just the version number.
func Short() string {
	return Version
}

// Parsed returns the build version as a semantic version, or nil if it is
// not one (e.g. "dev"). One leading 'v' is accepted.
func Parsed() *semver.Version {
	v, err := semver.Parse(strings.TrimPrefix(Version, "v"))
	if err != nil {
		return nil
	}
	return &v
}

// IsDevBuild reports whether the build carries no semantic version.
func IsDevBuild() bool {
	return Parsed() == nil
}

// IsPrerelease reports whether the build version has a pre-release part.
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.IsPrerelease()
}

// Channel names the kind of build: "development", "pre-release" or "release".
func Channel() string {
	switch {
	case IsDevBuild():
		return "development"
	case IsPrerelease():
		return "pre-release"
	}
	return "release"
}

// Full returns all version details.
func Full() string {
	return fmt.Sprintf("Version: %s\nChannel: %s\nCommit: %s\nBuild Date: %s\nGo Version: %s\nOS/Arch: %s/%s",
		Version,
		Channel(),
		Commit,
		BuildDate,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}
