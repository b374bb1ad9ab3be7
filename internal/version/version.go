// Package version provides the build version of the server.
package version

import "strings"

var (
	// Version is the current release of the server.
	Version = "0.7.0"
	// DevVersion is the version suffix used for development builds.
	DevVersion = "0.7.0-dev"
)

// GetCurrentVersion returns the semantic version for the given mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}

// GetMinorVersion returns the minor version string, e.g. "0.7" for "0.7.0".
func GetMinorVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 3 {
		return version
	}
	return strings.Join(parts[:2], ".")
}
