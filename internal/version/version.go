// Package version exposes the build version injected at link time.
package version

// version is set via -ldflags at build time.
var version = "v0.0.0"

// Value returns the build version string.
func Value() string {
	return version
}
