// Package version carries build metadata set with -ldflags -X.
package version

import "fmt"

var (
	// Version is the release tag of the results pipeline.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String returns the version line printed by "nestdiag version".
func String() string {
	return fmt.Sprintf("nestdiag %s (%s, built %s)", Version, GitSHA, BuildTime)
}
