package version

import "fmt"

// Set at build time with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

// String returns the human-readable version string.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
