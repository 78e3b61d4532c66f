// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String is the --version banner.
func String() string {
	return fmt.Sprintf("versealign %s (commit %s, built %s)", Version, Commit, BuildDate)
}

// UserAgent identifies the binary to remote oracle endpoints.
func UserAgent() string {
	return "versealign/" + Version
}
