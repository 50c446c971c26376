// Package cmd carries the build identity stamped into release binaries.
package cmd

import "fmt"

// Stamped at release time via -ldflags. An unstamped build reports "dev".
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the full build identity, one field per line.
func String() string {
	return fmt.Sprintf("applescan version %s\n  commit: %s\n  built:  %s\n",
		Version, Commit, Date)
}
