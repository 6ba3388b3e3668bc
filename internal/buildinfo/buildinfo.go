package buildinfo

import "fmt"

// Set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("codoc %s (commit=%s, date=%s)", Version, Commit, Date)
}
