package version

import "fmt"

// overridden at build time via ldflags
//
//nolint:gochecknoglobals // by design
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	FullVersion = fmt.Sprintf("%s (%s) built %s", Version, Commit, Date)
)
