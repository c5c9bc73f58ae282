package version

import "fmt"

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/sqrtlabs/contentfeed/internal/version.Version=v1.0.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by `contentfeed --version`.
func String() string {
	return fmt.Sprintf("contentfeed %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
