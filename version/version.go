package version

// Set at build time via -ldflags "-X repo-grab/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
