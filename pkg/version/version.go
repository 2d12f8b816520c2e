package version

// Injected at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)
