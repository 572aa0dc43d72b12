package version

// Version is the current release, overridable at build time via
// -ldflags "-X .../internal/version.Version=..."
var Version = "0.3.0"
