package version

// Version is overridden at build time via
// -ldflags "-X heavybuilder/internal/version.Version=..."
var Version = "dev"
