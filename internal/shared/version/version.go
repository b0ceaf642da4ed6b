package version

// Version is overridden at build time with -ldflags "-X layercheck/internal/shared/version.Version=...".
var Version = "dev"
