package version

// Version is the build identity reported by /version. Overridden at link
// time via -ldflags "-X github.com/careloop/mcp-gateway/pkg/version.Version=...".
var Version = "dev"
