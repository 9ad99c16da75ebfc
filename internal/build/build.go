// Package build holds build-time information.
package build

// Set by linker flags at release time.
var (
	// Version is the apkship release.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
