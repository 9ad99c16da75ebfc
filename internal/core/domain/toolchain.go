package domain

import "path/filepath"

// DefaultNDKVersion is the NDK release every architecture is compiled with unless configured otherwise.
const DefaultNDKVersion = "25.2.9519653"

// ToolchainSpec pins the native compiler toolchain for a run.
type ToolchainSpec struct {
	Version string
}

// Toolchain is a located ToolchainSpec. It is resolved once per run and shared read-only by
// every architecture build.
type Toolchain struct {
	Spec    ToolchainSpec
	NDKHome string
	// HostTag is the prebuilt directory name for the host platform, e.g. linux-x86_64.
	HostTag string
}

// CompilerFor returns the absolute path to the clang driver for target.
func (t Toolchain) CompilerFor(target Target, minSDK int) string {
	return filepath.Join(t.NDKHome, "toolchains", "llvm", "prebuilt", t.HostTag, "bin", target.CompilerName(minSDK))
}
