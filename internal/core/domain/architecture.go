package domain

import "fmt"

// Architecture identifies a device instruction set the package ships a native library for.
type Architecture string

const (
	// ArchARM64 is 64-bit ARM.
	ArchARM64 Architecture = "arm64"
	// ArchARMv7 is 32-bit ARM.
	ArchARMv7 Architecture = "armv7"
	// ArchX86 is 32-bit Intel.
	ArchX86 Architecture = "x86"
	// ArchX86_64 is 64-bit Intel.
	ArchX86_64 Architecture = "x86_64" //nolint:revive // matches the ABI name
)

// String returns the architecture name.
func (a Architecture) String() string {
	return string(a)
}

// Target describes how to compile and where to place the library for one architecture.
type Target struct {
	Arch Architecture
	// ABI is the directory name the package installer looks up at install time.
	ABI    string
	GoArch string
	GoARM  string
	// ClangTriple is the NDK clang driver prefix without the API level.
	ClangTriple string
	// MinAPI is the lowest API level the NDK supports for this architecture.
	MinAPI int
}

// CompilerName returns the clang driver name for the given minimum SDK level.
func (t Target) CompilerName(minSDK int) string {
	return fmt.Sprintf("%s%d-clang", t.ClangTriple, max(t.MinAPI, minSDK))
}

// DefaultTargets returns the fixed set of architectures every package must carry.
func DefaultTargets() []Target {
	return []Target{
		{
			Arch:        ArchARM64,
			ABI:         "arm64-v8a",
			GoArch:      "arm64",
			ClangTriple: "aarch64-linux-android",
			MinAPI:      21,
		},
		{
			Arch:        ArchARMv7,
			ABI:         "armeabi-v7a",
			GoArch:      "arm",
			GoARM:       "7",
			ClangTriple: "armv7a-linux-androideabi",
			MinAPI:      16,
		},
		{
			Arch:        ArchX86,
			ABI:         "x86",
			GoArch:      "386",
			ClangTriple: "i686-linux-android",
			MinAPI:      16,
		},
		{
			Arch:        ArchX86_64,
			ABI:         "x86_64",
			GoArch:      "amd64",
			ClangTriple: "x86_64-linux-android",
			MinAPI:      21,
		},
	}
}
