// Package toolchain locates the pinned native compiler toolchain.
package toolchain

import (
	"os"
	"path/filepath"
	"runtime"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// hostTags maps GOOS to the NDK prebuilt directory. Only 64-bit Intel hosts are published.
var hostTags = map[string]string{
	"linux":   "linux-x86_64",
	"darwin":  "darwin-x86_64",
	"windows": "windows-x86_64",
}

// Resolver locates the NDK for the pinned toolchain version.
type Resolver struct {
	env    ports.Environment
	goos   string
	exists func(string) bool
}

// NewResolver creates a Resolver for the running host.
func NewResolver(env ports.Environment) *Resolver {
	return &Resolver{
		env:  env,
		goos: runtime.GOOS,
		exists: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && info.IsDir()
		},
	}
}

// Resolve pins the toolchain of the pipeline and locates it.
// ANDROID_NDK_HOME takes precedence; otherwise the NDK is expected under
// $ANDROID_HOME/ndk/<version>.
func (r *Resolver) Resolve(pipeline *domain.Pipeline) (domain.Toolchain, error) {
	spec := pipeline.Toolchain
	if spec.Version == "" {
		spec.Version = domain.DefaultNDKVersion
	}

	hostTag, ok := hostTags[r.goos]
	if !ok {
		return domain.Toolchain{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedHost, r.goos), "goos", r.goos)
	}

	ndkHome, err := r.locate(spec)
	if err != nil {
		return domain.Toolchain{}, err
	}

	return domain.Toolchain{
		Spec:    spec,
		NDKHome: ndkHome,
		HostTag: hostTag,
	}, nil
}

func (r *Resolver) locate(spec domain.ToolchainSpec) (string, error) {
	if home, ok := r.env.Lookup(ports.EnvNDKHome); ok {
		if !r.exists(home) {
			return "", zerr.With(zerr.Wrap(domain.ErrToolchainUnavailable, "ANDROID_NDK_HOME does not exist"),
				"path", home)
		}
		return filepath.Clean(home), nil
	}

	sdk, ok := r.env.Lookup(ports.EnvAndroidHome)
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrToolchainUnavailable, "set ANDROID_NDK_HOME or ANDROID_HOME"),
			"ndk_version", spec.Version)
	}

	home := filepath.Join(sdk, "ndk", spec.Version)
	if !r.exists(home) {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrToolchainUnavailable, "NDK version not installed"),
			"path", home), "ndk_version", spec.Version)
	}
	return home, nil
}
