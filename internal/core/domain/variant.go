package domain

import "go.trai.ch/zerr"

// VariantKind selects between the development and release flavor of the package.
type VariantKind string

const (
	// VariantDevelopment is the debuggable, side-by-side installable flavor.
	VariantDevelopment VariantKind = "development"
	// VariantRelease is the distributable flavor.
	VariantRelease VariantKind = "release"
)

// DefaultDebugSuffix is appended to the application id of development builds.
const DefaultDebugSuffix = ".debug"

// ParseVariantKind converts a variant name into a VariantKind.
func ParseVariantKind(name string) (VariantKind, error) {
	switch VariantKind(name) {
	case VariantDevelopment, VariantRelease:
		return VariantKind(name), nil
	case "debug":
		return VariantDevelopment, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownVariant, name), "variant", name)
	}
}

// BuildVariant describes how one flavor of the package is assembled.
type BuildVariant struct {
	Kind          VariantKind
	ApplicationID string
	Debuggable    bool
	Minified      bool
}

// NewBuildVariant derives the variant from the application settings.
// Development builds get a distinct id so both flavors can be installed side by side.
// Neither flavor is minified.
func NewBuildVariant(kind VariantKind, app AppSettings) BuildVariant {
	v := BuildVariant{
		Kind:          kind,
		ApplicationID: app.ID,
	}
	if kind == VariantDevelopment {
		suffix := app.DebugSuffix
		if suffix == "" {
			suffix = DefaultDebugSuffix
		}
		v.ApplicationID = app.ID + suffix
		v.Debuggable = true
	}
	return v
}

// NativeAlignment is the page size stored native libraries are aligned to inside the package.
const NativeAlignment = 4096

// PackagingPolicy controls how entries are written into the package.
type PackagingPolicy struct {
	// LegacyNativePackaging stores native libraries uncompressed and has the installer
	// extract them to disk. The bundled engine must run as a standalone executable.
	LegacyNativePackaging bool
	// CompressResources applies to non-native entries only.
	CompressResources bool
	NativeAlignment   int
}

// PackageSpec is the input of the package assembler.
type PackageSpec struct {
	Variant     BuildVariant
	Layout      *StagedLayout
	Policy      PackagingPolicy
	VersionName string
	VersionCode int64
	MinSDK      int
	TargetSDK   int
	// CompileSDK is the platform API level the manifest is linked against.
	CompileSDK        int
	BuildToolsVersion string
	// ShellDir optionally holds the application payload. Its AndroidManifest.xml and
	// res/ tree are linked; every other file is copied into the package as-is.
	ShellDir   string
	OutputPath string
}

// PackageArtifact is an assembled package on disk.
type PackageArtifact struct {
	Variant   BuildVariant
	Path      string
	Policy    PackagingPolicy
	Signing   SigningDecision
	Signature *SignatureInfo
}

// Signed reports whether the artifact carries a signature.
func (p *PackageArtifact) Signed() bool {
	return p.Signing.State == SigningStateSigned && p.Signature != nil
}
