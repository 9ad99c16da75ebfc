package variant

import "go.trai.ch/apkship/internal/core/domain"

// NewPackagingPolicy derives the packaging policy from the package settings.
//
// Native libraries are always stored uncompressed, page aligned and extracted at
// install time because the engine is started as a standalone executable. The size
// setting only reaches the other entries.
func NewPackagingPolicy(settings domain.PackageSettings) domain.PackagingPolicy {
	return domain.PackagingPolicy{
		LegacyNativePackaging: true,
		CompressResources:     settings.OptimizeSize,
		NativeAlignment:       domain.NativeAlignment,
	}
}
