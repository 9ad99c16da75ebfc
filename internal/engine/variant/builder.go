// Package variant assembles the development and release flavors of the package.
package variant

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// LayoutSource returns the staged native layout of a pipeline.
type LayoutSource interface {
	Layout(pipeline *domain.Pipeline) (*domain.StagedLayout, error)
}

// SigningResolver decides on and applies the signing identity of a package.
type SigningResolver interface {
	Resolve(pipeline *domain.Pipeline) domain.SigningDecision
	ResolveDebug(pipeline *domain.Pipeline) domain.SigningDecision
	Apply(ctx context.Context, pipeline *domain.Pipeline, artifact *domain.PackageArtifact) error
}

// Builder produces package variants from the staged layout.
type Builder struct {
	layouts  LayoutSource
	packager ports.Packager
	signing  SigningResolver
	logger   ports.Logger
}

// New creates a new Builder.
func New(layouts LayoutSource, packager ports.Packager, signing SigningResolver, logger ports.Logger) *Builder {
	return &Builder{
		layouts:  layouts,
		packager: packager,
		signing:  signing,
		logger:   logger,
	}
}

// Build assembles the variant of the given kind. A variant is never produced from
// an incomplete layout. Release packages are signed when a complete identity is
// available and left unsigned otherwise. Development packages are signed with the
// debug identity.
func (b *Builder) Build(ctx context.Context, pipeline *domain.Pipeline, kind domain.VariantKind) (*domain.PackageArtifact, error) {
	if kind != domain.VariantDevelopment && kind != domain.VariantRelease {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownVariant, string(kind)), "variant", string(kind))
	}

	layout, err := b.layouts.Layout(pipeline)
	if err != nil {
		return nil, errors.Join(variantError(kind, "staged layout incomplete"), err)
	}

	variant := domain.NewBuildVariant(kind, pipeline.App)

	decision := b.signing.ResolveDebug(pipeline)
	if kind == domain.VariantRelease {
		decision = b.signing.Resolve(pipeline)
	}

	artifact, err := b.packager.Assemble(ctx, domain.PackageSpec{
		Variant:           variant,
		Layout:            layout,
		Policy:            NewPackagingPolicy(pipeline.Package),
		VersionName:       pipeline.App.VersionName,
		VersionCode:       pipeline.App.VersionCode,
		MinSDK:            pipeline.App.MinSDK,
		TargetSDK:         pipeline.App.TargetSDK,
		CompileSDK:        pipeline.Package.CompileSDK,
		BuildToolsVersion: pipeline.Package.BuildToolsVersion,
		ShellDir:          pipeline.App.ShellDir,
		OutputPath:        OutputPath(pipeline, kind, true),
	})
	if err != nil {
		return nil, errors.Join(variantError(kind, "package assembly failed"), err)
	}
	b.logger.Info(fmt.Sprintf("assembled %s package %s", kind, artifact.Path))

	artifact.Signing = decision
	if err := b.signing.Apply(ctx, pipeline, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func variantError(kind domain.VariantKind, msg string) error {
	return zerr.With(zerr.Wrap(domain.ErrVariantBuild, msg), "variant", string(kind))
}

// OutputPath returns output_dir/<variant>/<name>-<variant>[-unsigned].apk. Packages
// are assembled unsigned and get their final name when signed.
func OutputPath(pipeline *domain.Pipeline, kind domain.VariantKind, unsigned bool) string {
	name := pipeline.Package.Name + "-" + string(kind)
	if unsigned {
		name += "-unsigned"
	}
	return filepath.Join(pipeline.Package.OutputDir, string(kind), name+".apk")
}
