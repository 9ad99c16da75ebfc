// Package signing decides whether a package is signed and signs it.
package signing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// UnsignedSuffix marks the file name of a package that carries no signature.
const UnsignedSuffix = "-unsigned.apk"

// Debug identity defaults, matching the keystore the SDK tools create.
const (
	DebugKeystore      = ".android/debug.keystore"
	DebugStorePassword = "android"
	DebugKeyAlias      = "androiddebugkey"
	DebugKeyPassword   = "android"
)

// Resolver reads the signing identity from the environment and applies it.
type Resolver struct {
	env    ports.Environment
	signer ports.Signer
	logger ports.Logger
}

// New creates a new Resolver.
func New(env ports.Environment, signer ports.Signer, logger ports.Logger) *Resolver {
	return &Resolver{env: env, signer: signer, logger: logger}
}

// Resolve reads the four identity fields at call time. The decision is Signed only
// when every field is non-empty. A relative keystore path is resolved against the
// project root.
func (r *Resolver) Resolve(pipeline *domain.Pipeline) domain.SigningDecision {
	identity := domain.SigningIdentity{
		KeystorePath:  r.lookup(ports.EnvStoreFile),
		StorePassword: r.lookup(ports.EnvStorePassword),
		KeyAlias:      r.lookup(ports.EnvKeyAlias),
		KeyPassword:   r.lookup(ports.EnvKeyPassword),
	}
	identity.KeystorePath = inProject(pipeline, identity.KeystorePath)
	return domain.NewSigningDecision(identity)
}

// ResolveDebug returns the identity development packages are signed with. Every
// field can be overridden and defaults to the SDK debug keystore in the user's
// home. The package is left unsigned when that keystore does not exist.
func (r *Resolver) ResolveDebug(pipeline *domain.Pipeline) domain.SigningDecision {
	identity := domain.SigningIdentity{
		KeystorePath:  inProject(pipeline, r.lookup(ports.EnvDebugStoreFile)),
		StorePassword: r.lookupOr(ports.EnvDebugStorePassword, DebugStorePassword),
		KeyAlias:      r.lookupOr(ports.EnvDebugKeyAlias, DebugKeyAlias),
		KeyPassword:   r.lookupOr(ports.EnvDebugKeyPassword, DebugKeyPassword),
	}
	if identity.KeystorePath == "" {
		if home := r.lookup(ports.EnvHome); home != "" {
			identity.KeystorePath = filepath.Join(home, filepath.FromSlash(DebugKeystore))
		}
	}

	decision := domain.NewSigningDecision(identity)
	if decision.State != domain.SigningStateSigned {
		return decision
	}
	if _, err := os.Stat(identity.KeystorePath); err != nil {
		return domain.SigningDecision{
			State:  domain.SigningStateUnsigned,
			Reason: "debug keystore not found at " + identity.KeystorePath,
		}
	}
	return decision
}

func (r *Resolver) lookup(key string) string {
	v, _ := r.env.Lookup(key)
	return v
}

func (r *Resolver) lookupOr(key, fallback string) string {
	if v, ok := r.env.Lookup(key); ok {
		return v
	}
	return fallback
}

func inProject(pipeline *domain.Pipeline, path string) string {
	if path != "" && !filepath.IsAbs(path) {
		return filepath.Join(pipeline.Root, path)
	}
	return path
}

// Apply signs artifact when its decision is Signed. An Unsigned decision leaves the
// artifact untouched and is not an error, but removes a signed package left by an
// earlier build so only the unsigned one remains. A rejected identity fails with
// ErrSigning.
func (r *Resolver) Apply(ctx context.Context, pipeline *domain.Pipeline, artifact *domain.PackageArtifact) error {
	decision := artifact.Signing
	if decision.State != domain.SigningStateSigned || decision.Identity == nil {
		if stale := SignedPath(artifact.Path); stale != artifact.Path {
			if err := os.Remove(stale); err == nil {
				r.logger.Info(fmt.Sprintf("removed stale signed package %s", stale))
			} else if !os.IsNotExist(err) {
				return zerr.With(zerr.Wrap(err, "failed to remove stale signed package"), "path", stale)
			}
		}
		r.logger.Warn(fmt.Sprintf("leaving %s unsigned: %s", filepath.Base(artifact.Path), decision.Reason))
		return nil
	}

	out := SignedPath(artifact.Path)
	info, err := r.signer.Sign(ctx, domain.SignRequest{
		Input:             artifact.Path,
		Output:            out,
		Identity:          *decision.Identity,
		BuildToolsVersion: pipeline.Package.BuildToolsVersion,
	})
	if err != nil {
		failure := zerr.With(zerr.Wrap(domain.ErrSigning, string(artifact.Variant.Kind)), "keystore",
			decision.Identity.KeystorePath)
		return errors.Join(failure, err)
	}

	if out != artifact.Path {
		if err := os.Remove(artifact.Path); err != nil && !os.IsNotExist(err) {
			r.logger.Warn(fmt.Sprintf("failed to remove unsigned package %s: %v", artifact.Path, err))
		}
	}
	artifact.Path = out
	artifact.Signature = info
	return nil
}

// SignedPath returns the file name of the signed copy of path.
func SignedPath(path string) string {
	if strings.HasSuffix(path, UnsignedSuffix) {
		return strings.TrimSuffix(path, UnsignedSuffix) + ".apk"
	}
	return strings.TrimSuffix(path, ".apk") + "-signed.apk"
}
