package toolchain

import "go.trai.ch/apkship/internal/core/ports"

// NewResolverFor creates a Resolver for an arbitrary host with a stubbed directory check.
func NewResolverFor(env ports.Environment, goos string, exists func(string) bool) *Resolver {
	return &Resolver{env: env, goos: goos, exists: exists}
}
