package ports

import (
	"context"

	"go.trai.ch/apkship/internal/core/domain"
)

// Packager assembles an installable package from a staged layout.
//
//go:generate go run go.uber.org/mock/mockgen -source=packager.go -destination=mocks/mock_packager.go -package=mocks
type Packager interface {
	Assemble(ctx context.Context, spec domain.PackageSpec) (*domain.PackageArtifact, error)
}
