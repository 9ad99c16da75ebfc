package ports

import "go.trai.ch/apkship/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build information.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for an architecture of the project at root.
	// Returns nil, nil if not found.
	Get(root string, arch domain.Architecture) (*domain.BuildInfo, error)

	// Put stores the build info.
	Put(root string, info domain.BuildInfo) error

	// Delete removes the build info for an architecture. Missing entries are ignored.
	Delete(root string, arch domain.Architecture) error
}
