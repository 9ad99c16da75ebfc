package ports

import (
	"context"

	"go.trai.ch/apkship/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=distribution.go -destination=mocks/mock_distribution.go -package=mocks

// DistributionClientFactory opens an authenticated session with the distribution platform.
type DistributionClientFactory interface {
	New(ctx context.Context, credential domain.ServiceAccountCredential) (DistributionClient, error)
}

// DistributionClient uploads a package through a transactional edit.
// Nothing becomes visible on the platform until Commit succeeds.
type DistributionClient interface {
	OpenEdit(ctx context.Context, packageName string) (string, error)
	UploadPackage(ctx context.Context, packageName, editID, path string) (int64, error)
	UpdateListing(ctx context.Context, packageName, editID string, listing domain.LocaleListing) error
	AssignTrack(ctx context.Context, packageName, editID, track string, versionCode int64) error
	Commit(ctx context.Context, packageName, editID string) error
	Abort(ctx context.Context, packageName, editID string) error
}
