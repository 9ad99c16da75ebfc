// Package publisher uploads packages to the distribution platform.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// serviceAccountType is the credential type the platform accepts for uploads.
const serviceAccountType = "service_account"

// Publisher runs one upload per request through a transactional edit.
type Publisher struct {
	tracks  []string
	factory ports.DistributionClientFactory
	logger  ports.Logger
}

// New creates a Publisher accepting the given tracks.
func New(tracks []string, factory ports.DistributionClientFactory, logger ports.Logger) *Publisher {
	return &Publisher{tracks: tracks, factory: factory, logger: logger}
}

// Publish validates req and uploads its package with the listings onto the track.
// Nothing is visible on the platform unless every step succeeds; on failure the
// edit is discarded and the platform error is returned unchanged in the chain.
func (p *Publisher) Publish(ctx context.Context, req *domain.PublishRequest) (*domain.PublishResult, error) {
	if err := req.Consume(); err != nil {
		return nil, err
	}

	if !slices.Contains(p.tracks, req.Track) {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrTrack, req.Track),
			"track", req.Track), "recognized", strings.Join(p.tracks, ", "))
	}

	credential, err := LoadCredential(req.CredentialsPath)
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(req.PackagePath); err != nil || info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, req.PackagePath), "path", req.PackagePath)
	}

	result := &domain.PublishResult{Track: req.Track, Listings: len(req.Listings), DryRun: req.DryRun}
	if req.DryRun {
		p.logger.Info(fmt.Sprintf("dry run: would publish %s to %s as %s", req.PackagePath, req.Track,
			credential.ClientEmail))
		return result, nil
	}

	client, err := p.factory.New(ctx, credential)
	if err != nil {
		return nil, errors.Join(
			zerr.With(zerr.Wrap(domain.ErrCredential, "session rejected"), "path", credential.Path), err)
	}

	editID, err := client.OpenEdit(ctx, req.PackageName)
	if err != nil {
		return nil, uploadError("open edit", err)
	}
	result.EditID = editID

	if err := p.fill(ctx, client, req, result); err != nil {
		if abortErr := client.Abort(context.WithoutCancel(ctx), req.PackageName, editID); abortErr != nil {
			p.logger.Warn(fmt.Sprintf("failed to discard edit %s: %v", editID, abortErr))
		}
		return nil, err
	}

	if err := client.Commit(ctx, req.PackageName, editID); err != nil {
		return nil, uploadError("commit", err)
	}

	p.logger.Info(fmt.Sprintf("published version %d to %s", result.VersionCode, req.Track))
	return result, nil
}

func (p *Publisher) fill(
	ctx context.Context,
	client ports.DistributionClient,
	req *domain.PublishRequest,
	result *domain.PublishResult,
) error {
	versionCode, err := client.UploadPackage(ctx, req.PackageName, result.EditID, req.PackagePath)
	if err != nil {
		return uploadError("upload package", err)
	}
	result.VersionCode = versionCode

	for _, listing := range req.Listings {
		if err := client.UpdateListing(ctx, req.PackageName, result.EditID, listing); err != nil {
			return errors.Join(zerr.With(stageError("update listing"), "locale", listing.Code), err)
		}
	}

	if err := client.AssignTrack(ctx, req.PackageName, result.EditID, req.Track, versionCode); err != nil {
		return uploadError("assign track", err)
	}
	return nil
}

func uploadError(stage string, err error) error {
	return errors.Join(stageError(stage), err)
}

func stageError(stage string) error {
	return zerr.With(zerr.Wrap(domain.ErrUpload, stage), "stage", stage)
}

// LoadCredential reads and validates a service account key file.
func LoadCredential(path string) (domain.ServiceAccountCredential, error) {
	if path == "" {
		return domain.ServiceAccountCredential{}, zerr.Wrap(domain.ErrCredential, "no credentials file configured")
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is the configured credentials file
	if err != nil {
		return domain.ServiceAccountCredential{}, errors.Join(
			zerr.With(zerr.Wrap(domain.ErrCredential, "credentials file unreadable"), "path", path), err)
	}

	var key struct {
		Type        string `json:"type"`
		ProjectID   string `json:"project_id"`
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return domain.ServiceAccountCredential{}, errors.Join(
			zerr.With(zerr.Wrap(domain.ErrCredential, "credentials file is not JSON"), "path", path), err)
	}

	for _, required := range []struct{ field, value string }{
		{"type", key.Type},
		{"client_email", key.ClientEmail},
		{"private_key", key.PrivateKey},
	} {
		if field := required.field; required.value == "" {
			return domain.ServiceAccountCredential{}, zerr.With(zerr.With(
				zerr.Wrap(domain.ErrCredential, "credentials file lacks "+field), "path", path), "field", field)
		}
	}
	if key.Type != serviceAccountType {
		return domain.ServiceAccountCredential{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrCredential, "credentials are not a service account key"), "path", path),
			"type", key.Type)
	}

	return domain.ServiceAccountCredential{
		Path:        path,
		ClientEmail: key.ClientEmail,
		ProjectID:   key.ProjectID,
		JSON:        data,
	}, nil
}
