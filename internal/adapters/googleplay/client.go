// Package googleplay implements the distribution client with the Android Publisher API.
package googleplay

import (
	"context"
	"net/http"
	"os"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// packageContentType is the media type of uploaded packages.
const packageContentType = "application/vnd.android.package-archive"

// releaseStatus rolls the release out to everyone on the track.
const releaseStatus = "completed"

// Factory implements ports.DistributionClientFactory.
type Factory struct {
	endpoint   string
	httpClient *http.Client
}

var _ ports.DistributionClientFactory = (*Factory)(nil)

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) FactoryOption {
	return func(f *Factory) { f.endpoint = endpoint }
}

// WithHTTPClient uses client as-is instead of authenticating with the credential.
func WithHTTPClient(client *http.Client) FactoryOption {
	return func(f *Factory) { f.httpClient = client }
}

// NewFactory creates a new Factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New opens an API session authenticated with the service account credential.
func (f *Factory) New(ctx context.Context, credential domain.ServiceAccountCredential) (ports.DistributionClient, error) {
	var opts []option.ClientOption
	if f.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(f.httpClient))
	} else {
		opts = append(opts,
			option.WithCredentialsJSON(credential.JSON),
			option.WithScopes(androidpublisher.AndroidpublisherScope),
		)
	}
	if f.endpoint != "" {
		opts = append(opts, option.WithEndpoint(f.endpoint))
	}

	svc, err := androidpublisher.NewService(ctx, opts...)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create publisher session"), "client_email", credential.ClientEmail)
	}
	return &Client{edits: svc.Edits}, nil
}

// Client implements ports.DistributionClient.
type Client struct {
	edits *androidpublisher.EditsService
}

var _ ports.DistributionClient = (*Client)(nil)

// OpenEdit starts a new edit transaction.
func (c *Client) OpenEdit(ctx context.Context, packageName string) (string, error) {
	edit, err := c.edits.Insert(packageName, &androidpublisher.AppEdit{}).Context(ctx).Do()
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open edit"), "package", packageName)
	}
	return edit.Id, nil
}

// UploadPackage uploads the package at path into the edit and returns its version code.
func (c *Client) UploadPackage(ctx context.Context, packageName, editID, path string) (int64, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the assembled package
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open package"), "path", path)
	}
	defer func() { _ = f.Close() }()

	apk, err := c.edits.Apks.Upload(packageName, editID).
		Media(f, googleapi.ContentType(packageContentType)).
		Context(ctx).
		Do()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to upload package"), "path", path)
	}
	return apk.VersionCode, nil
}

// UpdateListing replaces the store listing of one locale.
func (c *Client) UpdateListing(ctx context.Context, packageName, editID string, listing domain.LocaleListing) error {
	_, err := c.edits.Listings.Update(packageName, editID, listing.Code, &androidpublisher.Listing{
		Language:         listing.Code,
		Title:            listing.Title,
		ShortDescription: listing.ShortDescription,
		FullDescription:  listing.FullDescription,
	}).Context(ctx).Do()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to update listing"), "locale", listing.Code)
	}
	return nil
}

// AssignTrack releases versionCode on track.
func (c *Client) AssignTrack(ctx context.Context, packageName, editID, track string, versionCode int64) error {
	_, err := c.edits.Tracks.Update(packageName, editID, track, &androidpublisher.Track{
		Track: track,
		Releases: []*androidpublisher.TrackRelease{{
			VersionCodes: []int64{versionCode},
			Status:       releaseStatus,
		}},
	}).Context(ctx).Do()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to assign track"), "track", track)
	}
	return nil
}

// Commit publishes every change made in the edit.
func (c *Client) Commit(ctx context.Context, packageName, editID string) error {
	if _, err := c.edits.Commit(packageName, editID).Context(ctx).Do(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to commit edit"), "edit", editID)
	}
	return nil
}

// Abort discards the edit.
func (c *Client) Abort(ctx context.Context, packageName, editID string) error {
	if err := c.edits.Delete(packageName, editID).Context(ctx).Do(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to delete edit"), "edit", editID)
	}
	return nil
}
