package domain

import "sync/atomic"

// DefaultTracks returns the release tracks recognized by the distribution platform.
func DefaultTracks() []string {
	return []string{"internal", "alpha", "beta", "production"}
}

// DefaultTrack is the track releases go to unless configured otherwise.
const DefaultTrack = "beta"

// ServiceAccountCredential authenticates the publisher against the distribution platform.
type ServiceAccountCredential struct {
	Path        string
	ClientEmail string
	ProjectID   string
	JSON        []byte
}

// PublishRequest describes one upload to the distribution platform.
// It is consumed exactly once.
type PublishRequest struct {
	PackagePath     string
	PackageName     string
	Track           string
	CredentialsPath string
	Listings        []LocaleListing
	DryRun          bool

	consumed atomic.Bool
}

// Consume marks the request as used. It fails on every call after the first.
func (r *PublishRequest) Consume() error {
	if !r.consumed.CompareAndSwap(false, true) {
		return ErrRequestConsumed
	}
	return nil
}

// PublishResult is the outcome of a committed upload.
type PublishResult struct {
	EditID      string
	VersionCode int64
	Track       string
	Listings    int
	DryRun      bool
}
