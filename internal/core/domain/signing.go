package domain

import "strings"

// Names of the signing identity fields, used in diagnostics.
const (
	FieldKeystorePath  = "keystore_path"
	FieldStorePassword = "store_password"
	FieldKeyAlias      = "key_alias"
	FieldKeyPassword   = "key_password"
)

// SigningIdentity is the secret material needed to sign a release package.
// It lives only for the duration of one release build and is never persisted.
type SigningIdentity struct {
	KeystorePath  string
	StorePassword string
	KeyAlias      string
	KeyPassword   string
}

// MissingFields returns the names of the empty fields.
func (s SigningIdentity) MissingFields() []string {
	var missing []string
	if s.KeystorePath == "" {
		missing = append(missing, FieldKeystorePath)
	}
	if s.StorePassword == "" {
		missing = append(missing, FieldStorePassword)
	}
	if s.KeyAlias == "" {
		missing = append(missing, FieldKeyAlias)
	}
	if s.KeyPassword == "" {
		missing = append(missing, FieldKeyPassword)
	}
	return missing
}

// Complete reports whether all four fields are present.
func (s SigningIdentity) Complete() bool {
	return len(s.MissingFields()) == 0
}

// String redacts the passwords.
func (s SigningIdentity) String() string {
	return "keystore=" + s.KeystorePath + " alias=" + s.KeyAlias + " passwords=<redacted>"
}

// SigningState is either unsigned or signed.
type SigningState string

const (
	// SigningStateUnsigned means the package is left unsigned.
	SigningStateUnsigned SigningState = "unsigned"
	// SigningStateSigned means a complete identity was supplied.
	SigningStateSigned SigningState = "signed"
)

// SigningDecision is the outcome of resolving the signing identity for a release build.
type SigningDecision struct {
	State    SigningState
	Identity *SigningIdentity
	Missing  []string
	Reason   string
}

// NewSigningDecision chooses the signing state for the identity.
func NewSigningDecision(identity SigningIdentity) SigningDecision {
	missing := identity.MissingFields()
	if len(missing) > 0 {
		return SigningDecision{
			State:   SigningStateUnsigned,
			Missing: missing,
			Reason:  "signing identity incomplete, missing " + strings.Join(missing, ", "),
		}
	}
	return SigningDecision{
		State:    SigningStateSigned,
		Identity: &identity,
		Reason:   "signing identity complete",
	}
}

// SignatureInfo describes the certificate a package was signed with.
type SignatureInfo struct {
	// CertificateSHA1 is the base64 encoded SHA-1 digest of the signing certificate.
	CertificateSHA1 string
	Channel         string
}

// ReleaseChannels maps known signing certificate digests to the channel they are distributed through.
func ReleaseChannels() map[string]string {
	return map[string]string{
		"2ScaPj41giu4vFh+Y7Q0GJTqwbA=": "GitHub",
		"nyupq9aU0x6yK8RHaPra5GbTqQY=": "F-Droid",
		"dQAnHXvlh80yJgrQUCo6LAg4294=": "Google Play",
	}
}

// ChannelFor returns the release channel of a certificate digest, or "unknown".
func ChannelFor(certSHA1 string) string {
	if ch, ok := ReleaseChannels()[certSHA1]; ok {
		return ch
	}
	return "unknown"
}

// SignRequest asks for a signed copy of Input to be written to Output.
type SignRequest struct {
	Input    string
	Output   string
	Identity SigningIdentity
	// BuildToolsVersion selects the SDK build-tools release providing the signing tool.
	BuildToolsVersion string
}
