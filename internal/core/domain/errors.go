package domain

import "go.trai.ch/zerr"

var (
	// ErrBuildFailure is returned when the native compiler fails for a single architecture.
	ErrBuildFailure = zerr.New("native build failed for architecture")

	// ErrNativeBuildFailed is returned when at least one architecture failed to build.
	ErrNativeBuildFailed = zerr.New("native build failed")

	// ErrPrepareFailed is returned when a preparation command fails before any architecture is dispatched.
	ErrPrepareFailed = zerr.New("native build preparation failed")

	// ErrNoOutput is returned when the compiler exits successfully without producing a library.
	ErrNoOutput = zerr.New("compiler produced no output")

	// ErrMissingArchitecture is returned when a required architecture has no staged artifact.
	ErrMissingArchitecture = zerr.New("missing architecture")

	// ErrUnexpectedStagedFile is returned when an architecture directory holds more than the shared library.
	ErrUnexpectedStagedFile = zerr.New("unexpected file in staged layout")

	// ErrDuplicateArtifact is returned when a build report carries two successful artifacts for one architecture.
	ErrDuplicateArtifact = zerr.New("duplicate artifact for architecture")

	// ErrInvalidTransition is returned when an artifact status change violates its lifecycle.
	ErrInvalidTransition = zerr.New("invalid artifact status transition")

	// ErrToolchainUnavailable is returned when the NDK cannot be located.
	ErrToolchainUnavailable = zerr.New("native toolchain unavailable")

	// ErrUnsupportedHost is returned when no prebuilt toolchain exists for the host platform.
	ErrUnsupportedHost = zerr.New("unsupported host platform")

	// ErrSDKUnavailable is returned when a required Android SDK component is not installed.
	ErrSDKUnavailable = zerr.New("android sdk component unavailable")

	// ErrVariantBuild is returned when a package variant cannot be produced.
	ErrVariantBuild = zerr.New("variant build failed")

	// ErrUnknownVariant is returned when a variant name is neither development nor release.
	ErrUnknownVariant = zerr.New("unknown variant")

	// ErrSigning is returned when a complete signing identity is rejected.
	ErrSigning = zerr.New("signing failed")

	// ErrCredential is returned when the publisher credential is missing, unreadable, or invalid.
	ErrCredential = zerr.New("publisher credential error")

	// ErrTrack is returned when the requested release track is not recognized.
	ErrTrack = zerr.New("unrecognized release track")

	// ErrUpload is returned when the distribution platform rejects an upload or edit.
	ErrUpload = zerr.New("upload failed")

	// ErrRequestConsumed is returned when a publish request is used more than once.
	ErrRequestConsumed = zerr.New("publish request already consumed")

	// ErrPackageNotFound is returned when no package artifact exists to publish.
	ErrPackageNotFound = zerr.New("package artifact not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigInvalid is returned when the config file contains an invalid value.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrStoreDeleteFailed is returned when the build info cannot be removed.
	ErrStoreDeleteFailed = zerr.New("failed to delete build info")
)
