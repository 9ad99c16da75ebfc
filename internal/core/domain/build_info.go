package domain

import "time"

// BuildInfo is the cache record kept for the last staged library of an architecture.
type BuildInfo struct {
	Architecture Architecture `json:"architecture,omitzero"`
	SourceDigest string       `json:"source_digest,omitzero"`
	Toolchain    string       `json:"toolchain,omitzero"`
	OutputHash   string       `json:"output_hash,omitzero"`
	StagedPath   string       `json:"staged_path,omitzero"`
	Timestamp    time.Time    `json:"timestamp,omitzero"`
}

// Matches reports whether the record was produced from the same source digest and toolchain.
func (b *BuildInfo) Matches(digest string, toolchain ToolchainSpec) bool {
	return b != nil && b.SourceDigest == digest && b.Toolchain == toolchain.Version
}
