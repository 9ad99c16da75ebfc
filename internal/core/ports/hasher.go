package ports

// SourceDigester computes content digests used as cache keys.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type SourceDigester interface {
	// DigestTree hashes every file below root, skipping names matching ignores.
	DigestTree(root string, ignores []string) (string, error)
	// HashFile hashes the content of a single file.
	HashFile(path string) (string, error)
}
