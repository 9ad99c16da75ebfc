package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceDigester = (*Hasher)(nil)

// Hasher computes xxhash digests of files and directory trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// HashFile returns the hex encoded xxhash of a file's content.
func (h *Hasher) HashFile(path string) (string, error) {
	sum, err := h.computeFileHash(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

// DigestTree hashes the relative path and content of every file below root.
// The digest is independent of where root lives on disk.
func (h *Hasher) DigestTree(root string, ignores []string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat source tree"), "path", root)
	}
	if !info.IsDir() {
		return "", zerr.With(zerr.New("source tree is not a directory"), "path", root)
	}

	hasher := xxhash.New()
	files := 0
	for path, err := range h.walker.WalkFiles(root, ignores) {
		if err != nil {
			return "", err
		}
		if err := h.hashFile(root, path, hasher); err != nil {
			return "", err
		}
		files++
	}
	_ = binary.Write(hasher, binary.LittleEndian, uint64(files))

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashFile(root, path string, mainHasher io.Writer) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
	}
	_, _ = mainHasher.Write([]byte(filepath.ToSlash(rel)))
	_, _ = mainHasher.Write([]byte{0})

	sum, err := h.computeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

func (h *Hasher) computeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
