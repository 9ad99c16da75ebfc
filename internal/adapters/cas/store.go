// Package cas implements build info storage for staged native libraries.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore with one JSON file per architecture.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the build info for an architecture.
func (s *Store) Get(root string, arch domain.Architecture) (*domain.BuildInfo, error) {
	filename := s.getFilename(root, arch)
	//nolint:gosec // Path is constructed from the project root and a fixed architecture name
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "architecture", arch.String())
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "architecture", arch.String())
	}

	return &info, nil
}

// Put stores the build info.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.getFilename(root, info.Architecture)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp, filename); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// Delete removes the build info for an architecture.
func (s *Store) Delete(root string, arch domain.Architecture) error {
	if err := os.Remove(s.getFilename(root, arch)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreDeleteFailed.Error()), "architecture", arch.String())
	}
	return nil
}

func (s *Store) getFilename(root string, arch domain.Architecture) string {
	return filepath.Join(domain.DefaultStorePath(root), arch.String()+".json")
}
