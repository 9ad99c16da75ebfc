package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory.
	StateDirName = ".apkship"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the pipeline configuration file.
	ConfigFileName = "apkship.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// LibraryPerm is the permission of staged shared libraries (rwxr-xr-x).
	LibraryPerm = 0o755

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStorePath returns the build info store directory below root.
func DefaultStorePath(root string) string {
	return filepath.Join(root, StateDirName, StoreDirName)
}
