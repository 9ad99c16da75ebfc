package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apkship/internal/adapters/cas"
	"go.trai.ch/apkship/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	root := t.TempDir()
	store := cas.NewStore()

	info := domain.BuildInfo{
		Architecture: domain.ArchARM64,
		SourceDigest: "0011223344556677",
		Toolchain:    domain.DefaultNDKVersion,
		OutputHash:   "8899aabbccddeeff",
		StagedPath:   "/staging/arm64-v8a/libsyncthing.so",
		Timestamp:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Put(root, info))

	got, err := store.Get(root, domain.ArchARM64)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info, *got)

	assert.FileExists(t, filepath.Join(root, ".apkship", "store", "arm64.json"))
	assert.NoFileExists(t, filepath.Join(root, ".apkship", "store", "arm64.json.tmp"))
}

func TestStore_GetMissing(t *testing.T) {
	got, err := cas.NewStore().Get(t.TempDir(), domain.ArchX86)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_GetCorrupt(t *testing.T) {
	root := t.TempDir()
	dir := domain.DefaultStorePath(root)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x86.json"), []byte("{"), 0o600))

	_, err := cas.NewStore().Get(root, domain.ArchX86)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_Delete(t *testing.T) {
	root := t.TempDir()
	store := cas.NewStore()

	require.NoError(t, store.Put(root, domain.BuildInfo{Architecture: domain.ArchARMv7}))
	require.NoError(t, store.Delete(root, domain.ArchARMv7))
	require.NoError(t, store.Delete(root, domain.ArchARMv7))

	got, err := store.Get(root, domain.ArchARMv7)
	require.NoError(t, err)
	assert.Nil(t, got)
}
