package curation_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports/mocks"
	"go.trai.ch/apkship/internal/engine/curation"
	"go.uber.org/mock/gomock"
)

func newCurator(t *testing.T, excluded ...string) *curation.Curator {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	if excluded == nil {
		excluded = domain.DefaultExcludedLocales()
	}
	return curation.New(excluded, logger)
}

func listings(codes ...string) []domain.LocaleListing {
	out := make([]domain.LocaleListing, 0, len(codes))
	for _, c := range codes {
		out = append(out, domain.LocaleListing{Code: c, Title: "Syncthing " + c})
	}
	return out
}

func TestCurate_OneExcludedAmongFive(t *testing.T) {
	in := listings("fr-FR", "de-DE", "eo", "ja-JP", "pt-BR")
	got := newCurator(t).Curate(in)

	require.Len(t, got, 4)
	assert.Equal(t, []domain.LocaleListing{in[0], in[1], in[3], in[4]}, got)
	assert.Len(t, in, 5)
}

func TestCurate_Idempotent(t *testing.T) {
	c := newCurator(t, "eo", "ta")
	in := listings("eo", "fr-FR", "ta", "nl-NL", "eo")

	once := c.Curate(in)
	assert.Equal(t, once, c.Curate(once))
}

func TestCurate_OrderIndependent(t *testing.T) {
	c := newCurator(t, "eo", "nb")
	in := listings("nb", "fr-FR", "eo", "it-IT", "ko-KR")
	reversed := slices.Clone(in)
	slices.Reverse(reversed)

	codes := func(ls []domain.LocaleListing) []string {
		out := make([]string, 0, len(ls))
		for _, l := range ls {
			out = append(out, l.Code)
		}
		slices.Sort(out)
		return out
	}
	assert.Equal(t, codes(c.Curate(in)), codes(c.Curate(reversed)))
}

func TestCurate_SubstitutedExclusionSet(t *testing.T) {
	c := newCurator(t, "fr-FR")
	assert.Equal(t, listings("eo"), c.Curate(listings("fr-FR", "eo")))
}

func writeListing(t *testing.T, root, code string) {
	t.Helper()
	dir := filepath.Join(root, code)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, curation.TitleFile), []byte("Syncthing\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, curation.ShortDescriptionFile), []byte("Sync "+code), 0o600))
}

func TestPrune(t *testing.T) {
	root := t.TempDir()
	for _, code := range []string{"en-US", "eo", "nl_BE", "ta", "fr-FR"} {
		writeListing(t, root, code)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "eu"), []byte("a file, not a locale"), 0o600))

	c := newCurator(t)
	removed, err := c.Prune(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"eo", "nl_BE", "ta"}, removed)
	assert.DirExists(t, filepath.Join(root, "en-US"))
	assert.DirExists(t, filepath.Join(root, "fr-FR"))
	assert.FileExists(t, filepath.Join(root, "eu"))

	removed, err = c.Prune(root)
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = c.Prune(filepath.Join(root, "absent"))
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeListing(t, root, "ja-JP")
	writeListing(t, root, "de-DE")
	require.NoError(t, os.WriteFile(filepath.Join(root, "de-DE", curation.FullDescriptionFile),
		[]byte("  Open source continuous file synchronization.  \n"), 0o600))

	got, err := curation.Load(root)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "de-DE", got[0].Code)
	assert.Equal(t, "Syncthing", got[0].Title)
	assert.Equal(t, "Open source continuous file synchronization.", got[0].FullDescription)
	assert.Equal(t, "Sync ja-JP", got[1].ShortDescription)
	assert.Empty(t, got[1].FullDescription)

	_, err = curation.Load(filepath.Join(root, "absent"))
	require.Error(t, err)
}
