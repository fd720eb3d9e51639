package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(filepath.Join(t.TempDir(), "datasets"))
	require.NoError(t, err)
	return ls
}

func TestLocalStorage_EnsureAndDelete(t *testing.T) {
	ls := newTestStorage(t)

	dir, err := ls.EnsureDataset("ds-1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ls.BasePath(), "ds-1"), dir)
	for _, sub := range []string{ImagesSubDir, LabelsSubDir} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// idempotent
	_, err = ls.EnsureDataset("ds-1")
	require.NoError(t, err)

	require.NoError(t, ls.DeleteDataset("ds-1"))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ls.DeleteDataset("ds-1"))
}

func TestLocalStorage_Save(t *testing.T) {
	ls := newTestStorage(t)

	path, err := ls.Save("ds-1", AssetTypeLabel, "a.txt", strings.NewReader("0 0.5 0.5 0.1 0.1\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ls.BasePath(), "ds-1", LabelsSubDir, "a.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0 0.5 0.5 0.1 0.1\n", string(data))

	path, err = ls.Save("ds-1", AssetTypeImage, "a.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ls.BasePath(), "ds-1", ImagesSubDir, "a.png"), path)

	_, err = ls.Save("ds-1", AssetTypeImage, "", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = ls.Save("ds-1", AssetTypeImage, "../escape.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalStorage_RejectsEscapingIDs(t *testing.T) {
	ls := newTestStorage(t)

	for _, id := range []string{"", "..", "a/b", `a\b`, "../x"} {
		_, err := ls.DatasetDir(id)
		assert.Error(t, err, "id %q", id)
	}
}

func TestLocalStorage_GetFullPath(t *testing.T) {
	ls := newTestStorage(t)
	dir, err := ls.EnsureDataset("ds-1")
	require.NoError(t, err)

	got, err := ls.GetFullPath("ds-1", "images/a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "images", "a.png"), got)

	got, err = ls.GetFullPath("ds-1", "images/../labels/a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "labels", "a.txt"), got)

	_, err = ls.GetFullPath("ds-1", "../ds-2/images/a.png")
	assert.Error(t, err)
	_, err = ls.GetFullPath("ds-1", "../../etc/passwd")
	assert.Error(t, err)
}
