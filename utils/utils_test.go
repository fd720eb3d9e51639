package utils

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRasterImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg":         true,
		"B.JPEG":        true,
		"c.webp":        true,
		"d.tiff":        true,
		"e.txt":         false,
		"noext":         false,
		"archive.zip":   false,
		"dir/photo.Png": true,
	} {
		assert.Equal(t, want, IsRasterImage(name), name)
	}
}

func TestStoredImageName(t *testing.T) {
	a, err := StoredImageName("Holiday.JPG")
	require.NoError(t, err)
	b, err := StoredImageName("Holiday.JPG")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.Len(t, a, 36+len(".jpg"))
	assert.NotEqual(t, a, b)
}

func TestGetImageMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 31, 17))))
	require.NoError(t, f.Close())

	meta, err := GetImageMetadata(path)
	require.NoError(t, err)
	require.NotNil(t, meta.Width)
	require.NotNil(t, meta.Height)
	assert.Equal(t, 31, *meta.Width)
	assert.Equal(t, 17, *meta.Height)
	assert.Nil(t, meta.TakenAt)

	_, err = GetImageMetadata(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
