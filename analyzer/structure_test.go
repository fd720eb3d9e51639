package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nithin2k5/yoloGenerator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDatasetDir(t *testing.T, subdirs ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "ds")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, sub := range subdirs {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
	}
	return dir
}

func TestValidateStructure_Layout(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	assert.Equal(t, []string{"Dataset directory does not exist"}, ValidateStructure(missing, nil))

	bare := makeDatasetDir(t)
	assert.Equal(t, []string{"Images directory missing", "Labels directory missing"}, ValidateStructure(bare, nil))

	full := makeDatasetDir(t, "images", "labels")
	issues := ValidateStructure(full, []string{"a"})
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestValidateStructure_Manifest(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     []string
	}{
		{"valid", "names: [car, bus]\nnc: 2\n", nil},
		{"count mismatch", "names: [car, bus]\nnc: 3\n", []string{"data.yaml class count mismatch"}},
		{"missing names", "nc: 2\n", []string{"data.yaml missing 'names' field"}},
		{"missing nc", "names:\n  0: car\n  1: bus\n", []string{"data.yaml missing 'nc' field", "data.yaml class count mismatch"}},
		{"missing both", "path: .\n", []string{"data.yaml missing 'names' field", "data.yaml missing 'nc' field", "data.yaml class count mismatch"}},
		{"empty", "\n", []string{"Invalid data.yaml: empty document"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := makeDatasetDir(t, "images", "labels")
			require.NoError(t, os.WriteFile(filepath.Join(dir, "data.yaml"), []byte(tt.manifest), 0644))

			issues := ValidateStructure(dir, []string{"car", "bus"})
			if tt.want == nil {
				assert.Empty(t, issues)
				return
			}
			assert.Equal(t, tt.want, issues)
		})
	}
}

func TestValidateStructure_MissingNCWithoutClasses(t *testing.T) {
	dir := makeDatasetDir(t, "images", "labels")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.yaml"), []byte("names: []\n"), 0644))

	assert.Equal(t, []string{"data.yaml missing 'nc' field"}, ValidateStructure(dir, nil))
}

func TestValidateStructure_UnparsableManifest(t *testing.T) {
	dir := makeDatasetDir(t, "images", "labels")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.yaml"), []byte("names: [car\nnc: 1\n"), 0644))

	issues := ValidateStructure(dir, []string{"car"})
	require.Len(t, issues, 1)
	assert.True(t, strings.HasPrefix(issues[0], "Invalid data.yaml: "), issues[0])
}

func TestValidateLabelFiles(t *testing.T) {
	dir := makeDatasetDir(t, "images", "labels")
	content := strings.Join([]string{
		"0 0.5 0.5 0.2 0.2",
		"",
		"1 0.5 0.5",
		"0 a 0.5 0.1 0.1",
		"5 0.5 0.5 0.1 0.1",
		"0 1.5 0.5 0.1 0.1",
		"0 0.95 0.5 0.2 0.2",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels", "a.txt"), []byte(content), 0644))

	images := []models.DatasetImage{
		{ID: "1", Filename: "a.jpg", Annotated: true},
		{ID: "2", Filename: "b.png", Annotated: true},
		{ID: "3", Filename: "c.png", Annotated: false},
	}

	issues := ValidateLabelFiles(dir, images, 2)

	assert.Equal(t, []string{
		"a.txt: line 3 has invalid format (expected 5 values)",
		"a.txt: line 4 has invalid numeric values",
		"a.txt: line 5 has class id 5 outside [0,2)",
		"a.txt: line 6 has coordinates out of range [0,1]",
		"a.txt: line 6 box extends beyond image boundaries",
		"a.txt: line 7 box extends beyond image boundaries",
		"Missing label file: b.txt",
	}, issues)
}

func TestValidateLabelFiles_NoLabelsDir(t *testing.T) {
	dir := makeDatasetDir(t, "images")
	issues := ValidateLabelFiles(dir, []models.DatasetImage{{ID: "1", Filename: "a.jpg", Annotated: true}}, 1)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestValidateLabelFiles_LongLineDoesNotHideLaterLines(t *testing.T) {
	dir := makeDatasetDir(t, "images", "labels")
	long := strings.Repeat("0.5 ", 100*1024/4)
	content := strings.Join([]string{
		"0 0.5 0.5 0.2 0.2",
		long,
		"7 0.5 0.5 0.1 0.1",
	}, "\r\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels", "a.txt"), []byte(content), 0644))

	issues := ValidateLabelFiles(dir, []models.DatasetImage{{ID: "1", Filename: "a.png", Annotated: true}}, 1)

	assert.Equal(t, []string{
		"a.txt: line 2 has invalid format (expected 5 values)",
		"a.txt: line 3 has class id 7 outside [0,1)",
	}, issues)
}
