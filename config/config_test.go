package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DATASETS_ROOT", "DATABASE_PATH", "PORT", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_MB", "SCAN_WORKERS", "ANALYZER_OVERLAP_SCOPE"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	wantRoot, err := filepath.Abs(filepath.Join(".", "datasets"))
	require.NoError(t, err)
	assert.Equal(t, wantRoot, cfg.DatasetsRoot)
	assert.Equal(t, "yolo.db", cfg.DatabasePath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, "dataset", cfg.OverlapScope)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("DATASETS_ROOT", root)
	t.Setenv("DATABASE_PATH", "/tmp/x.db")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("SCAN_WORKERS", "not-a-number")
	t.Setenv("ANALYZER_OVERLAP_SCOPE", "IMAGE")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, root, cfg.DatasetsRoot)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, "image", cfg.OverlapScope)
}

func TestLoadConfig_RejectsUnknownOverlapScope(t *testing.T) {
	t.Setenv("ANALYZER_OVERLAP_SCOPE", "pairs")
	_, err := LoadConfig()
	assert.Error(t, err)
}
