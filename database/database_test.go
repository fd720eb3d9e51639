package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin2k5/yoloGenerator/models"
)

func TestInitGormDB(t *testing.T) {
	db, err := InitGormDB(filepath.Join(t.TempDir(), "datasets.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode;").Scan(&mode))
	assert.Equal(t, "wal", mode)
	var timeout int
	require.NoError(t, sqlDB.QueryRow("PRAGMA busy_timeout;").Scan(&timeout))
	assert.Equal(t, 5000, timeout)

	require.NoError(t, AutoMigrateModels(db))
	for _, model := range []interface{}{&models.Dataset{}, &models.DatasetImage{}, &models.Annotation{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	// idempotent on an existing schema
	require.NoError(t, AutoMigrateModels(db))
}

func TestIsValidSortOrder(t *testing.T) {
	tests := []struct {
		order string
		want  bool
	}{
		{SortDateAsc, true},
		{SortDateDesc, true},
		{SortFilenameAsc, true},
		{SortFilenameNat, true},
		{"", false},
		{"random", false},
		{"DATE_ASC", false},
	}
	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidSortOrder(tt.order))
		})
	}
	assert.True(t, IsValidSortOrder(DefaultSortOrder))
	assert.Equal(t, "date_asc, date_desc, filename_asc, filename_nat", SortOrderList())
}
