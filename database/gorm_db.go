package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nithin2k5/yoloGenerator/models"
)

// sqliteParams are applied by go-sqlite3 to every pooled connection.
// busy_timeout lets an annotation save wait for a concurrent upload instead
// of failing with SQLITE_BUSY.
const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000"

// InitGormDB opens the SQLite file holding datasets, their images and
// annotations. Slow queries and errors go to stdout; record-not-found is
// expected on annotation lookups and is not logged.
func InitGormDB(path string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	dsn := path + "?" + sqliteParams
	if strings.Contains(path, "?") {
		dsn = path + "&" + sqliteParams
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetMaxOpenConns(16)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("database: Opened dataset store at %s", path)
	return db, nil
}

// AutoMigrateModels creates or updates the datasets, dataset_images and
// annotations tables
func AutoMigrateModels(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Dataset{}, &models.DatasetImage{}, &models.Annotation{}); err != nil {
		return fmt.Errorf("failed to migrate dataset tables: %w", err)
	}
	return nil
}
