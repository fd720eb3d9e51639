package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Split labels an image may be assigned to.
const (
	SplitTrain = "train"
	SplitVal   = "val"
	SplitTest  = "test"
)

// IsValidSplit reports whether s is one of the known split labels.
func IsValidSplit(s string) bool {
	switch s {
	case SplitTrain, SplitVal, SplitTest:
		return true
	}
	return false
}

// DatasetImage represents an uploaded image belonging to exactly one dataset.
// It corresponds to the 'dataset_images' table.
type DatasetImage struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DatasetID    string  `gorm:"not null;index" json:"dataset_id"`
	Filename     string  `gorm:"not null" json:"filename"`      // stored name under images/
	OriginalName string  `gorm:"not null" json:"original_name"` // name as uploaded
	Path         string  `gorm:"not null" json:"path"`          // absolute path on disk
	Annotated    bool    `gorm:"not null;default:false" json:"annotated"`
	Split        *string `gorm:"" json:"split"` // Nullable, train|val|test

	Width   *int   `gorm:"" json:"width,omitempty"`    // Nullable, from upload metadata
	Height  *int   `gorm:"" json:"height,omitempty"`   // Nullable
	TakenAt *int64 `gorm:"" json:"taken_at,omitempty"` // Nullable, Unix timestamp from EXIF

	UploadedAt int64 `gorm:"not null;index" json:"uploaded_at"` // Unix timestamp
}

// BeforeCreate generates a UUID before creating a new image record
func (i *DatasetImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// SplitKey returns the split label, or "none" when unset.
func (i *DatasetImage) SplitKey() string {
	if i.Split == nil || *i.Split == "" {
		return "none"
	}
	return *i.Split
}

// TableName explicitly sets the table name for GORM.
func (DatasetImage) TableName() string {
	return "dataset_images"
}
