package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dataset represents an object-detection dataset in the database using GORM.
// It corresponds to the 'datasets' table. The index of a class name in
// Classes is its class id.
type Dataset struct {
	ID          string                       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string                       `gorm:"not null" json:"name"`
	Description string                       `gorm:"not null;default:''" json:"description"`
	Classes     datatypes.JSONType[[]string] `gorm:"not null" json:"classes"`
	CreatedAt   int64                        `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt   int64                        `gorm:"not null" json:"updated_at"` // Unix timestamp

	// Relationships
	Images []DatasetImage `gorm:"foreignKey:DatasetID" json:"images,omitempty"`
}

// BeforeCreate generates a UUID before creating a new dataset
func (d *Dataset) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// ClassNames returns the ordered class list, never nil.
func (d *Dataset) ClassNames() []string {
	classes := d.Classes.Data()
	if classes == nil {
		return []string{}
	}
	return classes
}

// TableName explicitly sets the table name for GORM.
func (Dataset) TableName() string {
	return "datasets"
}
