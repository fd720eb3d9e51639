package models

import (
	"fmt"

	"gorm.io/datatypes"
)

// Annotation statuses
const (
	AnnotationStatusAnnotated = "annotated"
	AnnotationStatusReviewed  = "reviewed"
)

// Box is one labeled object in absolute pixel coordinates. X/Y is the
// top-left corner.
type Box struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
}

// WithDefaults returns a copy with confidence defaulted to 1.0 for manual labels.
func (b Box) WithDefaults() Box {
	if b.Confidence == 0 {
		b.Confidence = 1.0
	}
	return b
}

func (b Box) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", b.X, b.Y, b.Width, b.Height)
}

// Annotation holds the boxes drawn on one image. There is at most one
// annotation per image; its ID is "<dataset_id>_<image_id>".
// It corresponds to the 'annotations' table.
type Annotation struct {
	ID        string                    `gorm:"primaryKey" json:"id"`
	DatasetID string                    `gorm:"not null;index" json:"dataset_id"`
	ImageID   string                    `gorm:"not null;uniqueIndex" json:"image_id"`
	ImageName string                    `gorm:"not null" json:"image_name"`
	Width     int                       `gorm:"not null" json:"width"`  // image width the boxes were drawn against
	Height    int                       `gorm:"not null" json:"height"` // image height the boxes were drawn against
	Boxes     datatypes.JSONType[[]Box] `gorm:"not null" json:"boxes"`
	Split     *string                   `gorm:"" json:"split,omitempty"` // Nullable
	Status    string                    `gorm:"not null;default:annotated" json:"status"`
	CreatedAt int64                     `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64                     `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// AnnotationID builds the primary key used for an image's annotation.
func AnnotationID(datasetID, imageID string) string {
	return datasetID + "_" + imageID
}

// BoxList returns the stored boxes, never nil.
func (a *Annotation) BoxList() []Box {
	boxes := a.Boxes.Data()
	if boxes == nil {
		return []Box{}
	}
	return boxes
}

// TableName explicitly sets the table name for GORM.
func (Annotation) TableName() string {
	return "annotations"
}
