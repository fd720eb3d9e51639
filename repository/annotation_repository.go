package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nithin2k5/yoloGenerator/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnnotationRepository handles database operations for Annotation entities
type AnnotationRepository struct {
	DB *gorm.DB
}

// NewAnnotationRepository creates a new instance of AnnotationRepository
func NewAnnotationRepository(db *gorm.DB) *AnnotationRepository {
	return &AnnotationRepository{DB: db}
}

// GetAnnotation retrieves the annotation of an image, or (nil, nil) if the
// image has not been annotated yet
func (r *AnnotationRepository) GetAnnotation(ctx context.Context, datasetID, imageID string) (*models.Annotation, error) {
	var annotation models.Annotation
	err := r.DB.WithContext(ctx).Where("id = ?", models.AnnotationID(datasetID, imageID)).First(&annotation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get annotation for image %s: %w", imageID, err)
	}
	return &annotation, nil
}

// Save inserts or replaces the annotation of an image
func (r *AnnotationRepository) Save(ctx context.Context, annotation *models.Annotation) error {
	return upsertAnnotation(r.DB.WithContext(ctx), annotation)
}

// SaveForImage upserts the annotation and, in the same transaction, flags its
// image annotated and applies annotation.Split when set. Nothing is written
// when the image does not exist.
func (r *AnnotationRepository) SaveForImage(ctx context.Context, annotation *models.Annotation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"annotated": true}
		if annotation.Split != nil {
			updates["split"] = *annotation.Split
		}
		result := tx.Model(&models.DatasetImage{}).
			Where("id = ? AND dataset_id = ?", annotation.ImageID, annotation.DatasetID).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to mark image %s annotated: %w", annotation.ImageID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrImageNotFound
		}

		if err := upsertAnnotation(tx, annotation); err != nil {
			return err
		}
		return tx.Model(&models.Dataset{}).Where("id = ?", annotation.DatasetID).Update("updated_at", time.Now().Unix()).Error
	})
}

func upsertAnnotation(db *gorm.DB, annotation *models.Annotation) error {
	now := time.Now().Unix()
	annotation.ID = models.AnnotationID(annotation.DatasetID, annotation.ImageID)
	if annotation.CreatedAt == 0 {
		annotation.CreatedAt = now
	}
	annotation.UpdatedAt = now
	if annotation.Status == "" {
		annotation.Status = models.AnnotationStatusAnnotated
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_name", "width", "height", "boxes", "split", "status", "updated_at"}),
	}).Create(annotation).Error
	if err != nil {
		return fmt.Errorf("failed to save annotation %s: %w", annotation.ID, err)
	}
	return nil
}
