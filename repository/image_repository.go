package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nithin2k5/yoloGenerator/models"
	"gorm.io/gorm"
)

// AddImage inserts an uploaded image record. Images always start unannotated
// and without a split.
func (r *DatasetRepository) AddImage(ctx context.Context, image *models.DatasetImage) error {
	if image.UploadedAt == 0 {
		image.UploadedAt = time.Now().Unix()
	}
	image.Annotated = false
	image.Split = nil

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("failed to add image %s to dataset %s: %w", image.Filename, image.DatasetID, err)
		}
		return r.touch(tx, image.DatasetID)
	})
}

// GetDatasetImages retrieves all images of a dataset in upload order
func (r *DatasetRepository) GetDatasetImages(ctx context.Context, datasetID string) ([]models.DatasetImage, error) {
	var images []models.DatasetImage
	err := r.DB.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("uploaded_at ASC").
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get images for dataset %s: %w", datasetID, err)
	}
	return images, nil
}

// GetImage retrieves one image of a dataset
func (r *DatasetRepository) GetImage(ctx context.Context, datasetID, imageID string) (*models.DatasetImage, error) {
	var image models.DatasetImage
	err := r.DB.WithContext(ctx).Where("id = ? AND dataset_id = ?", imageID, datasetID).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image %s in dataset %s: %w", imageID, datasetID, err)
	}
	return &image, nil
}

// UpdateImageSplit sets or clears the split assignment of an image
func (r *DatasetRepository) UpdateImageSplit(ctx context.Context, datasetID, imageID string, split *string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.DatasetImage{}).
			Where("id = ? AND dataset_id = ?", imageID, datasetID).
			Update("split", split)
		if result.Error != nil {
			return fmt.Errorf("failed to update split for image %s: %w", imageID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrImageNotFound
		}
		return r.touch(tx, datasetID)
	})
}
