package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nithin2k5/yoloGenerator/models"
	"gorm.io/gorm"
)

// DatasetRepository handles database operations for Dataset and DatasetImage entities
type DatasetRepository struct {
	DB *gorm.DB
}

// NewDatasetRepository creates a new instance of DatasetRepository
func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{DB: db}
}

// Create creates a new dataset record in the database
func (r *DatasetRepository) Create(ctx context.Context, dataset *models.Dataset) error {
	now := time.Now().Unix()
	if dataset.CreatedAt == 0 {
		dataset.CreatedAt = now
	}
	dataset.UpdatedAt = now

	err := r.DB.WithContext(ctx).Create(dataset).Error
	if err != nil {
		return fmt.Errorf("failed to create dataset %s: %w", dataset.Name, err)
	}
	return nil
}

// GetDataset retrieves a dataset by its ID
func (r *DatasetRepository) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	var dataset models.Dataset
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&dataset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("failed to get dataset by ID %s: %w", id, err)
	}
	return &dataset, nil
}

// ListAll retrieves all datasets, newest first
func (r *DatasetRepository) ListAll(ctx context.Context) ([]models.Dataset, error) {
	var datasets []models.Dataset
	err := r.DB.WithContext(ctx).Order("created_at DESC").Order("id ASC").Find(&datasets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return datasets, nil
}

// Delete removes a dataset together with its images and annotations
func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", id).Delete(&models.Annotation{}).Error; err != nil {
			return fmt.Errorf("failed to delete annotations for dataset %s: %w", id, err)
		}
		if err := tx.Where("dataset_id = ?", id).Delete(&models.DatasetImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images for dataset %s: %w", id, err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Dataset{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete dataset %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrDatasetNotFound
		}
		return nil
	})
}

// touch bumps the dataset's updated_at timestamp
func (r *DatasetRepository) touch(tx *gorm.DB, datasetID string) error {
	return tx.Model(&models.Dataset{}).Where("id = ?", datasetID).Update("updated_at", time.Now().Unix()).Error
}
