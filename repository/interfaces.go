package repository

import (
	"context"
	"errors"

	"github.com/nithin2k5/yoloGenerator/models"
)

// ErrDatasetNotFound is returned when a dataset id does not exist
var ErrDatasetNotFound = errors.New("dataset not found")

// ErrImageNotFound is returned when an image id does not exist in the dataset
var ErrImageNotFound = errors.New("image not found")

// DatasetStore is the read side of dataset persistence used by the analyzer
type DatasetStore interface {
	GetDataset(ctx context.Context, id string) (*models.Dataset, error)
	GetDatasetImages(ctx context.Context, id string) ([]models.DatasetImage, error)
}

// AnnotationStore is the read side of annotation persistence used by the analyzer.
// GetAnnotation returns (nil, nil) when the image has no annotation.
type AnnotationStore interface {
	GetAnnotation(ctx context.Context, datasetID, imageID string) (*models.Annotation, error)
}

// DatasetRepositoryInterface defines the methods for dataset and image data operations
type DatasetRepositoryInterface interface {
	DatasetStore
	Create(ctx context.Context, dataset *models.Dataset) error
	ListAll(ctx context.Context) ([]models.Dataset, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, image *models.DatasetImage) error
	GetImage(ctx context.Context, datasetID, imageID string) (*models.DatasetImage, error)
	UpdateImageSplit(ctx context.Context, datasetID, imageID string, split *string) error
}

// AnnotationRepositoryInterface defines the methods for annotation data operations
type AnnotationRepositoryInterface interface {
	AnnotationStore
	Save(ctx context.Context, annotation *models.Annotation) error
	SaveForImage(ctx context.Context, annotation *models.Annotation) error
}
