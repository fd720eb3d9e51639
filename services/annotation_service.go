package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/datatypes"

	"github.com/nithin2k5/yoloGenerator/media"
	"github.com/nithin2k5/yoloGenerator/models"
	"github.com/nithin2k5/yoloGenerator/realtime"
	"github.com/nithin2k5/yoloGenerator/repository"
)

// ErrInvalidAnnotation is returned for requests the service refuses to store
var ErrInvalidAnnotation = errors.New("invalid annotation")

// EventPublisher is satisfied by *realtime.Hub
type EventPublisher interface {
	Broadcast(event realtime.Event)
}

// SaveAnnotationRequest is the body of POST /api/annotations
type SaveAnnotationRequest struct {
	DatasetID string       `json:"dataset_id"`
	ImageID   string       `json:"image_id"`
	ImageName string       `json:"image_name"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Boxes     []models.Box `json:"boxes"`
	Split     *string      `json:"split,omitempty"`
	Status    string       `json:"status,omitempty"`
}

func (req *SaveAnnotationRequest) validate() error {
	if req.DatasetID == "" || req.ImageID == "" {
		return fmt.Errorf("%w: dataset_id and image_id are required", ErrInvalidAnnotation)
	}
	if req.Width <= 0 || req.Height <= 0 {
		return fmt.Errorf("%w: image dimensions must be positive, got %dx%d", ErrInvalidAnnotation, req.Width, req.Height)
	}
	if req.Split != nil && !models.IsValidSplit(*req.Split) {
		return fmt.Errorf("%w: unknown split %q", ErrInvalidAnnotation, *req.Split)
	}
	switch req.Status {
	case "", models.AnnotationStatusAnnotated, models.AnnotationStatusReviewed:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidAnnotation, req.Status)
	}
	return nil
}

// AnnotationService keeps the annotation row, the YOLO label file and the
// image flags of an image in step
type AnnotationService struct {
	datasetRepo    repository.DatasetRepositoryInterface
	annotationRepo repository.AnnotationRepositoryInterface
	store          media.Store
	events         EventPublisher
}

// NewAnnotationService creates a new annotation service. events may be nil.
func NewAnnotationService(
	datasetRepo repository.DatasetRepositoryInterface,
	annotationRepo repository.AnnotationRepositoryInterface,
	store media.Store,
	events EventPublisher,
) *AnnotationService {
	return &AnnotationService{
		datasetRepo:    datasetRepo,
		annotationRepo: annotationRepo,
		store:          store,
		events:         events,
	}
}

// Save writes labels/<stem>.txt, then upserts the annotation, marks the image
// annotated and applies the split in one transaction. A failed database write
// puts the previous label file back.
func (s *AnnotationService) Save(ctx context.Context, req SaveAnnotationRequest) (*models.Annotation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	image, err := s.datasetRepo.GetImage(ctx, req.DatasetID, req.ImageID)
	if err != nil {
		return nil, err
	}

	boxes := make([]models.Box, len(req.Boxes))
	for i, b := range req.Boxes {
		boxes[i] = b.WithDefaults()
	}

	labels, err := media.EncodeYOLOLabels(boxes, req.Width, req.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to encode labels for image %s: %w", image.ID, err)
	}

	imageName := req.ImageName
	if imageName == "" {
		imageName = image.Filename
	}

	annotation := &models.Annotation{
		DatasetID: req.DatasetID,
		ImageID:   req.ImageID,
		ImageName: imageName,
		Width:     req.Width,
		Height:    req.Height,
		Boxes:     datatypes.NewJSONType(boxes),
		Split:     req.Split,
		Status:    req.Status,
	}

	labelName := media.LabelFilename(image.Filename)
	labelPath, err := s.store.GetFullPath(req.DatasetID, filepath.Join(media.LabelsSubDir, labelName))
	if err != nil {
		return nil, err
	}
	previous, readErr := os.ReadFile(labelPath)
	hadPrevious := readErr == nil

	if _, err := s.store.Save(req.DatasetID, media.AssetTypeLabel, labelName, bytes.NewReader(labels)); err != nil {
		return nil, fmt.Errorf("failed to write label file %s: %w", labelName, err)
	}

	if err := s.annotationRepo.SaveForImage(ctx, annotation); err != nil {
		s.restoreLabel(req.DatasetID, labelName, labelPath, previous, hadPrevious)
		return nil, err
	}

	log.Printf("annotations: Saved %d boxes for image %s in dataset %s", len(boxes), image.ID, req.DatasetID)

	if s.events != nil {
		ev := realtime.NewEvent(realtime.EventAnnotationSaved, req.DatasetID)
		ev.ImageID = req.ImageID
		ev.Extra = map[string]interface{}{"boxes": len(boxes)}
		s.events.Broadcast(ev)
	}
	return annotation, nil
}

func (s *AnnotationService) restoreLabel(datasetID, labelName, labelPath string, previous []byte, hadPrevious bool) {
	var err error
	if hadPrevious {
		_, err = s.store.Save(datasetID, media.AssetTypeLabel, labelName, bytes.NewReader(previous))
	} else {
		err = os.Remove(labelPath)
	}
	if err != nil && !os.IsNotExist(err) {
		log.Printf("annotations: Failed to restore label file %s in dataset %s: %v", labelName, datasetID, err)
	}
}

// Get returns the annotation of an image, or nil when it has none
func (s *AnnotationService) Get(ctx context.Context, datasetID, imageID string) (*models.Annotation, error) {
	return s.annotationRepo.GetAnnotation(ctx, datasetID, imageID)
}
