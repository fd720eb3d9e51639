package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/nithin2k5/yoloGenerator/media"
	"github.com/nithin2k5/yoloGenerator/models"
	"github.com/nithin2k5/yoloGenerator/repository"
	"github.com/nithin2k5/yoloGenerator/workers"
)

// DatasetLocator resolves the on-disk root of a dataset
type DatasetLocator interface {
	DatasetDir(datasetID string) (string, error)
}

type Options struct {
	// Workers bounds concurrent decode+hash; 1 or less scans sequentially
	Workers      int
	OverlapScope OverlapScope
}

// Analyzer computes dataset readiness reports. It only reads from its
// stores and the filesystem, so concurrent calls are safe.
type Analyzer struct {
	datasets     repository.DatasetStore
	locator      DatasetLocator
	scanner      *Scanner
	overlapScope OverlapScope
}

func New(
	datasets repository.DatasetStore,
	annotations repository.AnnotationStore,
	decoder media.Decoder,
	locator DatasetLocator,
	opts Options,
) *Analyzer {
	scope := opts.OverlapScope
	if scope == "" {
		scope = OverlapScopeDataset
	}
	return &Analyzer{
		datasets:     datasets,
		locator:      locator,
		scanner:      NewScanner(annotations, workers.NewScanPool(decoder, opts.Workers)),
		overlapScope: scope,
	}
}

// AnalyzeDataset runs the full pass over a dataset. An unknown dataset
// yields an error matching ErrNotFound; any other error is internal and no
// analysis is returned.
func (a *Analyzer) AnalyzeDataset(ctx context.Context, datasetID string) (*Analysis, error) {
	dataset, err := a.datasets.GetDataset(ctx, datasetID)
	if errors.Is(err, repository.ErrDatasetNotFound) || (err == nil && dataset == nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, datasetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", datasetID, err)
	}

	images, err := a.datasets.GetDatasetImages(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load images for dataset %s: %w", datasetID, err)
	}
	annotated := make([]models.DatasetImage, 0, len(images))
	for _, img := range images {
		if img.Annotated {
			annotated = append(annotated, img)
		}
	}

	datasetDir, err := a.locator.DatasetDir(datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory for dataset %s: %w", datasetID, err)
	}

	report, err := a.scanner.Scan(ctx, datasetID, filepath.Join(datasetDir, media.ImagesSubDir), annotated)
	if err != nil {
		return nil, err
	}

	classes := dataset.ClassNames()
	b := &analysisBuilder{
		datasetID:       dataset.ID,
		datasetName:     dataset.Name,
		totalImages:     len(images),
		annotatedImages: len(annotated),
		classes:         classes,
		scan:            report,
		agg:             NewAggregator(),
		invalidBoxes:    []string{},
		invalidClassIDs: []string{},
		outOfBounds:     []string{},
	}
	a.validateBoxes(b, NewClassIndex(classes))

	b.structureIssues = ValidateStructure(datasetDir, classes)
	b.structureIssues = append(b.structureIssues, ValidateLabelFiles(datasetDir, annotated, len(classes))...)

	b.splitCounts, b.splitRatios = SplitDistribution(annotated)
	b.leakage = DetectLeakage(report.HashGroups)

	counts := b.counts()
	freq := b.agg.ClassFrequency()
	b.balance = ClassBalanceScore(freq)
	b.accuracy = LabelAccuracyScore(counts, len(annotated))
	b.iou = IoUConsistencyScore(b.agg.boxes, a.overlapScope)
	b.quality = QualityScore(QualityInput{
		Balance:     b.balance,
		Accuracy:    b.accuracy,
		IoU:         b.iou,
		Counts:      counts,
		TotalImages: len(images),
		DataLeakage: b.leakage,
	})

	b.training = RecommendTrainingConfig(len(annotated), b.agg.Sizes())
	b.augmentation = RecommendAugmentation(b.balance, b.agg.Sizes(), len(annotated))
	b.warnings, b.advice = Advise(AdviceInput{
		ClassFrequency: freq,
		Balance:        b.balance,
		Sizes:          b.agg.Sizes(),
		NumImages:      len(annotated),
		Counts:         counts,
		SplitRatios:    b.splitRatios,
		DataLeakage:    b.leakage,
		QualityScore:   b.quality,
	})

	analysis := b.build()
	log.Printf("analyzer: dataset %s: %d/%d images annotated, %d valid boxes, quality %.1f",
		datasetID, analysis.AnnotatedImages, analysis.TotalImages, analysis.TotalAnnotations, analysis.OverallQualityScore)
	return analysis, nil
}

// validateBoxes sends every box of every surviving image through the
// geometry checks and feeds valid ones to the aggregator
func (a *Analyzer) validateBoxes(b *analysisBuilder, classes ClassIndex) {
	for _, img := range b.scan.Images {
		imageIdx := b.agg.AddImage()
		name := img.Image.Filename

		for n, raw := range img.Annotation.BoxList() {
			box, err := NewBox(raw)
			if err != nil {
				b.invalidBoxes = append(b.invalidBoxes, fmt.Sprintf("%s: box %d is malformed: %v", name, n+1, err))
				continue
			}

			verdict := ValidateBox(box, img.Width, img.Height, classes, name)
			b.invalidClassIDs = append(b.invalidClassIDs, verdict.ClassIssues...)

			switch verdict.Defect {
			case DefectOutOfBounds:
				b.outOfBounds = append(b.outOfBounds, fmt.Sprintf("%s: box %s out of bounds", name, box))
				continue
			case DefectNonPositive:
				b.invalidBoxes = append(b.invalidBoxes,
					fmt.Sprintf("%s: box %d (%gx%g) has non-positive dimensions", name, n+1, box.Width, box.Height))
				continue
			}

			b.agg.AddBox(imageIdx, box, classes.frequencyName(box), img.Width, img.Height)
		}
	}
}
