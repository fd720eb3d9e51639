package analyzer

// Analysis is a read-only readiness report for one dataset. It is computed
// fresh on every request and never stored.
type Analysis struct {
	DatasetID        string   `json:"dataset_id"`
	DatasetName      string   `json:"dataset_name"`
	TotalImages      int      `json:"total_images"`
	AnnotatedImages  int      `json:"annotated_images"`
	TotalAnnotations int      `json:"total_annotations"`
	Classes          []string `json:"classes"`

	ClassFrequency          map[string]int     `json:"class_frequency"`
	ClassBalanceScore       float64            `json:"class_balance_score"`
	ObjectSizeDistribution  SizeDistribution   `json:"object_size_distribution"`
	AspectRatioDistribution AspectDistribution `json:"aspect_ratio_distribution"`
	AvgObjectsPerImage      float64            `json:"avg_objects_per_image"`

	StructureValid  bool     `json:"structure_valid"`
	StructureIssues []string `json:"structure_issues"`

	LabelAccuracyScore  float64  `json:"label_accuracy_score"`
	IoUConsistencyScore float64  `json:"iou_consistency_score"`
	DuplicateImages     []string `json:"duplicate_images"`
	CorruptImages       []string `json:"corrupt_images"`
	LabelMismatches     []string `json:"label_mismatches"`
	InvalidBoxes        []string `json:"invalid_boxes"`
	EmptyAnnotations    []string `json:"empty_annotations"`
	InvalidClassIDs     []string `json:"invalid_class_ids"`
	BoxesOutOfBounds    []string `json:"boxes_out_of_bounds"`

	SplitDistribution   map[string]int     `json:"split_distribution"`
	SplitRatios         map[string]float64 `json:"split_ratios"`
	DataLeakageDetected bool               `json:"data_leakage_detected"`

	RecommendedImageSize        int          `json:"recommended_image_size"`
	RecommendedBatchSize        int          `json:"recommended_batch_size"`
	RecommendedEpochs           int          `json:"recommended_epochs"`
	AugmentationRecommendations Augmentation `json:"augmentation_recommendations"`

	OverallQualityScore float64  `json:"overall_quality_score"`
	Warnings            []string `json:"warnings"`
	Recommendations     []string `json:"recommendations"`
}

// Counts tallies the defect lists of the report
func (a *Analysis) Counts() DefectCounts {
	return DefectCounts{
		Corrupt:        len(a.CorruptImages),
		Mismatches:     len(a.LabelMismatches),
		Duplicates:     len(a.DuplicateImages),
		InvalidBoxes:   len(a.InvalidBoxes),
		Empty:          len(a.EmptyAnnotations),
		OutOfBounds:    len(a.BoxesOutOfBounds),
		InvalidClasses: len(a.InvalidClassIDs),
	}
}

// analysisBuilder collects pipeline outputs; build copies them into an
// Analysis so nothing the pipeline still holds is shared with the caller
type analysisBuilder struct {
	datasetID       string
	datasetName     string
	totalImages     int
	annotatedImages int
	classes         []string

	scan            *ScanReport
	agg             *Aggregator
	invalidBoxes    []string
	invalidClassIDs []string
	outOfBounds     []string

	structureIssues []string
	splitCounts     map[string]int
	splitRatios     map[string]float64
	leakage         bool

	balance  float64
	accuracy float64
	iou      float64
	quality  float64

	training     TrainingConfig
	augmentation Augmentation
	warnings     []string
	advice       []string
}

func (b *analysisBuilder) counts() DefectCounts {
	return DefectCounts{
		Corrupt:        len(b.scan.Corrupt),
		Mismatches:     len(b.scan.Mismatches),
		Duplicates:     len(b.scan.Duplicates),
		InvalidBoxes:   len(b.invalidBoxes),
		Empty:          len(b.scan.Empty),
		OutOfBounds:    len(b.outOfBounds),
		InvalidClasses: len(b.invalidClassIDs),
	}
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (b *analysisBuilder) build() *Analysis {
	return &Analysis{
		DatasetID:        b.datasetID,
		DatasetName:      b.datasetName,
		TotalImages:      b.totalImages,
		AnnotatedImages:  b.annotatedImages,
		TotalAnnotations: b.agg.TotalBoxes(),
		Classes:          cloneStrings(b.classes),

		ClassFrequency:          b.agg.ClassFrequency(),
		ClassBalanceScore:       b.balance,
		ObjectSizeDistribution:  b.agg.Sizes(),
		AspectRatioDistribution: b.agg.Aspects(),
		AvgObjectsPerImage:      b.agg.AvgObjectsPerImage(),

		StructureValid:  len(b.structureIssues) == 0,
		StructureIssues: cloneStrings(b.structureIssues),

		LabelAccuracyScore:  b.accuracy,
		IoUConsistencyScore: b.iou,
		DuplicateImages:     cloneStrings(b.scan.Duplicates),
		CorruptImages:       cloneStrings(b.scan.Corrupt),
		LabelMismatches:     cloneStrings(b.scan.Mismatches),
		InvalidBoxes:        cloneStrings(b.invalidBoxes),
		EmptyAnnotations:    cloneStrings(b.scan.Empty),
		InvalidClassIDs:     cloneStrings(b.invalidClassIDs),
		BoxesOutOfBounds:    cloneStrings(b.outOfBounds),

		SplitDistribution:   cloneIntMap(b.splitCounts),
		SplitRatios:         cloneFloatMap(b.splitRatios),
		DataLeakageDetected: b.leakage,

		RecommendedImageSize:        b.training.ImageSize,
		RecommendedBatchSize:        b.training.BatchSize,
		RecommendedEpochs:           b.training.Epochs,
		AugmentationRecommendations: b.augmentation,

		OverallQualityScore: b.quality,
		Warnings:            cloneStrings(b.warnings),
		Recommendations:     cloneStrings(b.advice),
	}
}
