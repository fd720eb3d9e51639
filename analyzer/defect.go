package analyzer

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by AnalyzeDataset when the dataset does not exist
var ErrNotFound = errors.New("dataset not found")

// DefectKind classifies a per-image or per-box problem found during a scan
type DefectKind string

const (
	DefectCorrupt         DefectKind = "corrupt"
	DefectMissingFile     DefectKind = "missing_file"
	DefectLabelMismatch   DefectKind = "label_mismatch"
	DefectEmptyAnnotation DefectKind = "empty_annotation"
	DefectOutOfBounds     DefectKind = "out_of_bounds"
	DefectNonPositive     DefectKind = "non_positive"
)

// Defect is a recovered failure for one item. Subject is the image filename.
type Defect struct {
	Kind    DefectKind
	Subject string
	Detail  string
}

func (d Defect) Error() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Subject)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Subject, d.Detail)
}

// DefectCounts are the per-kind tallies that feed scoring and advice
type DefectCounts struct {
	Corrupt        int
	Mismatches     int
	Duplicates     int
	InvalidBoxes   int
	Empty          int
	OutOfBounds    int
	InvalidClasses int
}
