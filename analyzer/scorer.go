package analyzer

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// OverlapScope selects which box pairs the overlap check compares
type OverlapScope string

const (
	// OverlapScopeDataset compares every pair of valid boxes in the dataset
	OverlapScopeDataset OverlapScope = "dataset"
	// OverlapScopeImage compares only boxes drawn on the same image
	OverlapScopeImage OverlapScope = "image"
)

// ParseOverlapScope maps a config value to a scope; empty means dataset
func ParseOverlapScope(s string) (OverlapScope, error) {
	switch OverlapScope(s) {
	case "", OverlapScopeDataset:
		return OverlapScopeDataset, nil
	case OverlapScopeImage:
		return OverlapScopeImage, nil
	}
	return "", fmt.Errorf("unknown overlap scope %q", s)
}

// overlap above this share of pairs starts costing score
const overlapTolerance = 0.3

// label accuracy error weights
const (
	weightCritical    = 1.0
	weightInvalidBox  = 0.5
	weightEmpty       = 0.3
	weightOutOfBounds = 0.8
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClassBalanceScore is 1 - min(CV, 1) over per-class counts, using the
// population standard deviation. One class scores 1, none scores 0.
func ClassBalanceScore(freq map[string]int) float64 {
	if len(freq) == 0 {
		return 0
	}
	if len(freq) == 1 {
		return 1
	}

	// sorted so float summation order is stable between runs
	names := make([]string, 0, len(freq))
	for name := range freq {
		names = append(names, name)
	}
	sort.Strings(names)
	counts := make([]float64, len(names))
	for i, name := range names {
		counts[i] = float64(freq[name])
	}

	mean, std := stat.PopMeanStdDev(counts, nil)
	if mean == 0 {
		return 0
	}
	return clamp(1-math.Min(std/mean, 1), 0, 1)
}

// LabelAccuracyScore weighs defects against the annotated image count
func LabelAccuracyScore(c DefectCounts, annotatedImages int) float64 {
	if annotatedImages == 0 {
		return 0
	}
	errs := weightCritical*float64(c.Mismatches+c.Corrupt) +
		weightInvalidBox*float64(c.InvalidBoxes) +
		weightEmpty*float64(c.Empty) +
		weightOutOfBounds*float64(c.OutOfBounds)
	return clamp(1-errs/float64(annotatedImages), 0, 1)
}

// IoUConsistencyScore is the share of well-formed boxes minus a penalty when
// too many box pairs intersect. Intersection is a plain AABB test.
func IoUConsistencyScore(boxes []placedBox, scope OverlapScope) float64 {
	if len(boxes) < 2 {
		return 1
	}

	wellFormed := 0
	for _, pb := range boxes {
		b := pb.box
		if b.Width > 0 && b.Height > 0 && b.X >= 0 && b.Y >= 0 {
			wellFormed++
		}
	}

	pairs, overlapping := 0, 0
	for i := 0; i < len(boxes); i++ {
		a := boxes[i]
		if a.box.Width <= 0 || a.box.Height <= 0 {
			continue
		}
		for j := i + 1; j < len(boxes); j++ {
			b := boxes[j]
			if b.box.Width <= 0 || b.box.Height <= 0 {
				continue
			}
			if scope == OverlapScopeImage && a.image != b.image {
				continue
			}
			pairs++
			if a.box.Overlaps(b.box) {
				overlapping++
			}
		}
	}

	penalty := 0.0
	if pairs > 0 {
		ratio := float64(overlapping) / float64(pairs)
		if ratio > overlapTolerance {
			penalty = (ratio - overlapTolerance) * 0.5
		}
	}
	return clamp(float64(wellFormed)/float64(len(boxes))-penalty, 0, 1)
}

// QualityInput gathers what the composite score depends on
type QualityInput struct {
	Balance     float64
	Accuracy    float64
	IoU         float64
	Counts      DefectCounts
	TotalImages int
	DataLeakage bool
}

// QualityScore combines the sub-scores and defect penalties into [0,100]
func QualityScore(in QualityInput) float64 {
	if in.TotalImages == 0 {
		return 0
	}

	classValidity := 1.0
	if in.Counts.InvalidClasses > 0 {
		classValidity = 0.5
	}
	base := (in.Balance*0.25 + in.Accuracy*0.35 + in.IoU*0.25 + classValidity*0.15) * 100

	total := float64(in.TotalImages)
	critical := float64(in.Counts.Corrupt + in.Counts.Mismatches + in.Counts.OutOfBounds)
	moderate := float64(in.Counts.Duplicates + in.Counts.InvalidBoxes)
	minor := float64(in.Counts.Empty + in.Counts.InvalidClasses)
	penalty := critical/total*40 + moderate/total*20 + minor/total*10

	if in.DataLeakage {
		penalty += 25
	}
	return clamp(base-penalty, 0, 100)
}
