package analyzer

import (
	"fmt"
)

// TrainingConfig is the recommended YOLO training setup
type TrainingConfig struct {
	ImageSize int
	BatchSize int
	Epochs    int
}

// size tiers keyed on annotated image count
var trainingTiers = []struct {
	below     int
	batchSize int
	epochs    int
}{
	{100, 8, 200},
	{500, 16, 150},
	{2000, 32, 100},
}

// RecommendTrainingConfig picks image size from the tiny-object share and
// batch size / epochs from the dataset size
func RecommendTrainingConfig(numImages int, sizes SizeDistribution) TrainingConfig {
	cfg := TrainingConfig{ImageSize: 640, BatchSize: 64, Epochs: 50}

	// 0.1 < ratio <= 0.3 stays at 640 as well
	if sizes.TinyRatio() > 0.3 {
		cfg.ImageSize = 1280
	}

	for _, tier := range trainingTiers {
		if numImages < tier.below {
			cfg.BatchSize = tier.batchSize
			cfg.Epochs = tier.epochs
			break
		}
	}
	return cfg
}

// Augmentation holds recommended augmentation hyperparameters
type Augmentation struct {
	Mosaic    bool    `json:"mosaic"`
	Mixup     float64 `json:"mixup"`
	HSVH      float64 `json:"hsv_h"`
	HSVS      float64 `json:"hsv_s"`
	HSVV      float64 `json:"hsv_v"`
	Flip      float64 `json:"flip"`
	Scale     float64 `json:"scale"`
	Degrees   float64 `json:"degrees"`
	Translate float64 `json:"translate"`
	Blur      float64 `json:"blur"`
	Noise     float64 `json:"noise"`
}

func RecommendAugmentation(balance float64, sizes SizeDistribution, numImages int) Augmentation {
	tiny := sizes.TinyRatio()
	aug := Augmentation{
		Mosaic:    numImages < 1000,
		HSVH:      0.015,
		HSVS:      0.7,
		HSVV:      0.4,
		Flip:      0.5,
		Scale:     0.3,
		Translate: 0.1,
	}
	if balance < 0.7 {
		aug.Mixup = 0.1
	}
	if tiny < 0.2 {
		aug.Scale = 0.5
	}
	if tiny > 0.1 {
		aug.Degrees = 10.0
	}
	return aug
}

// AdviceInput is everything the warning rules look at
type AdviceInput struct {
	ClassFrequency map[string]int
	Balance        float64
	Sizes          SizeDistribution
	NumImages      int
	Counts         DefectCounts
	SplitRatios    map[string]float64
	DataLeakage    bool
	QualityScore   float64
}

func (in AdviceInput) minPerClass() int {
	first := true
	lowest := 0
	for _, n := range in.ClassFrequency {
		if first || n < lowest {
			lowest = n
			first = false
		}
	}
	return lowest
}

type adviceRule struct {
	applies        func(in AdviceInput) bool
	warning        func(in AdviceInput) string
	recommendation string
}

func fixed(s string) func(AdviceInput) string {
	return func(AdviceInput) string { return s }
}

func counted(format string, count func(c DefectCounts) int) func(AdviceInput) string {
	return func(in AdviceInput) string { return fmt.Sprintf(format, count(in.Counts)) }
}

// adviceRules fire in order; every applicable rule contributes one warning
// and one recommendation
var adviceRules = []adviceRule{
	{
		applies:        func(in AdviceInput) bool { return in.Balance < 0.5 },
		warning:        fixed("Severe class imbalance detected"),
		recommendation: "Consider using class weights or oversampling rare classes",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Balance >= 0.5 && in.Balance < 0.7 },
		warning:        fixed("Moderate class imbalance detected"),
		recommendation: "Consider data augmentation for minority classes",
	},
	{
		applies:        func(in AdviceInput) bool { return in.minPerClass() < 10 },
		warning:        fixed("Some classes have very few examples (< 10)"),
		recommendation: "Collect more data for underrepresented classes",
	},
	{
		applies:        func(in AdviceInput) bool { m := in.minPerClass(); return m >= 10 && m < 50 },
		warning:        fixed("Some classes have limited examples (< 50)"),
		recommendation: "Consider data augmentation or transfer learning",
	},
	{
		applies:        func(in AdviceInput) bool { return in.NumImages < 100 },
		warning:        fixed("Small dataset size may lead to overfitting"),
		recommendation: "Use aggressive data augmentation and consider transfer learning",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Sizes.TinyRatio() > 0.3 },
		warning:        fixed("High proportion of tiny objects detected"),
		recommendation: "Use higher image resolution (1280px) and consider mosaic augmentation",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Counts.Corrupt > 0 },
		warning:        counted("%d corrupt images detected", func(c DefectCounts) int { return c.Corrupt }),
		recommendation: "Remove or fix corrupt images before training",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Counts.Duplicates > 0 },
		warning:        counted("%d duplicate images detected", func(c DefectCounts) int { return c.Duplicates }),
		recommendation: "Remove duplicate images to prevent data leakage",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Counts.Mismatches > 0 },
		warning:        counted("%d label mismatches detected", func(c DefectCounts) int { return c.Mismatches }),
		recommendation: "Fix label mismatches (annotation dimensions don't match image)",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Counts.InvalidBoxes > 0 },
		warning:        counted("%d invalid bounding boxes detected", func(c DefectCounts) int { return c.InvalidBoxes }),
		recommendation: "Fix invalid bounding boxes (zero or negative dimensions)",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Counts.Empty > 0 },
		warning:        counted("%d images with no annotations detected", func(c DefectCounts) int { return c.Empty }),
		recommendation: "Remove unannotated images or add annotations before training",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Counts.OutOfBounds > 0 },
		warning:        counted("%d bounding boxes extend beyond image boundaries", func(c DefectCounts) int { return c.OutOfBounds }),
		recommendation: "Fix out-of-bounds boxes - they will cause training errors",
	},
	{
		applies:        func(in AdviceInput) bool { return in.Counts.InvalidClasses > 0 },
		warning:        counted("%d invalid class IDs detected", func(c DefectCounts) int { return c.InvalidClasses }),
		recommendation: "Fix class IDs to match dataset class list",
	},
	{
		applies: func(in AdviceInput) bool {
			ratio, ok := in.SplitRatios["train"]
			return ok && ratio < 0.7
		},
		warning:        fixed("Training set is too small (< 70%)"),
		recommendation: "Increase training set size or use cross-validation",
	},
	{
		applies:        func(in AdviceInput) bool { return in.DataLeakage },
		warning:        fixed("Data leakage detected - same images in multiple splits"),
		recommendation: "Fix split assignments to prevent data leakage",
	},
	{
		applies:        func(in AdviceInput) bool { return in.QualityScore < 50 },
		warning:        fixed("Low overall dataset quality"),
		recommendation: "Address quality issues before training for best results",
	},
	{
		applies:        func(in AdviceInput) bool { return in.QualityScore >= 50 && in.QualityScore < 70 },
		warning:        fixed("Moderate dataset quality"),
		recommendation: "Consider improving dataset quality for better model performance",
	},
}

// Advise evaluates the rule table. Both slices are non-nil.
func Advise(in AdviceInput) (warnings, recommendations []string) {
	warnings = []string{}
	recommendations = []string{}
	for _, rule := range adviceRules {
		if !rule.applies(in) {
			continue
		}
		warnings = append(warnings, rule.warning(in))
		recommendations = append(recommendations, rule.recommendation)
	}
	return warnings, recommendations
}
