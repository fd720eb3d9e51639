package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendTrainingConfig(t *testing.T) {
	tests := []struct {
		images    int
		sizes     SizeDistribution
		wantSize  int
		wantBatch int
		wantEpoch int
	}{
		{0, SizeDistribution{}, 640, 8, 200},
		{99, SizeDistribution{Large: 10}, 640, 8, 200},
		{100, SizeDistribution{Tiny: 2, Large: 8}, 640, 16, 150},
		{499, SizeDistribution{Tiny: 3, Large: 7}, 640, 16, 150},
		{500, SizeDistribution{Tiny: 4, Large: 6}, 1280, 32, 100},
		{1999, SizeDistribution{Tiny: 10}, 1280, 32, 100},
		{2000, SizeDistribution{Small: 1}, 640, 64, 50},
	}
	for _, tt := range tests {
		got := RecommendTrainingConfig(tt.images, tt.sizes)
		assert.Equal(t, TrainingConfig{ImageSize: tt.wantSize, BatchSize: tt.wantBatch, Epochs: tt.wantEpoch}, got,
			"images=%d sizes=%+v", tt.images, tt.sizes)
	}
}

func TestRecommendAugmentation(t *testing.T) {
	aug := RecommendAugmentation(0.9, SizeDistribution{Large: 10}, 50)
	assert.Equal(t, Augmentation{
		Mosaic:    true,
		Mixup:     0,
		HSVH:      0.015,
		HSVS:      0.7,
		HSVV:      0.4,
		Flip:      0.5,
		Scale:     0.5,
		Degrees:   0,
		Translate: 0.1,
	}, aug)

	aug = RecommendAugmentation(0.6, SizeDistribution{Tiny: 3, Large: 7}, 1000)
	assert.False(t, aug.Mosaic)
	assert.Equal(t, 0.1, aug.Mixup)
	assert.Equal(t, 0.3, aug.Scale)
	assert.Equal(t, 10.0, aug.Degrees)
	assert.Equal(t, 0.0, aug.Blur)
	assert.Equal(t, 0.0, aug.Noise)

	// tiny ratio 0.15 keeps the wide scale but enables rotation
	aug = RecommendAugmentation(1, SizeDistribution{Tiny: 3, Small: 17}, 10)
	assert.Equal(t, 0.5, aug.Scale)
	assert.Equal(t, 10.0, aug.Degrees)
}

func TestAdvise_AllRulesInOrder(t *testing.T) {
	warnings, recs := Advise(AdviceInput{
		ClassFrequency: map[string]int{"a": 100, "b": 2},
		Balance:        0.1,
		Sizes:          SizeDistribution{Tiny: 9, Large: 1},
		NumImages:      20,
		Counts: DefectCounts{
			Corrupt: 1, Duplicates: 2, Mismatches: 3, InvalidBoxes: 4,
			Empty: 5, OutOfBounds: 6, InvalidClasses: 7,
		},
		SplitRatios:  map[string]float64{"train": 0.5, "val": 0.5},
		DataLeakage:  true,
		QualityScore: 10,
	})

	assert.Equal(t, []string{
		"Severe class imbalance detected",
		"Some classes have very few examples (< 10)",
		"Small dataset size may lead to overfitting",
		"High proportion of tiny objects detected",
		"1 corrupt images detected",
		"2 duplicate images detected",
		"3 label mismatches detected",
		"4 invalid bounding boxes detected",
		"5 images with no annotations detected",
		"6 bounding boxes extend beyond image boundaries",
		"7 invalid class IDs detected",
		"Training set is too small (< 70%)",
		"Data leakage detected - same images in multiple splits",
		"Low overall dataset quality",
	}, warnings)
	assert.Len(t, recs, len(warnings))
	assert.Equal(t, "Use higher image resolution (1280px) and consider mosaic augmentation", recs[3])
}

func TestAdvise_ModerateBands(t *testing.T) {
	warnings, _ := Advise(AdviceInput{
		ClassFrequency: map[string]int{"a": 30, "b": 60},
		Balance:        0.6,
		NumImages:      500,
		SplitRatios:    map[string]float64{"train": 0.8},
		QualityScore:   60,
	})
	assert.Equal(t, []string{
		"Moderate class imbalance detected",
		"Some classes have limited examples (< 50)",
		"Moderate dataset quality",
	}, warnings)
}

func TestAdvise_NothingToSay(t *testing.T) {
	warnings, recs := Advise(AdviceInput{
		ClassFrequency: map[string]int{"a": 500},
		Balance:        1,
		NumImages:      1000,
		QualityScore:   95,
	})
	assert.NotNil(t, warnings)
	assert.NotNil(t, recs)
	assert.Empty(t, warnings)
	assert.Empty(t, recs)
}

func TestAdvise_NoTrainSplitSkipsRatioRule(t *testing.T) {
	warnings, _ := Advise(AdviceInput{
		ClassFrequency: map[string]int{"a": 500},
		Balance:        1,
		NumImages:      1000,
		SplitRatios:    map[string]float64{"none": 1},
		QualityScore:   95,
	})
	assert.Empty(t, warnings)
}
