package analyzer

import (
	"github.com/nithin2k5/yoloGenerator/models"
)

// relative object size thresholds (box area / image area)
const (
	tinyThreshold   = 0.01
	smallThreshold  = 0.05
	mediumThreshold = 0.2
)

// aspect ratio (width / height) thresholds
const (
	portraitBelow  = 0.8
	landscapeAbove = 1.2
)

type SizeDistribution struct {
	Tiny   int `json:"tiny"`
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

func (d SizeDistribution) Total() int {
	return d.Tiny + d.Small + d.Medium + d.Large
}

// TinyRatio is the share of tiny objects, 0 when there are no objects
func (d SizeDistribution) TinyRatio() float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return float64(d.Tiny) / float64(total)
}

func (d *SizeDistribution) add(relative float64) {
	switch {
	case relative < tinyThreshold:
		d.Tiny++
	case relative < smallThreshold:
		d.Small++
	case relative < mediumThreshold:
		d.Medium++
	default:
		d.Large++
	}
}

type AspectDistribution struct {
	Portrait  int `json:"portrait"`
	Square    int `json:"square"`
	Landscape int `json:"landscape"`
}

func (d *AspectDistribution) add(ratio float64) {
	switch {
	case ratio < portraitBelow:
		d.Portrait++
	case ratio > landscapeAbove:
		d.Landscape++
	default:
		d.Square++
	}
}

// placedBox is a valid box tagged with the image it came from
type placedBox struct {
	image int
	box   Box
}

// Aggregator accumulates statistics over valid boxes during the sweep
type Aggregator struct {
	classFrequency map[string]int
	sizes          SizeDistribution
	aspects        AspectDistribution
	boxes          []placedBox
	images         int
}

func NewAggregator() *Aggregator {
	return &Aggregator{classFrequency: make(map[string]int)}
}

// AddImage registers a surviving image and returns its index for AddBox
func (a *Aggregator) AddImage() int {
	a.images++
	return a.images - 1
}

// AddBox records a box that passed bounds and positivity checks
func (a *Aggregator) AddBox(image int, b Box, className string, imgWidth, imgHeight int) {
	a.boxes = append(a.boxes, placedBox{image: image, box: b})
	if className != "" {
		a.classFrequency[className]++
	}

	imgArea := float64(imgWidth) * float64(imgHeight)
	if imgArea <= 0 {
		return
	}
	a.sizes.add(b.Area() / imgArea)
	if b.Width > 0 && b.Height > 0 {
		a.aspects.add(b.Width / b.Height)
	}
}

func (a *Aggregator) ClassFrequency() map[string]int {
	out := make(map[string]int, len(a.classFrequency))
	for k, v := range a.classFrequency {
		out[k] = v
	}
	return out
}

func (a *Aggregator) Sizes() SizeDistribution     { return a.sizes }
func (a *Aggregator) Aspects() AspectDistribution { return a.aspects }
func (a *Aggregator) TotalBoxes() int             { return len(a.boxes) }

// AvgObjectsPerImage divides valid boxes by surviving images
func (a *Aggregator) AvgObjectsPerImage() float64 {
	if a.images == 0 {
		return 0
	}
	return float64(len(a.boxes)) / float64(a.images)
}

// SplitDistribution counts images per split label ("none" when unset) and
// each label's share of the total
func SplitDistribution(images []models.DatasetImage) (map[string]int, map[string]float64) {
	counts := make(map[string]int)
	ratios := make(map[string]float64)
	for i := range images {
		counts[images[i].SplitKey()]++
	}
	if len(images) == 0 {
		return counts, ratios
	}
	total := float64(len(images))
	for split, n := range counts {
		ratios[split] = float64(n) / total
	}
	return counts, ratios
}

// DetectLeakage reports whether any group of identical images spans more
// than one split label. An unset split counts as its own label.
func DetectLeakage(groups [][]models.DatasetImage) bool {
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		first := group[0].SplitKey()
		for i := 1; i < len(group); i++ {
			if group[i].SplitKey() != first {
				return true
			}
		}
	}
	return false
}
