package analyzer

import (
	"errors"
	"fmt"
	"math"

	"github.com/nithin2k5/yoloGenerator/models"
)

var errNonFinite = errors.New("non-finite box coordinate")

// Box is a structurally sound bounding box in pixel space
type Box struct {
	X         float64
	Y         float64
	Width     float64
	Height    float64
	ClassID   int
	ClassName string
}

// NewBox rejects boxes whose coordinates are NaN or infinite. Geometric
// validity against an image is checked separately by ValidateBox.
func NewBox(b models.Box) (Box, error) {
	for _, v := range [...]float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Box{}, fmt.Errorf("%w: %s", errNonFinite, b)
		}
	}
	return Box{
		X:         b.X,
		Y:         b.Y,
		Width:     b.Width,
		Height:    b.Height,
		ClassID:   b.ClassID,
		ClassName: b.ClassName,
	}, nil
}

func (b Box) Area() float64 {
	return b.Width * b.Height
}

// Overlaps reports a non-empty intersection. Touching edges do not overlap.
func (b Box) Overlaps(o Box) bool {
	return !(b.X+b.Width <= o.X || o.X+o.Width <= b.X ||
		b.Y+b.Height <= o.Y || o.Y+o.Height <= b.Y)
}

func (b Box) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", b.X, b.Y, b.Width, b.Height)
}

// ClassIndex answers class membership questions for one dataset
type ClassIndex struct {
	names []string
	set   map[string]struct{}
}

func NewClassIndex(names []string) ClassIndex {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return ClassIndex{names: names, set: set}
}

func (c ClassIndex) validID(id int) bool {
	return id >= 0 && id < len(c.names)
}

func (c ClassIndex) has(name string) bool {
	_, ok := c.set[name]
	return ok
}

// frequencyName is the class a valid box is counted under, "" if none
func (c ClassIndex) frequencyName(b Box) string {
	if b.ClassName != "" {
		return b.ClassName
	}
	if c.validID(b.ClassID) {
		return c.names[b.ClassID]
	}
	return ""
}

// BoxVerdict is the outcome of the semantic checks on one box
type BoxVerdict struct {
	ClassIssues []string
	Defect      DefectKind // "" when the box may enter statistics
}

func (v BoxVerdict) Valid() bool {
	return v.Defect == ""
}

// ValidateBox runs the class, bounds and positivity checks in that order.
// Class problems are informational; bounds and positivity failures exclude
// the box from statistics.
func ValidateBox(b Box, imgWidth, imgHeight int, classes ClassIndex, filename string) BoxVerdict {
	var v BoxVerdict

	if b.ClassName != "" && !classes.has(b.ClassName) {
		v.ClassIssues = append(v.ClassIssues, fmt.Sprintf("%s: class '%s' not in dataset", filename, b.ClassName))
	}
	if !classes.validID(b.ClassID) {
		v.ClassIssues = append(v.ClassIssues, fmt.Sprintf("%s: invalid class_id %d", filename, b.ClassID))
	}

	if b.X < 0 || b.Y < 0 || b.X+b.Width > float64(imgWidth) || b.Y+b.Height > float64(imgHeight) {
		v.Defect = DefectOutOfBounds
		return v
	}
	if b.Width <= 0 || b.Height <= 0 {
		v.Defect = DefectNonPositive
	}
	return v
}
