package media

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nithin2k5/yoloGenerator/models"
)

var (
	ErrLabelFieldCount = errors.New("expected 5 values")
	ErrLabelNumeric    = errors.New("invalid numeric values")
)

// YOLOLabel is one line of a YOLO label file: class id followed by the
// normalized box center and size.
type YOLOLabel struct {
	ClassID int
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// LabelFilename returns the label file name for an image file name
func LabelFilename(imageFilename string) string {
	base := filepath.Base(imageFilename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + LabelFileExt
}

// ParseYOLOLine tokenizes a non-blank label line
func ParseYOLOLine(line string) (YOLOLabel, error) {
	parts := strings.Fields(line)
	if len(parts) != 5 {
		return YOLOLabel{}, fmt.Errorf("%w, got %d", ErrLabelFieldCount, len(parts))
	}

	classID, err := strconv.Atoi(parts[0])
	if err != nil {
		return YOLOLabel{}, fmt.Errorf("%w: class id %q", ErrLabelNumeric, parts[0])
	}
	var vals [4]float64
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return YOLOLabel{}, fmt.Errorf("%w: %q", ErrLabelNumeric, p)
		}
		vals[i] = v
	}

	return YOLOLabel{
		ClassID: classID,
		XCenter: vals[0],
		YCenter: vals[1],
		Width:   vals[2],
		Height:  vals[3],
	}, nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// InRange reports whether every normalized value lies in [0,1]
func (l YOLOLabel) InRange() bool {
	return inUnit(l.XCenter) && inUnit(l.YCenter) && inUnit(l.Width) && inUnit(l.Height)
}

// edge slack for values written with six decimals
const boundsTolerance = 1e-6

// WithinBounds reports whether the box edges stay inside the unit square
func (l YOLOLabel) WithinBounds() bool {
	return l.XCenter-l.Width/2 >= -boundsTolerance && l.XCenter+l.Width/2 <= 1+boundsTolerance &&
		l.YCenter-l.Height/2 >= -boundsTolerance && l.YCenter+l.Height/2 <= 1+boundsTolerance
}

// FromBox converts a pixel-space box into its normalized YOLO form
func FromBox(box models.Box, imgWidth, imgHeight int) YOLOLabel {
	w := float64(imgWidth)
	h := float64(imgHeight)
	return YOLOLabel{
		ClassID: box.ClassID,
		XCenter: (box.X + box.Width/2) / w,
		YCenter: (box.Y + box.Height/2) / h,
		Width:   box.Width / w,
		Height:  box.Height / h,
	}
}

func (l YOLOLabel) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", l.ClassID, l.XCenter, l.YCenter, l.Width, l.Height)
}

// EncodeYOLOLabels renders a whole label file for an image
func EncodeYOLOLabels(boxes []models.Box, imgWidth, imgHeight int) ([]byte, error) {
	if imgWidth <= 0 || imgHeight <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", imgWidth, imgHeight)
	}
	var buf bytes.Buffer
	for _, b := range boxes {
		buf.WriteString(FromBox(b, imgWidth, imgHeight).String())
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
