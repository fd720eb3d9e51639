package analyzer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nithin2k5/yoloGenerator/media"
	"github.com/nithin2k5/yoloGenerator/models"
	"gopkg.in/yaml.v3"
)

// manifest mirrors the fields of data.yaml we validate
type manifest struct {
	Names yaml.Node `yaml:"names"`
	NC    *int      `yaml:"nc"`
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ValidateStructure checks the dataset directory layout and, when present,
// the data.yaml manifest. It returns the issues found; none means valid.
func ValidateStructure(datasetDir string, classes []string) []string {
	issues := []string{}

	if !dirExists(datasetDir) {
		return append(issues, "Dataset directory does not exist")
	}
	if !dirExists(filepath.Join(datasetDir, media.ImagesSubDir)) {
		issues = append(issues, "Images directory missing")
	}
	if !dirExists(filepath.Join(datasetDir, media.LabelsSubDir)) {
		issues = append(issues, "Labels directory missing")
	}

	data, err := os.ReadFile(filepath.Join(datasetDir, media.ManifestFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			issues = append(issues, fmt.Sprintf("Invalid data.yaml: %v", err))
		}
		return issues
	}
	return append(issues, validateManifest(data, len(classes))...)
}

func validateManifest(data []byte, numClasses int) []string {
	var issues []string

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return []string{fmt.Sprintf("Invalid data.yaml: %v", err)}
	}
	if strings.TrimSpace(string(data)) == "" {
		return []string{"Invalid data.yaml: empty document"}
	}

	if m.Names.Kind == 0 {
		issues = append(issues, "data.yaml missing 'names' field")
	}
	// an absent nc counts as zero classes
	nc := 0
	if m.NC == nil {
		issues = append(issues, "data.yaml missing 'nc' field")
	} else {
		nc = *m.NC
	}
	if nc != numClasses {
		issues = append(issues, "data.yaml class count mismatch")
	}
	return issues
}

// ValidateLabelFiles checks the exported YOLO label file of every annotated
// image. It does nothing when the labels directory is absent, since
// ValidateStructure already reports that.
func ValidateLabelFiles(datasetDir string, images []models.DatasetImage, numClasses int) []string {
	issues := []string{}

	labelsDir := filepath.Join(datasetDir, media.LabelsSubDir)
	if !dirExists(labelsDir) {
		return issues
	}

	for i := range images {
		if !images[i].Annotated {
			continue
		}
		labelName := media.LabelFilename(images[i].Filename)
		issues = append(issues, validateLabelFile(filepath.Join(labelsDir, labelName), labelName, numClasses)...)
	}
	return issues
}

func validateLabelFile(path, labelName string, numClasses int) []string {
	var issues []string

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{fmt.Sprintf("Missing label file: %s", labelName)}
		}
		return []string{fmt.Sprintf("%s: Error reading file - %v", labelName, err)}
	}

	// whole-file read: a single overlong line must not hide the lines after it
	for i, raw := range strings.Split(string(data), "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		label, err := media.ParseYOLOLine(line)
		if errors.Is(err, media.ErrLabelFieldCount) {
			issues = append(issues, fmt.Sprintf("%s: line %d has invalid format (expected 5 values)", labelName, lineNum))
			continue
		}
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: line %d has invalid numeric values", labelName, lineNum))
			continue
		}

		if label.ClassID < 0 || label.ClassID >= numClasses {
			issues = append(issues, fmt.Sprintf("%s: line %d has class id %d outside [0,%d)", labelName, lineNum, label.ClassID, numClasses))
		}
		if !label.InRange() {
			issues = append(issues, fmt.Sprintf("%s: line %d has coordinates out of range [0,1]", labelName, lineNum))
		}
		if !label.WithinBounds() {
			issues = append(issues, fmt.Sprintf("%s: line %d box extends beyond image boundaries", labelName, lineNum))
		}
	}
	return issues
}
