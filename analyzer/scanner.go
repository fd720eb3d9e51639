package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/nithin2k5/yoloGenerator/models"
	"github.com/nithin2k5/yoloGenerator/repository"
	"github.com/nithin2k5/yoloGenerator/workers"
)

// ScannedImage is an annotated image whose file decoded cleanly and whose
// stored dimensions match the pixels on disk
type ScannedImage struct {
	Image      models.DatasetImage
	Annotation *models.Annotation
	Hash       string
	Width      int
	Height     int
}

// ScanReport partitions annotated images into survivors and defects
type ScanReport struct {
	Images     []ScannedImage
	Corrupt    []string
	Mismatches []string
	Duplicates []string
	Empty      []string
	Defects    []Defect

	// images sharing a content hash, groups in first-seen order
	HashGroups [][]models.DatasetImage
}

func newScanReport() *ScanReport {
	return &ScanReport{
		Images:     []ScannedImage{},
		Corrupt:    []string{},
		Mismatches: []string{},
		Duplicates: []string{},
		Empty:      []string{},
		Defects:    []Defect{},
	}
}

func (r *ScanReport) record(d Defect) {
	switch d.Kind {
	case DefectCorrupt, DefectMissingFile:
		r.Corrupt = append(r.Corrupt, d.Subject)
	case DefectLabelMismatch:
		r.Mismatches = append(r.Mismatches, d.Subject)
	case DefectEmptyAnnotation:
		r.Empty = append(r.Empty, d.Subject)
	}
	r.Defects = append(r.Defects, d)
	log.Printf("analyzer: %v", d)
}

// Scanner loads annotations and probes image files for one dataset
type Scanner struct {
	annotations repository.AnnotationStore
	pool        *workers.ScanPool
}

func NewScanner(annotations repository.AnnotationStore, pool *workers.ScanPool) *Scanner {
	return &Scanner{annotations: annotations, pool: pool}
}

type scanCandidate struct {
	image      models.DatasetImage
	annotation *models.Annotation
}

func imagePath(imagesDir string, img models.DatasetImage) string {
	if img.Path != "" {
		return img.Path
	}
	return filepath.Join(imagesDir, img.Filename)
}

// Scan probes the given annotated images. Per-image problems end up in the
// report; only store failures and cancellation return an error.
func (s *Scanner) Scan(ctx context.Context, datasetID, imagesDir string, images []models.DatasetImage) (*ScanReport, error) {
	report := newScanReport()

	candidates := make([]scanCandidate, 0, len(images))
	paths := make([]string, 0, len(images))
	for _, img := range images {
		ann, err := s.annotations.GetAnnotation(ctx, datasetID, img.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load annotation for image %s: %w", img.ID, err)
		}
		if ann == nil {
			report.record(Defect{Kind: DefectEmptyAnnotation, Subject: img.Filename, Detail: "no annotation record"})
			continue
		}
		candidates = append(candidates, scanCandidate{image: img, annotation: ann})
		paths = append(paths, imagePath(imagesDir, img))
	}

	probes := s.pool.Run(ctx, paths)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan of dataset %s interrupted: %w", datasetID, err)
	}

	hashIndex := make(map[string]int)
	for i, probe := range probes {
		c := candidates[i]
		name := c.image.Filename

		if probe.Err != nil {
			kind := DefectCorrupt
			if errors.Is(probe.Err, workers.ErrFileMissing) {
				kind = DefectMissingFile
			}
			report.record(Defect{Kind: kind, Subject: name, Detail: probe.Err.Error()})
			continue
		}

		if idx, seen := hashIndex[probe.Hash]; seen {
			report.HashGroups[idx] = append(report.HashGroups[idx], c.image)
			report.Duplicates = append(report.Duplicates, name)
		} else {
			hashIndex[probe.Hash] = len(report.HashGroups)
			report.HashGroups = append(report.HashGroups, []models.DatasetImage{c.image})
		}

		if c.annotation.Width != probe.Width || c.annotation.Height != probe.Height {
			report.record(Defect{
				Kind:    DefectLabelMismatch,
				Subject: name,
				Detail: fmt.Sprintf("annotation %dx%d, image %dx%d",
					c.annotation.Width, c.annotation.Height, probe.Width, probe.Height),
			})
			continue
		}

		report.Images = append(report.Images, ScannedImage{
			Image:      c.image,
			Annotation: c.annotation,
			Hash:       probe.Hash,
			Width:      probe.Width,
			Height:     probe.Height,
		})
		if len(c.annotation.BoxList()) == 0 {
			report.record(Defect{Kind: DefectEmptyAnnotation, Subject: name, Detail: "no boxes"})
		}
	}

	return report, nil
}
