package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nithin2k5/yoloGenerator/analyzer"
	"github.com/nithin2k5/yoloGenerator/realtime"
	"github.com/nithin2k5/yoloGenerator/services"
)

// DatasetAnalyzer is satisfied by *analyzer.Analyzer
type DatasetAnalyzer interface {
	AnalyzeDataset(ctx context.Context, datasetID string) (*analyzer.Analysis, error)
}

type AnalyzeHandler struct {
	Analyzer DatasetAnalyzer
	Events   services.EventPublisher // optional
}

func (h *AnalyzeHandler) AnalyzeDataset(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "dataset_id")

	analysis, err := h.Analyzer.AnalyzeDataset(r.Context(), datasetID)
	if err != nil {
		writeLookupError(w, err, "analyzing dataset")
		return
	}

	if h.Events != nil {
		ev := realtime.NewEvent(realtime.EventAnalysisCompleted, datasetID)
		ev.Extra = map[string]interface{}{
			"overall_quality_score": analysis.OverallQualityScore,
			"total_images":          analysis.TotalImages,
			"warnings":              len(analysis.Warnings),
		}
		h.Events.Broadcast(ev)
	}
	log.Printf("Analyzed dataset %s: quality %.1f", datasetID, analysis.OverallQualityScore)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}
