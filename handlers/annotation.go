package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nithin2k5/yoloGenerator/models"
	"github.com/nithin2k5/yoloGenerator/services"
)

type AnnotationHandler struct {
	Service *services.AnnotationService
}

func (h *AnnotationHandler) SaveAnnotation(w http.ResponseWriter, r *http.Request) {
	var req services.SaveAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	annotation, err := h.Service.Save(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAnnotation) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_annotation", err.Error())
			return
		}
		writeLookupError(w, err, "saving annotation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"annotation": annotation,
	})
}

// GetAnnotation answers {"boxes":[]} for images that were never annotated
func (h *AnnotationHandler) GetAnnotation(w http.ResponseWriter, r *http.Request) {
	annotation, err := h.Service.Get(r.Context(), chi.URLParam(r, "dataset_id"), chi.URLParam(r, "image_id"))
	if err != nil {
		writeLookupError(w, err, "retrieving annotation")
		return
	}
	if annotation == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"boxes": []models.Box{}})
		return
	}
	writeJSON(w, http.StatusOK, annotation)
}
