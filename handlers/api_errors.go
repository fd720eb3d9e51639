package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/nithin2k5/yoloGenerator/analyzer"
	"github.com/nithin2k5/yoloGenerator/repository"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// writeLookupError maps repository and analyzer sentinels to 404s and
// everything else to a logged 500
func writeLookupError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrDatasetNotFound), errors.Is(err, analyzer.ErrNotFound):
		WriteAPIError(w, http.StatusNotFound, "dataset_not_found", "Dataset not found")
	case errors.Is(err, repository.ErrImageNotFound):
		WriteAPIError(w, http.StatusNotFound, "image_not_found", "Image not found")
	default:
		log.Printf("Error %s: %v", action, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed "+action)
	}
}
