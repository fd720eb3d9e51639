package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"

	"github.com/nithin2k5/yoloGenerator/config"
	"github.com/nithin2k5/yoloGenerator/database"
	"github.com/nithin2k5/yoloGenerator/media"
	"github.com/nithin2k5/yoloGenerator/models"
	"github.com/nithin2k5/yoloGenerator/repository"
	"github.com/nithin2k5/yoloGenerator/utils"
)

// multipart parts above this size spill to temp files
const multipartMemory = 32 << 20

type DatasetHandler struct {
	Datasets repository.DatasetRepositoryInterface
	Store    media.Store
	DB       *sql.DB // raw handle for the squirrel stats queries
	Cfg      config.Config
}

func NewDatasetHandler(datasets repository.DatasetRepositoryInterface, store media.Store, db *sql.DB, cfg config.Config) *DatasetHandler {
	return &DatasetHandler{Datasets: datasets, Store: store, DB: db, Cfg: cfg}
}

func (h *DatasetHandler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Classes     []string `json:"classes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_field", "Missing required field: name")
		return
	}
	classes := make([]string, 0, len(req.Classes))
	seen := make(map[string]bool, len(req.Classes))
	for _, c := range req.Classes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			WriteAPIError(w, http.StatusBadRequest, "invalid_classes", "Class names must be non-empty and unique")
			return
		}
		seen[c] = true
		classes = append(classes, c)
	}

	dataset := &models.Dataset{
		Name:        req.Name,
		Description: req.Description,
		Classes:     datatypes.NewJSONType(classes),
	}
	if err := h.Datasets.Create(r.Context(), dataset); err != nil {
		log.Printf("Error creating dataset '%s': %v", req.Name, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create dataset")
		return
	}

	if _, err := h.Store.EnsureDataset(dataset.ID); err != nil {
		log.Printf("Error creating directories for dataset %s: %v", dataset.ID, err)
		if delErr := h.Datasets.Delete(r.Context(), dataset.ID); delErr != nil {
			log.Printf("Error rolling back dataset %s: %v", dataset.ID, delErr)
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create dataset directories")
		return
	}

	log.Printf("Created dataset %s (%s) with %d classes", dataset.ID, dataset.Name, len(classes))
	writeJSON(w, http.StatusCreated, dataset)
}

func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.Datasets.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing datasets: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve datasets")
		return
	}
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	writeJSON(w, http.StatusOK, datasets)
}

func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.Datasets.GetDataset(r.Context(), chi.URLParam(r, "dataset_id"))
	if err != nil {
		writeLookupError(w, err, "retrieving dataset")
		return
	}
	writeJSON(w, http.StatusOK, dataset)
}

// DeleteDataset removes the rows, then the directory. A failed directory
// removal is only logged.
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "dataset_id")
	if err := h.Datasets.Delete(r.Context(), datasetID); err != nil {
		writeLookupError(w, err, "deleting dataset")
		return
	}
	if err := h.Store.DeleteDataset(datasetID); err != nil {
		log.Printf("Error deleting files of dataset %s: %v", datasetID, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DatasetHandler) GetDatasetStats(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.Datasets.GetDataset(r.Context(), chi.URLParam(r, "dataset_id"))
	if err != nil {
		writeLookupError(w, err, "retrieving dataset")
		return
	}
	stats, err := database.GetDatasetStats(h.DB, dataset)
	if err != nil {
		writeLookupError(w, err, "computing dataset stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type uploadResult struct {
	Uploaded []models.DatasetImage `json:"uploaded"`
	Skipped  []string              `json:"skipped"`
}

// UploadImages accepts multipart "files" parts. Files without a raster
// extension or that fail to store are reported back as skipped.
func (h *DatasetHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "dataset_id")
	if _, err := h.Datasets.GetDataset(r.Context(), datasetID); err != nil {
		writeLookupError(w, err, "retrieving dataset")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteAPIError(w, http.StatusRequestEntityTooLarge, "upload_too_large",
				fmt.Sprintf("Upload exceeds %d bytes", h.Cfg.MaxUploadBytes))
			return
		}
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "missing_files", "No files provided in 'files'")
		return
	}

	result := uploadResult{Uploaded: []models.DatasetImage{}, Skipped: []string{}}
	for _, fh := range files {
		if !utils.IsRasterImage(fh.Filename) {
			result.Skipped = append(result.Skipped, fh.Filename)
			continue
		}
		image, err := h.storeUpload(r.Context(), datasetID, fh)
		if err != nil {
			log.Printf("Error storing upload %s for dataset %s: %v", fh.Filename, datasetID, err)
			result.Skipped = append(result.Skipped, fh.Filename)
			continue
		}
		result.Uploaded = append(result.Uploaded, *image)
	}

	log.Printf("Uploaded %d images to dataset %s (%d skipped)", len(result.Uploaded), datasetID, len(result.Skipped))
	writeJSON(w, http.StatusCreated, result)
}

func (h *DatasetHandler) storeUpload(ctx context.Context, datasetID string, fh *multipart.FileHeader) (*models.DatasetImage, error) {
	originalName := filepath.Base(fh.Filename)
	storedName, err := utils.StoredImageName(originalName)
	if err != nil {
		return nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	path, err := h.Store.Save(datasetID, media.AssetTypeImage, storedName, src)
	if err != nil {
		return nil, err
	}

	image := &models.DatasetImage{
		DatasetID:    datasetID,
		Filename:     storedName,
		OriginalName: originalName,
		Path:         path,
	}
	if meta, err := utils.GetImageMetadata(path); err == nil {
		image.Width = meta.Width
		image.Height = meta.Height
		image.TakenAt = meta.TakenAt
	} else {
		log.Printf("Warning: no metadata for %s: %v", path, err)
	}

	if err := h.Datasets.AddImage(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

// ListImages returns the images of a dataset ordered by ?sort=
// (filename_asc, filename_nat, date_asc, date_desc)
func (h *DatasetHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "dataset_id")
	order := r.URL.Query().Get("sort")
	if order == "" {
		order = database.DefaultSortOrder
	}
	if !database.IsValidSortOrder(order) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_sort", "Unknown sort order "+order+", expected one of: "+database.SortOrderList())
		return
	}

	if _, err := h.Datasets.GetDataset(r.Context(), datasetID); err != nil {
		writeLookupError(w, err, "retrieving dataset")
		return
	}
	images, err := h.Datasets.GetDatasetImages(r.Context(), datasetID)
	if err != nil {
		writeLookupError(w, err, "listing images")
		return
	}
	if images == nil {
		images = []models.DatasetImage{}
	}

	sortImages(images, order)
	writeJSON(w, http.StatusOK, images)
}

// sortImages reorders images in place; the repository already returns
// date_asc order
func sortImages(images []models.DatasetImage, order string) {
	switch order {
	case database.SortFilenameAsc:
		sort.SliceStable(images, func(i, j int) bool { return images[i].OriginalName < images[j].OriginalName })
	case database.SortFilenameNat:
		sort.SliceStable(images, func(i, j int) bool { return natsort.Compare(images[i].OriginalName, images[j].OriginalName) })
	case database.SortDateDesc:
		sort.SliceStable(images, func(i, j int) bool { return images[i].UploadedAt > images[j].UploadedAt })
	}
}

func (h *DatasetHandler) UpdateImageSplit(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "dataset_id")
	imageID := chi.URLParam(r, "image_id")

	var req struct {
		Split *string `json:"split"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}
	if req.Split != nil && !models.IsValidSplit(*req.Split) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_split", "Split must be one of train, val, test or null")
		return
	}

	if err := h.Datasets.UpdateImageSplit(r.Context(), datasetID, imageID, req.Split); err != nil {
		writeLookupError(w, err, "updating image split")
		return
	}
	image, err := h.Datasets.GetImage(r.Context(), datasetID, imageID)
	if err != nil {
		writeLookupError(w, err, "retrieving image")
		return
	}
	writeJSON(w, http.StatusOK, image)
}
