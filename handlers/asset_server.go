package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nithin2k5/yoloGenerator/media"
)

// DatasetFileServer serves files from inside a dataset directory. It expects
// the relative path in the chi wildcard:
//
//	r.Get("/api/datasets/{dataset_id}/files/*", DatasetFileServer(store))
//
// so /api/datasets/<id>/files/images/a.jpg serves <root>/<id>/images/a.jpg.
func DatasetFileServer(store media.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datasetID := chi.URLParam(r, "dataset_id")
		relativePath := chi.URLParam(r, "*")

		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		fullPath, err := store.GetFullPath(datasetID, relativePath)
		if err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: Rejected dataset file access: Request='%s', Dataset='%s': %v", r.URL.Path, datasetID, err)
			return
		}

		info, err := os.Stat(fullPath)
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating dataset file %s: %v", fullPath, err)
			return
		}
		if info.IsDir() {
			http.NotFound(w, r)
			return
		}

		// label files change on every save
		if strings.HasPrefix(relativePath, media.ImagesSubDir+"/") {
			cacheDuration := 24 * time.Hour
			w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
			w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		http.ServeFile(w, r, fullPath)
	}
}
