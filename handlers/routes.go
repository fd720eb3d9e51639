package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/nithin2k5/yoloGenerator/media"
)

// Routes bundles the handlers mounted under /api
type Routes struct {
	Datasets    *DatasetHandler
	Annotations *AnnotationHandler
	Analyze     *AnalyzeHandler
	Store       media.Store
}

// Mount registers every /api route on r
func (rt Routes) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/", rt.Datasets.CreateDataset)
			r.Get("/", rt.Datasets.ListDatasets)
			r.Route("/{dataset_id}", func(r chi.Router) {
				r.Get("/", rt.Datasets.GetDataset)
				r.Delete("/", rt.Datasets.DeleteDataset)
				r.Get("/stats", rt.Datasets.GetDatasetStats)
				r.Get("/analyze", rt.Analyze.AnalyzeDataset)
				r.Post("/images", rt.Datasets.UploadImages)
				r.Get("/images", rt.Datasets.ListImages)
				r.Put("/images/{image_id}/split", rt.Datasets.UpdateImageSplit)
				r.Get("/files/*", DatasetFileServer(rt.Store))
			})
		})

		r.Route("/annotations", func(r chi.Router) {
			r.Post("/", rt.Annotations.SaveAnnotation)
			r.Get("/{dataset_id}/{image_id}", rt.Annotations.GetAnnotation)
		})
	})
}
