package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/nithin2k5/yoloGenerator/analyzer"
	"github.com/nithin2k5/yoloGenerator/config"
	"github.com/nithin2k5/yoloGenerator/database"
	"github.com/nithin2k5/yoloGenerator/handlers"
	"github.com/nithin2k5/yoloGenerator/media"
	"github.com/nithin2k5/yoloGenerator/realtime"
	"github.com/nithin2k5/yoloGenerator/repository"
	"github.com/nithin2k5/yoloGenerator/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		log.Printf("Ensuring database directory exists: %s", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create database directory %s: %v", dir, err)
		}
	}

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get sql.DB handle: %v", err)
	}
	defer sqlDB.Close()

	store, err := media.NewLocalStorage(cfg.DatasetsRoot)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize dataset store: %v", err)
	}

	scope, err := analyzer.ParseOverlapScope(cfg.OverlapScope)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	datasetRepo := repository.NewDatasetRepository(gormDB)
	annotationRepo := repository.NewAnnotationRepository(gormDB)

	hub := realtime.NewHub()
	go hub.Run()

	datasetAnalyzer := analyzer.New(datasetRepo, annotationRepo, media.NewImagingDecoder(), store, analyzer.Options{
		Workers:      cfg.ScanWorkers,
		OverlapScope: scope,
	})
	annotationService := services.NewAnnotationService(datasetRepo, annotationRepo, store, hub)

	log.Printf("Serving datasets from: %s", cfg.DatasetsRoot)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Analyzer: %d scan workers, overlap scope %s", cfg.ScanWorkers, scope)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	// the websocket route stays outside the request timeout
	r.Get("/api/ws", hub.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Minute))
		handlers.Routes{
			Datasets:    handlers.NewDatasetHandler(datasetRepo, store, sqlDB, cfg),
			Annotations: &handlers.AnnotationHandler{Service: annotationService},
			Analyze:     &handlers.AnalyzeHandler{Analyzer: datasetAnalyzer, Events: hub},
			Store:       store,
		}.Mount(r)
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("Server starting on http://localhost:%d\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
